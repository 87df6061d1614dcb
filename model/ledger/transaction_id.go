package ledger

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// TransactionID uniquely identifies one logical submission: the paying account plus the
// start of the validity window. The network deduplicates submissions by this value, so
// it must stay identical across every retry of the same transaction.
type TransactionID struct {
	AccountID  AccountID
	ValidStart time.Time
	Scheduled  bool
	Nonce      int32
}

// GenerateTransactionID returns a new transaction ID paid for by the given account.
//
// The valid start is backdated by a random 5-8 seconds so that small clock skew between
// the client and the nodes does not make the transaction appear to come from the future.
func GenerateTransactionID(payer AccountID) TransactionID {
	backdate := 5*time.Second + time.Duration(rand.Int63n(int64(3*time.Second)))
	return TransactionID{
		AccountID:  payer,
		ValidStart: time.Now().Add(-backdate).UTC(),
	}
}

// TransactionIDFromString parses the `shard.realm.num@seconds.nanos[?scheduled][/nonce]` form.
func TransactionIDFromString(s string) (TransactionID, error) {
	var id TransactionID

	rest := s
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		nonce, err := strconv.ParseInt(rest[i+1:], 10, 32)
		if err != nil {
			return TransactionID{}, fmt.Errorf("invalid transaction id %q: bad nonce: %w", s, err)
		}
		id.Nonce = int32(nonce)
		rest = rest[:i]
	}

	if strings.HasSuffix(rest, "?scheduled") {
		id.Scheduled = true
		rest = strings.TrimSuffix(rest, "?scheduled")
	}

	account, timestamp, ok := strings.Cut(rest, "@")
	if !ok {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: expected account@seconds.nanos", s)
	}

	accountID, err := AccountIDFromString(account)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: %w", s, err)
	}
	id.AccountID = accountID

	secondsStr, nanosStr, ok := strings.Cut(timestamp, ".")
	if !ok {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: expected seconds.nanos", s)
	}
	seconds, err := strconv.ParseInt(secondsStr, 10, 64)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: %w", s, err)
	}
	nanos, err := strconv.ParseInt(nanosStr, 10, 64)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: %w", s, err)
	}
	id.ValidStart = time.Unix(seconds, nanos).UTC()

	return id, nil
}

// String returns the canonical `shard.realm.num@seconds.nanos` form.
func (id TransactionID) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s@%d.%09d", id.AccountID, id.ValidStart.Unix(), id.ValidStart.Nanosecond())
	if id.Scheduled {
		b.WriteString("?scheduled")
	}
	if id.Nonce != 0 {
		fmt.Fprintf(&b, "/%d", id.Nonce)
	}
	return b.String()
}

// IsZero returns true if the ID was never set.
func (id TransactionID) IsZero() bool {
	return id.AccountID.IsZero() && id.ValidStart.IsZero()
}

// Equal reports whether both IDs identify the same submission.
func (id TransactionID) Equal(other TransactionID) bool {
	return id.AccountID.Equal(other.AccountID) &&
		id.ValidStart.Equal(other.ValidStart) &&
		id.Scheduled == other.Scheduled &&
		id.Nonce == other.Nonce
}

func (id TransactionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *TransactionID) UnmarshalText(text []byte) error {
	parsed, err := TransactionIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// AccountID identifies an account on the network in `shard.realm.num` form.
//
// An account may alternatively be addressed by an alias (the serialized public key
// it was auto-created for); when Alias is set, Num is ignored on the wire.
type AccountID struct {
	Shard uint64
	Realm uint64
	Num   uint64
	Alias []byte
}

// NewAccountID returns the account ID `shard.realm.num`.
func NewAccountID(shard, realm, num uint64) AccountID {
	return AccountID{Shard: shard, Realm: realm, Num: num}
}

// AccountIDFromString parses an account ID in `shard.realm.num` form. An alias may be
// given as hex in place of num.
func AccountIDFromString(s string) (AccountID, error) {
	shard, realm, last, err := splitEntityID(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("invalid account id %q: %w", s, err)
	}

	num, err := strconv.ParseUint(last, 10, 64)
	if err == nil {
		return AccountID{Shard: shard, Realm: realm, Num: num}, nil
	}

	alias, hexErr := hex.DecodeString(last)
	if hexErr != nil || len(alias) == 0 {
		return AccountID{}, fmt.Errorf("invalid account id %q: %w", s, err)
	}

	return AccountID{Shard: shard, Realm: realm, Alias: alias}, nil
}

// String returns the `shard.realm.num` form of the account ID.
func (id AccountID) String() string {
	if len(id.Alias) > 0 {
		return fmt.Sprintf("%d.%d.%s", id.Shard, id.Realm, hex.EncodeToString(id.Alias))
	}
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// Equal reports whether both IDs refer to the same account.
func (id AccountID) Equal(other AccountID) bool {
	return id.Shard == other.Shard &&
		id.Realm == other.Realm &&
		id.Num == other.Num &&
		bytes.Equal(id.Alias, other.Alias)
}

// IsZero returns true if the ID was never set.
func (id AccountID) IsZero() bool {
	return id.Shard == 0 && id.Realm == 0 && id.Num == 0 && len(id.Alias) == 0
}

// Clone returns a copy of the ID that shares no memory with id.
func (id AccountID) Clone() AccountID {
	id.Alias = bytes.Clone(id.Alias)
	return id
}

// Key returns a value usable as a map key.
func (id AccountID) Key() string {
	return id.String()
}

// Compare orders account IDs by shard, realm, then num.
func (id AccountID) Compare(other AccountID) int {
	switch {
	case id.Shard != other.Shard:
		return cmpUint(id.Shard, other.Shard)
	case id.Realm != other.Realm:
		return cmpUint(id.Realm, other.Realm)
	case id.Num != other.Num:
		return cmpUint(id.Num, other.Num)
	default:
		return bytes.Compare(id.Alias, other.Alias)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *AccountID) UnmarshalText(text []byte) error {
	parsed, err := AccountIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ContractID identifies a smart contract instance, either by `shard.realm.num` or by
// its 20-byte EVM address.
type ContractID struct {
	Shard      uint64
	Realm      uint64
	Num        uint64
	EvmAddress []byte
}

// NewContractID returns the contract ID `shard.realm.num`.
func NewContractID(shard, realm, num uint64) ContractID {
	return ContractID{Shard: shard, Realm: realm, Num: num}
}

// ContractIDFromString parses a contract ID in `shard.realm.num` form, or
// `shard.realm.<40 hex chars>` for an EVM address.
func ContractIDFromString(s string) (ContractID, error) {
	shard, realm, last, err := splitEntityID(s)
	if err != nil {
		return ContractID{}, fmt.Errorf("invalid contract id %q: %w", s, err)
	}

	if len(last) == 40 {
		addr, hexErr := hex.DecodeString(last)
		if hexErr == nil {
			return ContractID{Shard: shard, Realm: realm, EvmAddress: addr}, nil
		}
	}

	num, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return ContractID{}, fmt.Errorf("invalid contract id %q: %w", s, err)
	}
	return ContractID{Shard: shard, Realm: realm, Num: num}, nil
}

func (id ContractID) String() string {
	if len(id.EvmAddress) > 0 {
		return fmt.Sprintf("%d.%d.%s", id.Shard, id.Realm, hex.EncodeToString(id.EvmAddress))
	}
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// Clone returns a copy of the ID that shares no memory with id.
func (id ContractID) Clone() ContractID {
	id.EvmAddress = bytes.Clone(id.EvmAddress)
	return id
}

func (id ContractID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ContractID) UnmarshalText(text []byte) error {
	parsed, err := ContractIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// FileID identifies a file stored on the network.
type FileID struct {
	Shard uint64
	Realm uint64
	Num   uint64
}

func NewFileID(shard, realm, num uint64) FileID {
	return FileID{Shard: shard, Realm: realm, Num: num}
}

func FileIDFromString(s string) (FileID, error) {
	shard, realm, num, err := parseEntityID(s)
	if err != nil {
		return FileID{}, fmt.Errorf("invalid file id %q: %w", s, err)
	}
	return FileID{Shard: shard, Realm: realm, Num: num}, nil
}

func (id FileID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

func (id FileID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *FileID) UnmarshalText(text []byte) error {
	parsed, err := FileIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// TokenID identifies a fungible or non-fungible token type.
type TokenID struct {
	Shard uint64
	Realm uint64
	Num   uint64
}

func NewTokenID(shard, realm, num uint64) TokenID {
	return TokenID{Shard: shard, Realm: realm, Num: num}
}

func TokenIDFromString(s string) (TokenID, error) {
	shard, realm, num, err := parseEntityID(s)
	if err != nil {
		return TokenID{}, fmt.Errorf("invalid token id %q: %w", s, err)
	}
	return TokenID{Shard: shard, Realm: realm, Num: num}, nil
}

func (id TokenID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

func (id TokenID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *TokenID) UnmarshalText(text []byte) error {
	parsed, err := TokenIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseEntityID(s string) (uint64, uint64, uint64, error) {
	shard, realm, last, err := splitEntityID(s)
	if err != nil {
		return 0, 0, 0, err
	}
	num, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	return shard, realm, num, nil
}

func splitEntityID(s string) (uint64, uint64, string, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0, 0, "", fmt.Errorf("expected shard.realm.num")
	}
	shard, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, "", err
	}
	realm, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, "", err
	}
	return shard, realm, parts[2], nil
}

func cmpUint(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

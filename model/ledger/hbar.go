package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TinybarsPerHbar is the number of tinybars in one hbar.
const TinybarsPerHbar = 100_000_000

// Hbar is an amount of the network's native currency, stored in tinybars.
type Hbar int64

// ZeroHbar is the zero amount.
const ZeroHbar Hbar = 0

// NewHbar returns the given amount of hbars, rounded to the nearest tinybar.
func NewHbar(hbars float64) Hbar {
	return Hbar(math.Round(hbars * TinybarsPerHbar))
}

// HbarFromTinybar returns the given amount of tinybars.
func HbarFromTinybar(tinybars int64) Hbar {
	return Hbar(tinybars)
}

// HbarFromString parses either `<n> ħ`, `<n>`, or `<n> tℏ`.
func HbarFromString(s string) (Hbar, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "tℏ") {
		tinybars, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(s, "tℏ")), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hbar amount %q: %w", s, err)
		}
		return Hbar(tinybars), nil
	}

	hbars, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "ℏ")), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hbar amount %q: %w", s, err)
	}
	return NewHbar(hbars), nil
}

// Tinybars returns the amount in tinybars.
func (h Hbar) Tinybars() int64 {
	return int64(h)
}

// Negated returns the amount with its sign flipped.
func (h Hbar) Negated() Hbar {
	return -h
}

func (h Hbar) String() string {
	if h != 0 && abs(int64(h)) < 10000 {
		return fmt.Sprintf("%d tℏ", int64(h))
	}
	return strconv.FormatFloat(float64(h)/TinybarsPerHbar, 'f', -1, 64) + " ℏ"
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

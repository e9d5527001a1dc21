/*
Package coin defines the value moved between accounts: an unsigned amount
of a single asset type, identified by its ticker.
*/
package coin

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/reppay/custody/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,6}$`).MatchString

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,6})\s*$`)

// Coin is an amount of a single asset type. All amounts are expressed in
// the smallest unit of the asset, so there is no fractional part.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins.
// Returns error if they are of different
// currencies, or if the combination would cause
// an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrMintMismatch, "adding %s to %s", o.Ticker, c.Ticker)
	}
	if o.Amount > math.MaxUint64-c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "adding %d to %d", o.Amount, c.Amount)
	}
	c.Amount += o.Amount
	return c, nil
}

// Subtract given amount. Subtracting more than available is reported as
// insufficient funds.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrMintMismatch, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	if o.Amount > c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientFunds, "%d required, %d available", o.Amount, c.Amount)
	}
	c.Amount -= o.Amount
	return c, nil
}

// Compare will check values of two coins, without
// inspecting the currency code. It is up to the caller
// to determine if they want to check this.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate ensures that the coin has a valid currency code.
// Zero amount is valid, so you may want to make other
// checks in your business logic.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid currency: %q", c.Ticker)
	}
	return nil
}

// UnmarshalJSON accepts both the human readable "<amount> <ticker>" string
// and the structure representation.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarshaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Ticker string `json:"ticker"`
		Amount uint64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	*c = Coin{Ticker: coin.Ticker, Amount: coin.Amount}
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back with ParseHumanFormat.
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if c.Ticker != "" {
		s += " " + c.Ticker
	}
	return s
}

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//
//	"<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid coin format %q", strings.TrimSpace(h))
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %s", m[1])
	}
	return NewCoin(amount, m[2]), nil
}

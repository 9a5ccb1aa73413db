package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/covault/covault/errors"
)

// IsCC checks that a string is a valid currency code
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the largest whole value we accept
	MaxInt int64 = 999999999999999 // 10^15-1
	// MinInt is the lowest whole value we accept
	MinInt = -MaxInt

	// FracUnit is the number of fractional units per whole unit
	FracUnit int64 = 1000000000 // 10^9
	// MaxFrac is the highest possible fractional value
	MaxFrac = FracUnit - 1
	// MinFrac is the lowest possible fractional value
	MinFrac = -MaxFrac
)

// fracDigits is the decimal width of the fractional part
const fracDigits = 9

// NewCoin creates a coin value
func NewCoin(whole int64, fractional int64, ticker string) Coin {
	return Coin{
		Ticker:     ticker,
		Whole:      whole,
		Fractional: fractional,
	}
}

// NewCoinp returns a pointer to a new coin
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// Add combines two amounts of the same currency. Adding a zero value
// without a ticker is always allowed. The result is normalized, an
// error is returned if it leaves the valid range.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case !c.SameType(o):
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum := Coin{
		Ticker:     c.Ticker,
		Whole:      c.Whole + o.Whole,
		Fractional: c.Fractional + o.Fractional,
	}
	return sum.normalize()
}

// Negative returns the coin with the opposite sign, so that
//   c.Add(c.Negative()).IsZero() == true
func (c Coin) Negative() Coin {
	return NewCoin(-c.Whole, -c.Fractional, c.Ticker)
}

// Subtract the given amount
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker &&
		c.Whole == o.Whole &&
		c.Fractional == o.Fractional
}

// IsEmpty returns true on a nil pointer or a zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true for a zero amount
func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

// IsPositive returns true if the amount is greater than zero
func (c Coin) IsPositive() bool {
	if c.Whole != 0 {
		return c.Whole > 0
	}
	return c.Fractional > 0
}

// IsGTE returns true if c is the same currency and at least as large
// as o. Both coins must be normalized.
func (c Coin) IsGTE(o Coin) bool {
	if !c.SameType(o) {
		return false
	}
	if c.Whole != o.Whole {
		return c.Whole > o.Whole
	}
	return c.Fractional >= o.Fractional
}

// SameType returns true if both coins use the same currency
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

// Validate ensures the coin is within the valid range and carries a
// valid currency code. Negative values pass, reject them in business
// logic where they make no sense.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.ErrOverflow)
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	if c.Whole != 0 && c.Fractional != 0 &&
		(c.Whole > 0) != (c.Fractional > 0) {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// normalize carries overflowing fractional units into the whole part
// and aligns the signs of both parts. Returns an error if the whole
// part leaves the valid range.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit

	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}

	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.ErrOverflow
	}
	return c, nil
}

// UnmarshalJSON accepts either the human readable
// "<whole>[.<fractional>] <ticker>" string or the field dict used in
// genesis files.
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

	// A plain struct without methods, using Coin directly would
	// recurse into this unmarshaler.
	var dict struct {
		Whole      int64
		Fractional int64
		Ticker     string
	}
	if err := json.Unmarshal(raw, &dict); err != nil {
		return err
	}
	c.Whole = dict.Whole
	c.Fractional = dict.Fractional
	c.Ticker = dict.Ticker
	return nil
}

// String renders the coin in the human readable format. Meant for
// logs and tests. A coin without a ticker renders readable but cannot
// be parsed back.
func (c Coin) String() string {
	if n, err := c.normalize(); err == nil {
		c = n
	}

	out := strconv.FormatInt(c.Whole, 10)
	if c.Fractional != 0 {
		f := c.Fractional
		if f < 0 {
			f = -f
		}
		frac := strings.TrimRight(fmt.Sprintf("%09d", f), "0")
		out += "." + frac
	}
	if c.Ticker != "" {
		out += " " + c.Ticker
	}
	return out
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat parses the "<whole>[.<fractional>] <ticker>" coin
// representation. The fractional part carries at most nine digits.
func ParseHumanFormat(h string) (Coin, error) {
	match := humanCoinFormatRx.FindStringSubmatch(h)
	if match == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", h)
	}
	sign, wholeRaw, fracRaw, ticker := match[1], match[2], match[3], match[4]

	whole, err := strconv.ParseInt(wholeRaw, 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "whole value: %s", err)
	}

	var fract int64
	if fracRaw != "" {
		// right-pad to the full width, so ".5" means half a unit
		padded := fracRaw + strings.Repeat("0", fracDigits-len(fracRaw))
		if fract, err = strconv.ParseInt(padded, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInput, "fractional value: %s", err)
		}
	}

	if sign == "-" {
		whole = -whole
		fract = -fract
	}
	return NewCoin(whole, fract, ticker), nil
}

package coin

import (
	"strings"

	"github.com/covault/covault/errors"
)

// Coins is a set of coins, at most one per currency, sorted by ticker
// and free of zero values. All operations expect this normalized form
// and preserve it.
type Coins []*Coin

// Clone returns a copy that can be safely modified
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns the set with the holdings increased by c. Adding a
// negative amount is how holdings decrease. A currency whose amount
// reaches zero drops out of the set.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}

	has, i := cs.findCoin(c.Ticker)
	if has != nil {
		sum, err := has.Add(c)
		if err != nil {
			return nil, err
		}
		if sum.IsZero() {
			return append(cs[:i], cs[i+1:]...), nil
		}
		cs[i] = &sum
		return cs, nil
	}
	if i == len(cs) {
		return append(cs, &c), nil
	}
	// keep the ticker order, insert in the middle
	res := append(cs, nil)
	copy(res[i+1:], res[i:])
	res[i] = &c
	return res, nil
}

// Combine returns a new set holding the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	var err error
	for _, c := range o {
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains returns true if the set holds at least this much of the
// coin's currency.
func (cs Coins) Contains(c Coin) bool {
	has, _ := cs.findCoin(c.Ticker)
	return has != nil && has.IsGTE(c)
}

// findCoin looks up a currency in the sorted set. On a match the coin
// and its index are returned. Otherwise the coin is nil and the index
// is the insertion point for that ticker.
func (cs Coins) findCoin(ticker string) (*Coin, int) {
	for i, c := range cs {
		switch strings.Compare(ticker, c.Ticker) {
		case -1:
			return nil, i
		case 0:
			return c, i
		}
	}
	return nil, len(cs)
}

// IsEmpty returns true when the set holds nothing
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive returns true when the set holds at least one coin and no
// negative amounts
func (cs Coins) IsPositive() bool {
	return !cs.IsEmpty() && cs.IsNonNegative()
}

// IsNonNegative returns true when no amount in the set is negative.
// An empty set passes.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return true
}

// Equals returns true if both sets hold the same coins
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of currencies in the set
func (cs Coins) Count() int {
	return len(cs)
}

// Validate requires the normalized form: each coin valid on its own,
// no zero amounts, tickers strictly ascending.
func (cs Coins) Validate() error {
	var err error
	last := ""
	for _, c := range cs {
		err = errors.Append(err, errors.Wrap(c.Validate(), "coin"))
		if c.IsZero() {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "zero coins"))
		}
		if c.Ticker <= last && last != "" {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "not sorted"))
		}
		last = c.Ticker
	}
	return err
}

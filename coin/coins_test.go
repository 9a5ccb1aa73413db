package coin

import (
	"testing"

	"github.com/covault/covault/covtest/assert"
)

// grow builds a set by adding one coin after another, failing the test
// on any error.
func grow(t testing.TB, cs ...Coin) Coins {
	t.Helper()
	var set Coins
	var err error
	for _, c := range cs {
		set, err = set.Add(c)
		assert.Nil(t, err)
	}
	return set
}

func TestCoinsAdd(t *testing.T) {
	// deposits of the same currency accumulate in one entry
	set := grow(t, NewCoin(20000, 0, "CCD"), NewCoin(9000, 0, "CCD"))
	assert.Equal(t, 1, set.Count())
	assert.Equal(t, Coins{NewCoinp(29000, 0, "CCD")}, set)

	// a second currency keeps the set sorted by ticker
	set = grow(t, NewCoin(1, 0, "CCD"), NewCoin(2, 0, "ABC"))
	assert.Equal(t, Coins{NewCoinp(2, 0, "ABC"), NewCoinp(1, 0, "CCD")}, set)
	assert.Nil(t, set.Validate())

	// draining a currency removes it from the set
	set = grow(t, NewCoin(5, 0, "CCD"), NewCoin(5, 0, "CCD").Negative())
	assert.Equal(t, 0, set.Count())
	assert.Equal(t, true, set.IsEmpty())

	// zero values do not change the set
	set = grow(t, NewCoin(7, 0, "CCD"), Coin{})
	assert.Equal(t, Coins{NewCoinp(7, 0, "CCD")}, set)
}

func TestCoinsContains(t *testing.T) {
	pool := grow(t, NewCoin(20000, 0, "CCD"))

	cases := map[string]struct {
		ask  Coin
		want bool
	}{
		"partial withdrawal": {
			ask:  NewCoin(9000, 0, "CCD"),
			want: true,
		},
		"full balance": {
			ask:  NewCoin(20000, 0, "CCD"),
			want: true,
		},
		"more than available": {
			ask:  NewCoin(20000, 1, "CCD"),
			want: false,
		},
		"unknown currency": {
			ask:  NewCoin(1, 0, "EUR"),
			want: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, pool.Contains(tc.ask))
		})
	}

	var empty Coins
	assert.Equal(t, false, empty.Contains(NewCoin(1, 0, "CCD")))
}

func TestCoinsCombine(t *testing.T) {
	a := grow(t, NewCoin(11000, 0, "CCD"))
	b := grow(t, NewCoin(9000, 0, "CCD"), NewCoin(3, 0, "ABC"))

	sum, err := a.Combine(b)
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(3, 0, "ABC"), NewCoinp(20000, 0, "CCD")}, sum)

	// inputs stay untouched
	assert.Equal(t, Coins{NewCoinp(11000, 0, "CCD")}, a)
	assert.Equal(t, 2, b.Count())
}

func TestCoinsSigns(t *testing.T) {
	var empty Coins
	assert.Equal(t, true, empty.IsNonNegative())
	assert.Equal(t, false, empty.IsPositive())

	funded := grow(t, NewCoin(100, 0, "CCD"))
	assert.Equal(t, true, funded.IsPositive())

	overdrawn := grow(t, NewCoin(100, 0, "CCD"), NewCoin(200, 0, "CCD").Negative())
	assert.Equal(t, false, overdrawn.IsNonNegative())
	assert.Equal(t, false, overdrawn.IsPositive())
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		set     Coins
		wantErr bool
	}{
		"empty": {
			set: nil,
		},
		"single funded wallet": {
			set: Coins{NewCoinp(50000, 0, "CCD")},
		},
		"sorted currencies": {
			set: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(2, 0, "CCD")},
		},
		"zero entry": {
			set:     Coins{NewCoinp(0, 0, "CCD")},
			wantErr: true,
		},
		"out of order": {
			set:     Coins{NewCoinp(2, 0, "CCD"), NewCoinp(1, 0, "ABC")},
			wantErr: true,
		},
		"duplicate ticker": {
			set:     Coins{NewCoinp(1, 0, "CCD"), NewCoinp(2, 0, "CCD")},
			wantErr: true,
		},
		"invalid coin inside": {
			set:     Coins{NewCoinp(1, 0, "bad")},
			wantErr: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected a validation error")
				}
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestCoinsEquals(t *testing.T) {
	a := grow(t, NewCoin(1, 0, "CCD"))
	b := grow(t, NewCoin(1, 0, "CCD"))
	c := grow(t, NewCoin(2, 0, "CCD"))

	assert.Equal(t, true, a.Equals(b))
	assert.Equal(t, false, a.Equals(c))
	assert.Equal(t, false, a.Equals(nil))
	assert.Equal(t, true, Coins(nil).Equals(nil))

	// Clone is a deep copy
	cp := a.Clone()
	assert.Equal(t, true, a.Equals(cp))
	cp[0].Whole = 99
	assert.Equal(t, false, a.Equals(cp))
}

package x

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault/coin"
)

func TestPersistent(t *testing.T) {
	good := coin.NewCoinp(52, 12345, "FOO")
	bad := coin.NewCoinp(52, -12345, "of")
	should, err := good.Marshal()
	require.NoError(t, err)

	// marshal
	bz := MustMarshal(good)
	assert.Equal(t, should, bz)
	garbage := MustMarshal(bad)
	assert.NotEqual(t, should, garbage)
	copy(garbage, []byte{17, 34, 56})

	// unmarshal
	got := new(coin.Coin)
	MustUnmarshal(got, bz)
	assert.Equal(t, good, got)

	// validate
	assert.Panics(t, func() { MustValidate(bad) })
	assert.NotPanics(t, func() { MustValidate(good) })
	assert.Panics(t, func() { MustMarshalValid(bad) })
	rebz := MustMarshalValid(good)
	assert.Equal(t, should, rebz)
}

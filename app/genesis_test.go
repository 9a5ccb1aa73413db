package app

import (
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

type countInit struct {
	called int
	err    error
}

func (c *countInit) FromGenesis(opts covault.Options, kv covault.KVStore) error {
	c.called++
	return c.err
}

func TestChainInitializers(t *testing.T) {
	first := &countInit{}
	second := &countInit{}

	init := ChainInitializers(first, second)
	assert.Nil(t, init.FromGenesis(covault.Options{}, store.MemStore()))
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 1, second.called)
}

func TestChainInitializersAbortOnError(t *testing.T) {
	broken := &countInit{err: errors.ErrHuman}
	last := &countInit{}

	init := ChainInitializers(&countInit{}, broken, last)
	err := init.FromGenesis(covault.Options{}, store.MemStore())
	assert.IsErr(t, errors.ErrHuman, err)

	// initialization stops at the first failure
	assert.Equal(t, 1, broken.called)
	assert.Equal(t, 0, last.called)
}

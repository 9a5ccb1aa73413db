package app

import (
	"github.com/covault/covault"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...covault.Initializer) covault.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []covault.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts covault.Options, kv covault.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

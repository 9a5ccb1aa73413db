package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

const optKey = "vault"

// Initializer fulfils the Initializer interface to load the owner
// registry from the genesis file
type Initializer struct{}

var _ covault.Initializer = Initializer{}

// FromGenesis reads the owner addresses from the "vault" genesis
// option and stores the registry. It fails, producing no state, unless
// exactly AgreementThreshold distinct owners are given.
func (Initializer) FromGenesis(opts covault.Options, kv covault.KVStore) error {
	var gen struct {
		Owners []covault.Address `json:"owners"`
	}
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	bucket := NewRegistryBucket()
	if existing, err := bucket.GetRegistry(kv); err != nil {
		return err
	} else if existing != nil {
		return errors.Wrap(errors.ErrImmutable, "owner registry")
	}

	registry := &OwnerRegistry{Owners: gen.Owners}
	return bucket.SaveRegistry(kv, registry)
}

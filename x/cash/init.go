package cash

import (
	"github.com/covault/covault"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use covault.Address, so address in hex, not base64
type GenesisAccount struct {
	Address covault.Address `json:"address"`
	Set
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ covault.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts covault.Options, kv covault.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return err
		}
		wallet, err := WalletWith(acct.Address, acct.Set.Coins...)
		if err != nil {
			return err
		}
		if err := bucket.Save(kv, wallet); err != nil {
			return err
		}
	}
	return nil
}

package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

// ValidateGenesis runs the initializer against each genesis file,
// on a throwaway store, to surface configuration mistakes before
// the chain is launched.
func ValidateGenesis(ini covault.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini covault.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var genesis struct {
		State covault.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(err, "cannot JSON deserialize genesis")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}

	return nil
}

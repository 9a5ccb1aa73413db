package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	tmtypes "github.com/tendermint/tendermint/types"
)

// GenOptions turns the init command arguments into the app_state
// section of the genesis file. Application specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd creates the genesis file when missing and fills in the
// application state produced by gen
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := filepath.Join(home, "config", "genesis.json")
	if err := initGenesisFile(logger, genFile); err != nil {
		return err
	}

	// without a generator the plain tendermint genesis stands
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	return setAppState(genFile, options)
}

// initGenesisFile writes a fresh genesis file with a random chain id
// unless one exists. Validators are left for tendermint init.
func initGenesisFile(logger log.Logger, genFile string) error {
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
		return err
	}
	genDoc := tmtypes.GenesisDoc{
		ChainID: fmt.Sprintf("test-chain-%v", cmn.RandStr(6)),
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc is the genesis file as loose json. Parsing the full
// tendermint structure just to add one key is not worth it.
type GenesisDoc map[string]json.RawMessage

func setAppState(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return err
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}

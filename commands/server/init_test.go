package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/covault/covault/covtest/assert"
)

func TestInitCmd(t *testing.T) {
	home, err := ioutil.TempDir("", "covault-server")
	assert.Nil(t, err)
	defer os.RemoveAll(home)

	logger := log.NewNopLogger()
	gen := func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"greeter": "hello"}`), nil
	}
	assert.Nil(t, InitCmd(gen, logger, home, nil))

	genFile := filepath.Join(home, "config", "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	assert.Nil(t, err)

	var doc GenesisDoc
	assert.Nil(t, json.Unmarshal(bz, &doc))

	// a chain id was generated and our app state was set
	var chainID string
	assert.Nil(t, json.Unmarshal(doc["chain_id"], &chainID))
	if chainID == "" {
		t.Fatal("empty chain_id in generated genesis")
	}
	var state map[string]string
	assert.Nil(t, json.Unmarshal(doc["app_state"], &state))
	assert.Equal(t, "hello", state["greeter"])
}

func TestInitCmdKeepsGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "covault-server")
	assert.Nil(t, err)
	defer os.RemoveAll(home)

	logger := log.NewNopLogger()
	gen := func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"round": "one"}`), nil
	}
	assert.Nil(t, InitCmd(gen, logger, home, nil))

	genFile := filepath.Join(home, "config", "genesis.json")
	var first GenesisDoc
	bz, err := ioutil.ReadFile(genFile)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal(bz, &first))

	// a second init must keep the chain id, only replacing app state
	gen = func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"round": "two"}`), nil
	}
	assert.Nil(t, InitCmd(gen, logger, home, nil))

	var second GenesisDoc
	bz, err = ioutil.ReadFile(genFile)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal(bz, &second))

	assert.Equal(t, string(first["chain_id"]), string(second["chain_id"]))
	var state map[string]string
	assert.Nil(t, json.Unmarshal(second["app_state"], &state))
	assert.Equal(t, "two", state["round"])
}

func TestSetAppState(t *testing.T) {
	home, err := ioutil.TempDir("", "covault-server")
	assert.Nil(t, err)
	defer os.RemoveAll(home)

	genFile := filepath.Join(home, "genesis.json")
	orig := `{"chain_id": "demo-4", "validators": []}`
	assert.Nil(t, ioutil.WriteFile(genFile, []byte(orig), 0600))

	opts := json.RawMessage(`{"cash": []}`)
	assert.Nil(t, setAppState(genFile, opts))

	bz, err := ioutil.ReadFile(genFile)
	assert.Nil(t, err)
	var doc GenesisDoc
	assert.Nil(t, json.Unmarshal(bz, &doc))
	assert.Equal(t, `"demo-4"`, string(doc["chain_id"]))
	if _, ok := doc["app_state"]; !ok {
		t.Fatal("missing app_state")
	}
}

package server

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"

	"github.com/tendermint/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	iavlstore "github.com/covault/covault/store/iavl"
)

const (
	flagUntilError = "error"
	flagMaxTries   = "max"
)

// InlineAppGenerator builds the abci application on a given store,
// implemented by the app/init.go of the binary wiring this command in
type InlineAppGenerator func(covault.CommitKVStore, log.Logger, bool) abci.Application

type replayConfig struct {
	dbPath     string
	blockPath  string
	debug      bool
	untilError bool
	maxTries   int
}

func parseReplayConfig(args []string) (replayConfig, error) {
	var cfg replayConfig
	if len(args) < 2 {
		return cfg, errors.Wrap(errors.ErrInput,
			"usage: cmd retry <path to abci.db> <path to block.json> [-debug] [-error] [-max=N]")
	}
	cfg.dbPath = args[0]
	cfg.blockPath = args[1]

	fs := flag.NewFlagSet("retry", flag.ExitOnError)
	fs.BoolVar(&cfg.debug, flagDebug, false, "print out debug info")
	fs.BoolVar(&cfg.untilError, flagUntilError, false, "replay repeatedly until the app hash diverges")
	fs.IntVar(&cfg.maxTries, flagMaxTries, 10, "maximum number of replays if -error is passed")
	err := fs.Parse(args[2:])
	return cfg, err
}

// RetryCmd loads the application state and one block dumped by
// getblock, checks that they line up, then rolls the state back one
// version and runs the block again, printing the recomputed app hash.
//
// With -error it keeps replaying until a run produces a different
// hash, which corners non-deterministic transaction processing.
func RetryCmd(makeApp InlineAppGenerator, logger log.Logger, home string, args []string) error {
	cfg, err := parseReplayConfig(args)
	if err != nil {
		return err
	}

	fmt.Println("--> Loading Block")
	block, err := loadBlock(cfg.blockPath)
	if err != nil {
		return err
	}

	fmt.Println("--> Loading Database")
	tree, ver, err := readTree(cfg.dbPath, 0)
	if err != nil {
		return errors.Wrap(err, "reading abci data")
	}
	if ver != block.Header.Height {
		return errors.Wrapf(errors.ErrState,
			"height mismatch: block=%d, abcistore=%d", block.Header.Height, ver)
	}

	build := func(kv covault.CommitKVStore) abci.Application {
		return makeApp(kv, logger, cfg.debug)
	}

	fmt.Printf("Original Height: %d\n", block.Header.Height)
	fmt.Printf("Original Hash: %X\n", tree.Hash())

	for tries := cfg.maxTries; ; tries-- {
		same, err := replayBlock(build, tree, block)
		if err != nil {
			return err
		}
		if !same || !cfg.untilError || tries <= 1 {
			return nil
		}
	}
}

// loadBlock parses a block dumped in tendermint's amino json form
func loadBlock(path string) (*types.Block, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var block *types.Block
	if err := cdc.UnmarshalJSON(raw, &block); err != nil {
		return nil, errors.Wrap(err, "parse block")
	}
	return block, nil
}

// readTree opens the iavl tree behind the abci store at the given
// version, 0 meaning latest
func readTree(dir string, version int) (*iavl.MutableTree, int64, error) {
	db, err := openDb(dir)
	if err != nil {
		return nil, 0, err
	}
	tree := iavl.NewMutableTree(db, 10000)
	ver, err := tree.LoadVersion(int64(version))
	if ver == 0 {
		return nil, 0, errors.Wrap(errors.ErrState, "iavl tree is empty")
	}
	return tree, ver, err
}

// replayBlock rolls the tree back one version, feeds the block
// through a fresh application and reports whether the recomputed app
// hash matches the one stored before the rollback
func replayBlock(build func(covault.CommitKVStore) abci.Application, tree *iavl.MutableTree, block *types.Block) (bool, error) {
	origHash := tree.Hash()
	backHeight := block.Header.Height - 1

	fmt.Printf("Rollback to height: %d\n", backHeight)
	if _, err := tree.LoadVersionForOverwriting(backHeight); err != nil {
		return false, err
	}

	app := build(iavlstore.NewCommitStoreFromTree(tree))

	fmt.Println("---> Begin Block")
	app.BeginBlock(abci.RequestBeginBlock{
		Hash:   block.Header.Hash(),
		Header: toAbciHeader(block.Header),
	})
	for i, tx := range block.Txs {
		fmt.Printf("---> Deliver Tx %d\n", i)
		app.DeliverTx(tx)
	}
	fmt.Println("---> End Block")
	app.EndBlock(abci.RequestEndBlock{Height: block.Header.Height})

	hash := app.Commit().Data
	fmt.Printf("Recomputed Hash: %X\n", hash)
	return bytes.Equal(origHash, hash), nil
}

// toAbciHeader converts the tendermint block header into its abci
// counterpart for BeginBlock
func toAbciHeader(h types.Header) abci.Header {
	lb := h.LastBlockID
	return abci.Header{
		Version: abci.Version{
			Block: uint64(h.Version.Block),
			App:   uint64(h.Version.App),
		},
		ChainID:  h.ChainID,
		Height:   h.Height,
		Time:     h.Time,
		NumTxs:   h.NumTxs,
		TotalTxs: h.TotalTxs,
		LastBlockId: abci.BlockID{
			Hash: lb.Hash,
			PartsHeader: abci.PartSetHeader{
				Total: int32(lb.PartsHeader.Total),
				Hash:  lb.PartsHeader.Hash,
			},
		},
		LastCommitHash:     h.LastCommitHash,
		DataHash:           h.DataHash,
		ValidatorsHash:     h.ValidatorsHash,
		NextValidatorsHash: h.NextValidatorsHash,
		ConsensusHash:      h.ConsensusHash,
		AppHash:            h.AppHash,
		LastResultsHash:    h.LastResultsHash,
		EvidenceHash:       h.EvidenceHash,
		ProposerAddress:    h.ProposerAddress,
	}
}

package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state and query side of an abci
// application: the committed store, the chain id, and the contexts
// the handlers run under. BaseApp embeds it and adds transaction
// processing.
//
// The abci steps that take no user input (Info, InitChain, Commit)
// panic on error. Tendermint offers no way to report such failures,
// and running on with a half-applied state is worse than halting.
type StoreApp struct {
	logger log.Logger

	// name is reported by abci.Info
	name string

	// store tracks the committed, check and deliver states
	store *CommitStore

	// initializer seeds the state from the genesis app options
	initializer covault.Initializer

	// queryRouter resolves abci query paths
	queryRouter covault.QueryRouter

	// chainID is read from the db, written once during InitChain
	chainID string

	// baseContext holds values valid for the lifetime of the app,
	// blockContext adds those of the current block and is reset on
	// every BeginBlock
	baseContext  covault.Context
	blockContext covault.Context
}

// NewStoreApp loads the application state from the given store.
// It panics when the store cannot be read.
func NewStoreApp(name string, store covault.CommitKVStore,
	queryRouter covault.QueryRouter, baseContext covault.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	// a chain that ran before remembers its id
	s.chainID = mustLoadChainID(s.DeliverStore())
	if s.chainID != "" {
		s.baseContext = covault.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = covault.WithHeight(s.baseContext, info.Version)
	return s
}

// GetChainID returns the chain id this state belongs to
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer
func (s *StoreApp) WithInit(init covault.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger on the app and its base context,
// chainable during initialization
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = covault.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the block in progress
func (s *StoreApp) BlockContext() covault.Context {
	return s.blockContext
}

// DeliverStore returns the cache that DeliverTx writes into
func (s *StoreApp) DeliverStore() covault.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the cache that CheckTx runs against
func (s *StoreApp) CheckStore() covault.CacheableKVStore {
	return s.store.CheckStore()
}

// parseAppState runs once from InitChain when the chain first starts.
// It refuses to run again on a state that was already initialized.
func (s *StoreApp) parseAppState(data []byte, chainID string, init covault.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "state already initialized for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, initialize the application before launching the blockchain")
	}

	var opts covault.Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return errors.Wrap(err, "parse app_state")
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = covault.WithChainID(s.baseContext, chainID)

	return init.FromGenesis(opts, s.DeliverStore())
}

//----------------------- ABCI ---------------------

// Info implements abci.Application, reporting the committed height
// and app hash so tendermint knows where to resume
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}

	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption - ABCI
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query reads from the committed application state. The path selects
// a registered handler ("/", "/owners", "/requests", "/wallets",
// "/auth"), optionally followed by "?prefix" for a prefix scan, and
// the data is the key to look up.
//
// Key and Value of the response are serialized ResultSets of equal
// length, so one interface carries 0 to N results.
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(reqQuery.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", reqQuery.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}

	// queries never see writes of the block in progress
	models, err := qh.Query(s.store.CommittedStore(), mod, reqQuery.Data)
	if err != nil {
		return queryError(err)
	}

	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}

	return abci.ResponseQuery{
		Height: info.Version,
		Key:    keys,
		Value:  values,
	}
}

// splitPath cuts the query modifier (everything behind the ?) off
// the path
func splitPath(path string) (string, string) {
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		return chunks[0], chunks[1]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Log:  log,
		Code: code,
	}
}

// Commit implements abci.Application, flushing the delivered state
// to disk and returning the new app hash
func (s *StoreApp) Commit() abci.ResponseCommit {
	commitID, err := s.store.Commit()
	if err != nil {
		// read the comment on type StoreApp
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)

	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain implements abci.Application, seeding the state from the
// genesis app_state bytes
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		// read the comment on type StoreApp
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements abci.Application, binding the new block
// height into the handler context
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.blockContext = covault.WithHeight(s.baseContext, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI
// The owner set is fixed at genesis, so there are never validator
// updates to report here.
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

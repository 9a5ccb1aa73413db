package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp layers transaction handling on top of StoreApp. It decodes
// incoming bytes with the tx decoder and routes the result through
// one handler stack for both check and deliver.
type BaseApp struct {
	*StoreApp
	decoder covault.TxDecoder
	handler covault.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp wires a store, a decoder, and a handler into a complete
// abci application
func NewBaseApp(
	store *StoreApp,
	decoder covault.TxDecoder,
	handler covault.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx decodes the transaction and executes it against the
// deliver state
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return covault.DeliverTxError(err, b.debug)
	}

	ctx := covault.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", covault.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return covault.DeliverOrError(res, err, b.debug)
}

// CheckTx decodes the transaction and runs it against the mempool
// state
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return covault.CheckTxError(err, b.debug)
	}

	ctx := covault.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", covault.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return covault.CheckOrError(res, err, b.debug)
}

// loadTx runs the decoder, turning any panic on malformed input into
// an error
func (b BaseApp) loadTx(txBytes []byte) (tx covault.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}

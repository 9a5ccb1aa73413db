package client

import (
	"fmt"

	"github.com/covault/covault"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID identifies a transaction by its hash
type TransactionID = cmn.HexBytes

// RequestQuery and ResponseQuery mirror the abci query types, so
// callers need no abci import
type RequestQuery = abci.RequestQuery

// ResponseQuery mirrors the abci response
type ResponseQuery = abci.ResponseQuery

// TxQuery selects transactions in tendermint's query language
type TxQuery = string

// CommitResult is the outcome of a transaction included in a block.
// Exactly one of Result and Err is set, depending on the code.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *covault.DeliverResult
	Err    error
}

// Status reports where the connected node stands
type Status struct {
	Height     int64
	CatchingUp bool
}

// Header is a tendermint block header
type Header = tmtypes.Header

// GenesisDoc is the full tendermint genesis file
type GenesisDoc = tmtypes.GenesisDoc

// resultOrError carries one commit outcome through a channel
type resultOrError struct {
	result *CommitResult
	err    error
}

// Option tunes a subscription
type Option interface {
	isOption()
}

// OptionCapacity sets the event channel buffer of a subscription
type OptionCapacity struct {
	Capacity int
}

func (OptionCapacity) isOption() {}

// QueryTxByID selects the transaction with the given hash
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryForHeader selects every new block header
func QueryForHeader() string {
	return queryForEvent(tmtypes.EventNewBlockHeader)
}

func queryForEvent(eventType string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, eventType)
}

package client

import (
	"context"
	"fmt"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// txPerPage is the page size used when walking paged search results
const txPerPage = 50

// Client provides access to a covault node over the tendermint rpc.
// This file holds the primitives: node status, abci queries, raw
// transaction submission and event subscriptions. The blocking flow
// helpers built on top of them live in wrapper.go, and the typed
// request helpers in cmd/covaultd/client.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps a Client around an existing tendermint connection
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewLocalClient talks to an in-process node, useful in tests
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(NewLocalConnection(node))
}

// Status reports the current height of the node and whether it is
// still catching up with its peers
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err.Error())
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the block header at the given height, or an error if
// the chain has not reached that height yet
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "header %d: %s", height, err.Error())
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "no header for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// SubmitTx pushes the signed transaction into the mempool and returns
// its id once the node accepted it. A CheckTx rejection is returned as
// the corresponding abci error. Acceptance into the mempool does not
// mean inclusion in a block, pair this with WatchTx or use CommitTx.
func (c *Client) SubmitTx(ctx context.Context, tx covault.Tx) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err.Error())
	}
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// Query runs an abci query against the application state. It mirrors
// the abci interface so it can back an app.ABCIStore; a network
// failure is folded into the response as the network error code.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: query.Height, Prove: query.Prove}
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// GetTxByID looks up one committed transaction by its id
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err.Error())
	}
	return toCommitResult(tx), nil
}

// SearchTx returns all committed transactions matching the query,
// walking every result page.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	var results []*CommitResult
	for page := 1; ; page++ {
		search, err := c.conn.TxSearch(query, false, page, txPerPage)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err.Error())
		}
		for _, tx := range search.Txs {
			results = append(results, toCommitResult(tx))
		}
		if len(results) >= search.TotalCount || len(search.Txs) == 0 {
			return results, nil
		}
	}
}

// SubscribeHeaders feeds every new block header into the channel until
// the context is cancelled, then closes it
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header, options ...Option) error {
	events, err := c.subscribe(ctx, QueryForHeader(), options...)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-events:
				if evt, ok := msg.Data.(tmtypes.EventDataNewBlockHeader); ok {
					results <- evt.Header
				}
			}
		}
	}()
	return nil
}

// SubscribeTx feeds the result of every committed transaction matching
// the query into the channel until the context is cancelled, then
// closes it. It returns an error only if the subscription itself
// could not be established.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult, options ...Option) error {
	full := fmt.Sprintf("%s='%s' AND %s", tmtypes.EventTypeKey, tmtypes.EventTx, query)
	events, err := c.subscribe(ctx, full, options...)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-events:
				if evt, ok := msg.Data.(tmtypes.EventDataTx); ok {
					results <- eventToCommitResult(evt.TxResult)
				}
			}
		}
	}()
	return nil
}

// subscribe registers with the node event bus under a fresh random
// subscriber id and unsubscribes once the context is done
func (c *Client) subscribe(ctx context.Context, query string, options ...Option) (<-chan ctypes.ResultEvent, error) {
	var outCapacity []int
	for _, option := range options {
		if o, ok := option.(OptionCapacity); ok {
			outCapacity = []int{o.Capacity}
		}
	}

	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query %q: %s", query, err.Error())
	}

	subscriber := cmn.RandStr(16)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String(), outCapacity...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe to %q: %s", query, err.Error())
	}

	go func(stop <-chan struct{}) {
		<-stop
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}(ctx.Done())

	return out, nil
}

func toCommitResult(tx *ctypes.ResultTx) *CommitResult {
	res, err := covault.ParseDeliverOrError(tx.TxResult)
	return &CommitResult{
		ID:     tx.Hash,
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

func eventToCommitResult(tx tmtypes.TxResult) CommitResult {
	res, err := covault.ParseDeliverOrError(tx.Result)
	return CommitResult{
		ID:     tx.Tx.Hash(),
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

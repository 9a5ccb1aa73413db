package client

import (
	"context"
	"time"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// SubscribeTxByID blocks until the transaction with this id is
// committed, then returns its result. Cancel the context to abort if
// the transaction may never arrive.
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}
	res, ok := <-txs
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "unsubscribed before result")
	}
	return &res, nil
}

// WatchTx blocks until this transaction makes it into a block. The
// subscription is opened before checking the tx index, so a
// transaction committed in between is never missed. Pass in a context
// with a deadline to bound the wait.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := make(chan resultOrError, 1)
	go func() {
		res, err := c.SubscribeTxByID(subctx, id)
		sub <- resultOrError{result: res, err: err}
	}()

	// already committed before we subscribed?
	if found, _ := c.GetTxByID(ctx, id); found != nil {
		return found, nil
	}

	got := <-sub
	return got.result, got.err
}

// CommitTx submits the transaction and blocks until it is included in
// a block, returning the delivery result
func (c *Client) CommitTx(ctx context.Context, tx covault.Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err == nil {
		c.waitForTxIndex()
	}
	return res, err
}

// WatchTxs waits on a list of transactions in parallel. Results keep
// the order of the input ids, nil ids produce nil results. The first
// watch error aborts the wait.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	type watched struct {
		idx int
		res *CommitResult
		err error
	}

	done := make(chan watched, len(ids))
	var pending int
	for i, id := range ids {
		if id == nil {
			continue
		}
		pending++
		go func(idx int, id TransactionID) {
			res, err := c.WatchTx(ctx, id)
			done <- watched{idx: idx, res: res, err: err}
		}(i, id)
	}

	results := make([]*CommitResult, len(ids))
	for ; pending > 0; pending-- {
		got := <-done
		if got.err != nil {
			return nil, got.err
		}
		results[got.idx] = got.res
	}
	return results, nil
}

// CommitTxs submits many transactions and waits until all of them are
// included in blocks. Submission happens in order, so sequence numbers
// of one signer stay valid; any mempool rejection aborts the batch.
func (c *Client) CommitTxs(ctx context.Context, txs []covault.Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, len(txs))
	for i, tx := range txs {
		var err error
		if ids[i], err = c.SubmitTx(ctx, tx); err != nil {
			return nil, err
		}
	}
	return c.WatchTxs(ctx, ids)
}

// WaitForNextBlock blocks until the next block header arrives
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.WaitForHeight(ctx, 0)
}

// WaitForHeight blocks until a header with at least the given height
// arrives. A height in the past still waits for the next block, so
// queries made afterwards see a fully indexed state.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(subctx, headers); err != nil {
		return nil, err
	}

	for h := range headers {
		if h.Height >= height {
			c.waitForTxIndex()
			return &h, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNetwork, "subscription closed before height %d", height)
}

// waitForTxIndex gives the node a moment to index the transactions of
// the block that was just announced, so searches on it succeed
func (c *Client) waitForTxIndex() {
	time.Sleep(100 * time.Millisecond)
}

package covtest

import "github.com/covault/covault"

// Handler is a mock implementing covault.Handler interface.
// It counts all calls and returns the configured results.
type Handler struct {
	checkCall   int
	CheckResult covault.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult covault.DeliverResult
	DeliverErr    error
}

var _ covault.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

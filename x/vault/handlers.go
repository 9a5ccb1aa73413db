package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/x"
	"github.com/covault/covault/x/cash"
)

const (
	submitRequestCost  int64 = 150
	supportRequestCost int64 = 100
	executeRequestCost int64 = 200
	viewRequestCost    int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The cash controller acts as the value transfer executor.
func RegisterRoutes(r covault.Registry, auth x.Authenticator, control cash.Controller) {
	registry := NewRegistryBucket()
	requests := NewRequestBucket()

	r.Handle(SubmitRequestMsg{}.Path(), SubmitHandler{auth: auth, registry: registry, requests: requests})
	r.Handle(SupportRequestMsg{}.Path(), SupportHandler{auth: auth, registry: registry, requests: requests})
	r.Handle(RetractSupportMsg{}.Path(), RetractHandler{auth: auth, registry: registry, requests: requests})
	r.Handle(ExecuteRequestMsg{}.Path(), ExecuteHandler{auth: auth, registry: registry, requests: requests, control: control})
	r.Handle(ViewRequestMsg{}.Path(), ViewHandler{auth: auth, registry: registry, requests: requests})
}

// RegisterQuery will register the owner registry as "/owners" and the
// pending requests as "/requests"
func RegisterQuery(qr covault.QueryRouter) {
	NewRegistryBucket().Register("owners", qr)
	NewRequestBucket().Register("requests", qr)
}

// authorize resolves the acting owner account from the call context.
// Every operation in this package starts here: the sender must match a
// registered owner (ErrNotOwner) and must be an account principal,
// that is a signature condition (ErrContractSender).
func authorize(ctx covault.Context, db covault.ReadOnlyKVStore, auth x.Authenticator, registry RegistryBucket) (covault.Address, error) {
	owners, err := registry.GetRegistry(db)
	if err != nil {
		return nil, err
	}
	if owners == nil {
		return nil, errors.Wrap(errors.ErrState, "owner registry not initialized")
	}

	var matched covault.Condition
	for _, c := range auth.GetConditions(ctx) {
		if owners.Contains(c.Address()) {
			matched = c
			break
		}
	}
	if matched == nil {
		return nil, errors.Wrap(ErrNotOwner, "sender")
	}

	ext, _, _, err := matched.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "sender condition")
	}
	if ext != crypto.ExtensionName {
		return nil, errors.Wrapf(ErrContractSender, "%s condition", ext)
	}
	return matched.Address(), nil
}

//---- SubmitHandler

// SubmitHandler creates a new transfer request with the sender as the
// first supporter
type SubmitHandler struct {
	auth     x.Authenticator
	registry RegistryBucket
	requests RequestBucket
}

var _ covault.Handler = SubmitHandler{}

// Check verifies authorization and message validity
func (h SubmitHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{GasAllocated: submitRequestCost}, nil
}

// Deliver allocates a fresh id and stores the new request. The id is
// returned as the result data.
func (h SubmitHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, sender, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	id, err := h.requests.NextID(db)
	if err != nil {
		return nil, errors.Wrap(err, "request id")
	}
	// ids are strictly increasing, a hit here means corrupted state
	if existing, err := h.requests.GetRequest(db, id); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.Wrapf(ErrRequestAlreadyExists, "id %X", id)
	}

	request := &TransferRequest{
		Amount:     msg.Amount,
		Target:     msg.Target,
		Supporters: []covault.Address{sender},
	}
	if err := h.requests.SaveRequest(db, id, request); err != nil {
		return nil, err
	}
	return &covault.DeliverResult{Data: id}, nil
}

func (h SubmitHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*SubmitRequestMsg, covault.Address, error) {
	sender, err := authorize(ctx, db, h.auth, h.registry)
	if err != nil {
		return nil, nil, err
	}
	var msg SubmitRequestMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	return &msg, sender, nil
}

//---- SupportHandler

// SupportHandler adds the sender to the supporters of a request
type SupportHandler struct {
	auth     x.Authenticator
	registry RegistryBucket
	requests RequestBucket
}

var _ covault.Handler = SupportHandler{}

// Check verifies authorization and message validity
func (h SupportHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{GasAllocated: supportRequestCost}, nil
}

// Deliver records the sender's support, mutating the stored request
// in place
func (h SupportHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, sender, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	request, err := h.requests.GetRequest(db, msg.RequestId)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, errors.Wrapf(ErrRequestNotFound, "id %X", msg.RequestId)
	}
	if request.SupportedBy(sender) {
		return nil, errors.Wrapf(ErrRequestAlreadySupported, "%s", sender)
	}
	request.AddSupporter(sender)
	if err := h.requests.SaveRequest(db, msg.RequestId, request); err != nil {
		return nil, err
	}
	return &covault.DeliverResult{}, nil
}

func (h SupportHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*SupportRequestMsg, covault.Address, error) {
	sender, err := authorize(ctx, db, h.auth, h.registry)
	if err != nil {
		return nil, nil, err
	}
	var msg SupportRequestMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	return &msg, sender, nil
}

//---- RetractHandler

// RetractHandler removes the sender from the supporters of a request
type RetractHandler struct {
	auth     x.Authenticator
	registry RegistryBucket
	requests RequestBucket
}

var _ covault.Handler = RetractHandler{}

// Check verifies authorization and message validity
func (h RetractHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{GasAllocated: supportRequestCost}, nil
}

// Deliver removes the sender's support, mutating the stored request
// in place
func (h RetractHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, sender, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	request, err := h.requests.GetRequest(db, msg.RequestId)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, errors.Wrapf(ErrRequestNotFound, "id %X", msg.RequestId)
	}
	if !request.SupportedBy(sender) {
		return nil, errors.Wrapf(ErrRequestAlreadyNotSupported, "%s", sender)
	}
	request.RemoveSupporter(sender)
	if err := h.requests.SaveRequest(db, msg.RequestId, request); err != nil {
		return nil, err
	}
	return &covault.DeliverResult{}, nil
}

func (h RetractHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*RetractSupportMsg, covault.Address, error) {
	sender, err := authorize(ctx, db, h.auth, h.registry)
	if err != nil {
		return nil, nil, err
	}
	var msg RetractSupportMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	return &msg, sender, nil
}

//---- ExecuteHandler

// ExecuteHandler releases the funds of a fully supported request. The
// request is deleted and the transfer executor invoked exactly once.
// An executor failure aborts the whole transaction, so the request
// record survives a failed transfer.
type ExecuteHandler struct {
	auth     x.Authenticator
	registry RegistryBucket
	requests RequestBucket
	control  cash.Controller
}

var _ covault.Handler = ExecuteHandler{}

// Check verifies authorization and message validity
func (h ExecuteHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{GasAllocated: executeRequestCost}, nil
}

// Deliver performs the unanimity check, removes the request and moves
// the funds out of the pool
func (h ExecuteHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	request, err := h.requests.GetRequest(db, msg.RequestId)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, errors.Wrapf(ErrRequestNotFound, "id %X", msg.RequestId)
	}
	if len(request.Supporters) != AgreementThreshold {
		return nil, errors.Wrapf(ErrRequestNotSupportedByAllOwners, "%d of %d", len(request.Supporters), AgreementThreshold)
	}

	pool, err := h.control.Balance(db, PoolAddress)
	if err != nil || !pool.Contains(*request.Amount) {
		return nil, errors.Wrapf(ErrInsufficientAvailableFunds, "%s", request.Amount)
	}

	// remove before invoking the executor, so re-entry on the same id
	// is impossible
	if err := h.requests.Delete(db, msg.RequestId); err != nil {
		return nil, err
	}
	if err := invokeTransfer(db, h.control, request.Target, request); err != nil {
		return nil, err
	}
	return &covault.DeliverResult{Data: msg.RequestId}, nil
}

func (h ExecuteHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*ExecuteRequestMsg, error) {
	if _, err := authorize(ctx, db, h.auth, h.registry); err != nil {
		return nil, err
	}
	var msg ExecuteRequestMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

// invokeTransfer calls the external transfer executor and maps its
// failures into this package's error taxonomy
func invokeTransfer(db covault.KVStore, control cash.Controller, target covault.Address, request *TransferRequest) error {
	if err := target.Validate(); err != nil {
		return errors.Wrapf(ErrInvokeTransferMissingAccount, "%X", []byte(target))
	}
	err := control.MoveCoins(db, PoolAddress, target, *request.Amount)
	switch {
	case err == nil:
		return nil
	case cash.ErrInsufficientFunds.Is(err), cash.ErrEmptyAccount.Is(err):
		return errors.Wrapf(ErrInvokeTransferInsufficientFunds, "%s", request.Amount)
	default:
		return err
	}
}

//---- ViewHandler

// ViewHandler returns the stored record of a request. It is gated on
// the same full-support condition as execution, a partially supported
// request cannot be inspected through this path.
type ViewHandler struct {
	auth     x.Authenticator
	registry RegistryBucket
	requests RequestBucket
}

var _ covault.Handler = ViewHandler{}

// Check verifies authorization and message validity
func (h ViewHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{GasAllocated: viewRequestCost}, nil
}

// Deliver loads the request and returns its serialized form as the
// result data. No state is modified.
func (h ViewHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	request, err := h.requests.GetRequest(db, msg.RequestId)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, errors.Wrapf(ErrRequestNotFound, "id %X", msg.RequestId)
	}
	if len(request.Supporters) != AgreementThreshold {
		return nil, errors.Wrapf(ErrRequestNotSupportedByAllOwners, "%d of %d", len(request.Supporters), AgreementThreshold)
	}

	bz, err := request.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}
	return &covault.DeliverResult{Data: bz}, nil
}

func (h ViewHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*ViewRequestMsg, error) {
	if _, err := authorize(ctx, db, h.auth, h.registry); err != nil {
		return nil, err
	}
	var msg ViewRequestMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

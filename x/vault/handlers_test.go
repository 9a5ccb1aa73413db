package vault

import (
	"context"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
	"github.com/covault/covault/x/cash"
)

// testEnv wires the vault handlers against an in memory store with an
// initialized owner registry and a funded pool.
type testEnv struct {
	db      covault.CacheableKVStore
	auth    *covtest.CtxAuth
	owners  []covault.Condition
	control cash.BaseController

	submit  SubmitHandler
	support SupportHandler
	retract RetractHandler
	execute ExecuteHandler
	view    ViewHandler
}

func newTestEnv(t testing.TB, poolFunds coin.Coins) *testEnv {
	t.Helper()

	db := store.MemStore()
	owners := []covault.Condition{
		covtest.NewCondition(),
		covtest.NewCondition(),
		covtest.NewCondition(),
	}

	registry := NewRegistryBucket()
	reg := &OwnerRegistry{Owners: []covault.Address{
		owners[0].Address(),
		owners[1].Address(),
		owners[2].Address(),
	}}
	if err := registry.SaveRegistry(db, reg); err != nil {
		t.Fatalf("cannot save registry: %+v", err)
	}

	control := cash.NewController(cash.NewBucket())
	for _, c := range poolFunds {
		if err := control.IssueCoins(db, PoolAddress, *c); err != nil {
			t.Fatalf("cannot fund pool: %+v", err)
		}
	}

	auth := &covtest.CtxAuth{Key: "auth"}
	requests := NewRequestBucket()

	return &testEnv{
		db:      db,
		auth:    auth,
		owners:  owners,
		control: control,
		submit:  SubmitHandler{auth: auth, registry: registry, requests: requests},
		support: SupportHandler{auth: auth, registry: registry, requests: requests},
		retract: RetractHandler{auth: auth, registry: registry, requests: requests},
		execute: ExecuteHandler{auth: auth, registry: registry, requests: requests, control: control},
		view:    ViewHandler{auth: auth, registry: registry, requests: requests},
	}
}

// as builds a context authenticated as the given conditions
func (e *testEnv) as(conds ...covault.Condition) covault.Context {
	return e.auth.SetConditions(context.Background(), conds...)
}

// submitAs submits a request and returns the allocated id
func (e *testEnv) submitAs(t testing.TB, owner covault.Condition, amount coin.Coin, target covault.Address) []byte {
	t.Helper()
	tx := &covtest.Tx{Msg: &SubmitRequestMsg{Amount: &amount, Target: target}}
	res, err := e.submit.Deliver(e.as(owner), e.db, tx)
	if err != nil {
		t.Fatalf("submit failed: %+v", err)
	}
	return res.Data
}

func ccd(whole int64) coin.Coin { return coin.NewCoin(whole, 0, "CCD") }

func TestSubmitAllocatesMonotonicIDs(t *testing.T) {
	env := newTestEnv(t, coin.Coins{coin.NewCoinp(100, 0, "CCD")})
	target := covtest.NewCondition().Address()

	id1 := env.submitAs(t, env.owners[0], ccd(10), target)
	id2 := env.submitAs(t, env.owners[1], ccd(20), target)
	assert.Equal(t, RequestID(1), id1)
	assert.Equal(t, RequestID(2), id2)

	// execute id1 with full support, then verify the next id is still 3
	for _, o := range env.owners[1:] {
		_, err := env.support.Deliver(env.as(o), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id1}})
		assert.Nil(t, err)
	}
	_, err := env.execute.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id1}})
	assert.Nil(t, err)

	id3 := env.submitAs(t, env.owners[2], ccd(30), target)
	assert.Equal(t, RequestID(3), id3)
}

func TestSubmitterIsFirstSupporter(t *testing.T) {
	env := newTestEnv(t, nil)
	target := covtest.NewCondition().Address()

	id := env.submitAs(t, env.owners[1], ccd(10), target)

	request, err := NewRequestBucket().GetRequest(env.db, id)
	assert.Nil(t, err)
	assert.Equal(t, []covault.Address{env.owners[1].Address()}, request.Supporters)
	assert.Equal(t, target, request.Target)
	assert.Equal(t, coin.NewCoinp(10, 0, "CCD"), request.Amount)
}

func TestSupportRequest(t *testing.T) {
	env := newTestEnv(t, nil)
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)

	// support from another owner succeeds
	_, err := env.support.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.Nil(t, err)

	// the same owner cannot support twice
	_, err = env.support.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestAlreadySupported, err)

	// the submitter already supports
	_, err = env.support.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestAlreadySupported, err)

	// state is unchanged after the failed calls
	request, err := NewRequestBucket().GetRequest(env.db, id)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(request.Supporters))

	// unknown id
	_, err = env.support.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: RequestID(42)}})
	assert.IsErr(t, ErrRequestNotFound, err)
}

func TestRetractSupport(t *testing.T) {
	env := newTestEnv(t, nil)
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)

	// an owner that never supported cannot retract
	_, err := env.retract.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &RetractSupportMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestAlreadyNotSupported, err)

	// the submitter can retract their own support
	_, err = env.retract.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &RetractSupportMsg{RequestId: id}})
	assert.Nil(t, err)

	request, err := NewRequestBucket().GetRequest(env.db, id)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(request.Supporters))

	// and not twice
	_, err = env.retract.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &RetractSupportMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestAlreadyNotSupported, err)

	// unknown id
	_, err = env.retract.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &RetractSupportMsg{RequestId: RequestID(9)}})
	assert.IsErr(t, ErrRequestNotFound, err)
}

func TestExecuteRequiresUnanimity(t *testing.T) {
	env := newTestEnv(t, coin.Coins{coin.NewCoinp(100, 0, "CCD")})
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)

	// one supporter is not enough
	_, err := env.execute.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotSupportedByAllOwners, err)

	// two supporters are not enough
	_, err = env.support.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.Nil(t, err)
	_, err = env.execute.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotSupportedByAllOwners, err)

	// all three supporters release the funds
	_, err = env.support.Deliver(env.as(env.owners[2]), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.Nil(t, err)
	_, err = env.execute.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.Nil(t, err)

	// the funds moved
	balance, err := env.control.Balance(env.db, target)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(10, 0, "CCD")}, balance)

	pool, err := env.control.Balance(env.db, PoolAddress)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(90, 0, "CCD")}, pool)

	// the request is gone, double execution reports a missing request
	_, err = env.execute.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotFound, err)
	_, err = env.view.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &ViewRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotFound, err)
}

func TestExecuteInsufficientPool(t *testing.T) {
	env := newTestEnv(t, coin.Coins{coin.NewCoinp(5, 0, "CCD")})
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)
	for _, o := range env.owners[1:] {
		_, err := env.support.Deliver(env.as(o), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
		assert.Nil(t, err)
	}

	_, err := env.execute.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrInsufficientAvailableFunds, err)

	// the request survives the failed execution
	request, err := NewRequestBucket().GetRequest(env.db, id)
	assert.Nil(t, err)
	if request == nil {
		t.Fatal("request lost after failed execution")
	}
}

func TestExecuteEmptyPool(t *testing.T) {
	env := newTestEnv(t, nil)
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)
	for _, o := range env.owners[1:] {
		_, err := env.support.Deliver(env.as(o), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
		assert.Nil(t, err)
	}

	_, err := env.execute.Deliver(env.as(env.owners[0]), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrInsufficientAvailableFunds, err)
}

func TestViewGatedOnFullSupport(t *testing.T) {
	env := newTestEnv(t, nil)
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)

	// partially supported requests cannot be viewed
	_, err := env.view.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &ViewRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotSupportedByAllOwners, err)

	for _, o := range env.owners[1:] {
		_, err := env.support.Deliver(env.as(o), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
		assert.Nil(t, err)
	}

	res, err := env.view.Deliver(env.as(env.owners[1]), env.db, &covtest.Tx{Msg: &ViewRequestMsg{RequestId: id}})
	assert.Nil(t, err)

	var request TransferRequest
	assert.Nil(t, request.Unmarshal(res.Data))
	assert.Equal(t, target, request.Target)
	assert.Equal(t, 3, len(request.Supporters))

	// viewing is read only
	stored, err := NewRequestBucket().GetRequest(env.db, id)
	assert.Nil(t, err)
	if stored == nil {
		t.Fatal("request removed by view")
	}
}

func TestNonOwnerRejected(t *testing.T) {
	env := newTestEnv(t, coin.Coins{coin.NewCoinp(100, 0, "CCD")})
	target := covtest.NewCondition().Address()
	id := env.submitAs(t, env.owners[0], ccd(10), target)

	stranger := covtest.NewCondition()
	txs := []covault.Tx{
		&covtest.Tx{Msg: &SubmitRequestMsg{Amount: coin.NewCoinp(1, 0, "CCD"), Target: target}},
		&covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}},
		&covtest.Tx{Msg: &RetractSupportMsg{RequestId: id}},
		&covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}},
		&covtest.Tx{Msg: &ViewRequestMsg{RequestId: id}},
	}
	handlers := []covault.Handler{env.submit, env.support, env.retract, env.execute, env.view}

	for i, h := range handlers {
		_, err := h.Check(env.as(stranger), env.db, txs[i])
		assert.IsErr(t, ErrNotOwner, err)
		_, err = h.Deliver(env.as(stranger), env.db, txs[i])
		assert.IsErr(t, ErrNotOwner, err)
	}

	// no signer at all is rejected the same way
	_, err := env.support.Deliver(env.as(), env.db, txs[1])
	assert.IsErr(t, ErrNotOwner, err)

	// state unchanged
	request, err := NewRequestBucket().GetRequest(env.db, id)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(request.Supporters))
}

func TestContractSenderRejected(t *testing.T) {
	db := store.MemStore()

	// one of the owner addresses derives from a contract style
	// condition instead of a signature
	contract := covault.NewCondition("escrow", "seq", []byte("0001"))
	owners := []covault.Condition{
		covtest.NewCondition(),
		covtest.NewCondition(),
		contract,
	}

	registry := NewRegistryBucket()
	reg := &OwnerRegistry{Owners: []covault.Address{
		owners[0].Address(),
		owners[1].Address(),
		owners[2].Address(),
	}}
	assert.Nil(t, registry.SaveRegistry(db, reg))

	auth := &covtest.CtxAuth{Key: "auth"}
	h := SubmitHandler{auth: auth, registry: registry, requests: NewRequestBucket()}

	ctx := auth.SetConditions(context.Background(), contract)
	tx := &covtest.Tx{Msg: &SubmitRequestMsg{
		Amount: coin.NewCoinp(1, 0, "CCD"),
		Target: covtest.NewCondition().Address(),
	}}
	_, err := h.Deliver(ctx, db, tx)
	assert.IsErr(t, ErrContractSender, err)
}

func TestUninitializedRegistry(t *testing.T) {
	db := store.MemStore()
	auth := &covtest.CtxAuth{Key: "auth"}
	h := SubmitHandler{auth: auth, registry: NewRegistryBucket(), requests: NewRequestBucket()}

	ctx := auth.SetConditions(context.Background(), covtest.NewCondition())
	tx := &covtest.Tx{Msg: &SubmitRequestMsg{
		Amount: coin.NewCoinp(1, 0, "CCD"),
		Target: covtest.NewCondition().Address(),
	}}
	_, err := h.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrState, err)
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t, coin.Coins{coin.NewCoinp(100, 0, "CCD")})
	a, b, c := env.owners[0], env.owners[1], env.owners[2]
	target := covtest.NewCondition().Address()

	// A submits a request for 10 CCD to target, receives id 1
	id := env.submitAs(t, a, ccd(10), target)
	assert.Equal(t, RequestID(1), id)

	// B and C support it
	_, err := env.support.Deliver(env.as(b), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.Nil(t, err)
	_, err = env.support.Deliver(env.as(c), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.Nil(t, err)

	// execution releases the funds
	_, err = env.execute.Deliver(env.as(a), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.Nil(t, err)

	balance, err := env.control.Balance(env.db, target)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(10, 0, "CCD")}, balance)

	// any further operation on id 1 reports a missing request
	_, err = env.support.Deliver(env.as(b), env.db, &covtest.Tx{Msg: &SupportRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotFound, err)
	_, err = env.view.Deliver(env.as(c), env.db, &covtest.Tx{Msg: &ViewRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotFound, err)
	_, err = env.execute.Deliver(env.as(a), env.db, &covtest.Tx{Msg: &ExecuteRequestMsg{RequestId: id}})
	assert.IsErr(t, ErrRequestNotFound, err)
}

package app

import (
	"fmt"
	"testing"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/covault/covault"
	"github.com/covault/covault/app"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/sigs"
	"github.com/covault/covault/x/vault"
)

type testChain struct {
	t      *testing.T
	app    app.BaseApp
	id     string
	height int64
}

func newTestChain(t *testing.T, chainID string, owners []covault.Address, depositor covault.Address) *testChain {
	t.Helper()

	abciApp, err := GenerateApp("", log.NewNopLogger(), true)
	assert.Nil(t, err)
	myApp, ok := abciApp.(app.BaseApp)
	if !ok {
		t.Fatalf("unexpected application type %T", abciApp)
	}

	appState := fmt.Sprintf(`{
		"cash": [{
			"address": "%s",
			"coins": [{"whole": 50000, "ticker": "VLT"}]
		}],
		"vault": {
			"owners": ["%s", "%s", "%s"]
		}
	}`, depositor, owners[0], owners[1], owners[2])

	assert.Equal(t, "", myApp.GetChainID())
	myApp.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(appState),
	})
	assert.Equal(t, chainID, myApp.GetChainID())

	c := &testChain{t: t, app: myApp, id: chainID}
	hash := c.commitBlock()
	assert.Equal(t, true, len(hash) > 0)
	return c
}

// commitBlock runs an empty block to bump the height
func (c *testChain) commitBlock() []byte {
	c.t.Helper()
	c.height++
	header := abci.Header{Height: c.height, ChainID: c.id}
	c.app.BeginBlock(abci.RequestBeginBlock{Header: header})
	c.app.EndBlock(abci.RequestEndBlock{})
	return c.app.Commit().Data
}

// deliverTx signs the transaction, runs it through a full block and
// returns the DeliverTx response without asserting on the result code
func (c *testChain) deliverTx(tx *Tx, signer *crypto.PrivateKey) abci.ResponseDeliverTx {
	c.t.Helper()

	nonce, err := sigs.NextNonce(c.app.DeliverStore(), signer.PublicKey().Address())
	assert.Nil(c.t, err)
	sig, err := sigs.SignTx(signer, tx, c.id, nonce)
	assert.Nil(c.t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	txBytes, err := tx.Marshal()
	assert.Nil(c.t, err)

	c.height++
	header := abci.Header{Height: c.height, ChainID: c.id}
	c.app.BeginBlock(abci.RequestBeginBlock{Header: header})
	chres := c.app.CheckTx(txBytes)
	assert.Equal(c.t, uint32(0), chres.Code)
	dres := c.app.DeliverTx(txBytes)
	c.app.EndBlock(abci.RequestEndBlock{})
	c.app.Commit()
	return dres
}

// queryOne loads a single object from the query interface,
// returning false when there is no data for the key
func (c *testChain) queryOne(path string, key []byte, obj covault.Persistent) bool {
	c.t.Helper()
	qres := c.app.Query(abci.RequestQuery{Path: path, Data: key})
	assert.Equal(c.t, uint32(0), qres.Code)
	if len(qres.Value) == 0 {
		return false
	}
	var values app.ResultSet
	assert.Nil(c.t, values.Unmarshal(qres.Value))
	if len(values.Results) == 0 {
		return false
	}
	assert.Nil(c.t, app.UnmarshalOneResult(qres.Value, obj))
	return true
}

func (c *testChain) walletCoins(addr covault.Address) coin.Coins {
	c.t.Helper()
	var set cash.Set
	if !c.queryOne("/wallets", addr, &set) {
		return nil
	}
	return coin.Coins(set.Coins)
}

func TestAppFundRelease(t *testing.T) {
	ann := crypto.GenPrivKeyEd25519()
	bert := crypto.GenPrivKeyEd25519()
	carla := crypto.GenPrivKeyEd25519()
	depositor := crypto.GenPrivKeyEd25519()
	beneficiary := crypto.GenPrivKeyEd25519().PublicKey().Address()

	owners := []covault.Address{
		ann.PublicKey().Address(),
		bert.PublicKey().Address(),
		carla.PublicKey().Address(),
	}
	chain := newTestChain(t, "test-vault-1", owners, depositor.PublicKey().Address())

	// the depositor got the genesis funds
	assert.Equal(t, coin.Coins{coin.NewCoinp(50000, 0, "VLT")},
		chain.walletCoins(depositor.PublicKey().Address()))

	// move part of them into the shared pool
	dres := chain.deliverTx(&Tx{
		Sum: &Tx_DepositMsg{&cash.DepositMsg{
			Amount: coin.NewCoinp(20000, 0, "VLT"),
		}},
	}, depositor)
	assert.Equal(t, uint32(0), dres.Code)
	assert.Equal(t, coin.Coins{coin.NewCoinp(30000, 0, "VLT")},
		chain.walletCoins(depositor.PublicKey().Address()))
	assert.Equal(t, coin.Coins{coin.NewCoinp(20000, 0, "VLT")},
		chain.walletCoins(vault.PoolAddress))

	// an owner requests a transfer to the beneficiary
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_SubmitRequestMsg{&vault.SubmitRequestMsg{
			Amount: coin.NewCoinp(9000, 0, "VLT"),
			Target: beneficiary,
		}},
	}, ann)
	assert.Equal(t, uint32(0), dres.Code)
	requestID := dres.Data
	assert.Equal(t, vault.RequestIDLength, len(requestID))

	// executing before full support must fail
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_ExecuteRequestMsg{&vault.ExecuteRequestMsg{
			RequestId: requestID,
		}},
	}, ann)
	if dres.Code == 0 {
		t.Fatal("expected execution without full support to fail")
	}

	// outsiders cannot support
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_SupportRequestMsg{&vault.SupportRequestMsg{
			RequestId: requestID,
		}},
	}, depositor)
	if dres.Code == 0 {
		t.Fatal("expected support by non-owner to fail")
	}

	// the two remaining owners agree
	for _, owner := range []*crypto.PrivateKey{bert, carla} {
		dres = chain.deliverTx(&Tx{
			Sum: &Tx_SupportRequestMsg{&vault.SupportRequestMsg{
				RequestId: requestID,
			}},
		}, owner)
		assert.Equal(t, uint32(0), dres.Code)
	}

	var request vault.TransferRequest
	assert.Equal(t, true, chain.queryOne("/requests", requestID, &request))
	assert.Equal(t, 3, len(request.Supporters))
	assert.Equal(t, beneficiary, request.Target)

	// now the transfer goes through
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_ExecuteRequestMsg{&vault.ExecuteRequestMsg{
			RequestId: requestID,
		}},
	}, carla)
	assert.Equal(t, uint32(0), dres.Code)

	assert.Equal(t, coin.Coins{coin.NewCoinp(9000, 0, "VLT")},
		chain.walletCoins(beneficiary))
	assert.Equal(t, coin.Coins{coin.NewCoinp(11000, 0, "VLT")},
		chain.walletCoins(vault.PoolAddress))

	// the request is gone, executing again must fail
	assert.Equal(t, false, chain.queryOne("/requests", requestID, &request))
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_ExecuteRequestMsg{&vault.ExecuteRequestMsg{
			RequestId: requestID,
		}},
	}, ann)
	if dres.Code == 0 {
		t.Fatal("expected execution of a removed request to fail")
	}
}

func TestAppRetractSupport(t *testing.T) {
	ann := crypto.GenPrivKeyEd25519()
	bert := crypto.GenPrivKeyEd25519()
	carla := crypto.GenPrivKeyEd25519()
	depositor := crypto.GenPrivKeyEd25519()
	beneficiary := crypto.GenPrivKeyEd25519().PublicKey().Address()

	owners := []covault.Address{
		ann.PublicKey().Address(),
		bert.PublicKey().Address(),
		carla.PublicKey().Address(),
	}
	chain := newTestChain(t, "test-vault-2", owners, depositor.PublicKey().Address())

	dres := chain.deliverTx(&Tx{
		Sum: &Tx_DepositMsg{&cash.DepositMsg{
			Amount: coin.NewCoinp(10000, 0, "VLT"),
		}},
	}, depositor)
	assert.Equal(t, uint32(0), dres.Code)

	dres = chain.deliverTx(&Tx{
		Sum: &Tx_SubmitRequestMsg{&vault.SubmitRequestMsg{
			Amount: coin.NewCoinp(500, 0, "VLT"),
			Target: beneficiary,
		}},
	}, ann)
	assert.Equal(t, uint32(0), dres.Code)
	requestID := dres.Data

	// the submitter changes her mind
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_RetractSupportMsg{&vault.RetractSupportMsg{
			RequestId: requestID,
		}},
	}, ann)
	assert.Equal(t, uint32(0), dres.Code)

	var request vault.TransferRequest
	assert.Equal(t, true, chain.queryOne("/requests", requestID, &request))
	assert.Equal(t, 0, len(request.Supporters))

	// all three owners must now support to execute
	for _, owner := range []*crypto.PrivateKey{ann, bert, carla} {
		dres = chain.deliverTx(&Tx{
			Sum: &Tx_SupportRequestMsg{&vault.SupportRequestMsg{
				RequestId: requestID,
			}},
		}, owner)
		assert.Equal(t, uint32(0), dres.Code)
	}
	dres = chain.deliverTx(&Tx{
		Sum: &Tx_ExecuteRequestMsg{&vault.ExecuteRequestMsg{
			RequestId: requestID,
		}},
	}, bert)
	assert.Equal(t, uint32(0), dres.Code)
	assert.Equal(t, coin.Coins{coin.NewCoinp(500, 0, "VLT")},
		chain.walletCoins(beneficiary))
}

package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/commands"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/sigs"
	"github.com/covault/covault/x/vault"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	wallet := &cash.Set{
		Coins: []*coin.Coin{
			{Whole: 50000, Ticker: "VLT"},
			{Whole: 150, Fractional: 567000, Ticker: "ETH"},
		},
	}

	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	user := &sigs.UserData{
		Pubkey:   pub,
		Sequence: 17,
	}

	deposit := &cash.DepositMsg{
		Amount: coin.NewCoinp(250, 0, "VLT"),
	}

	target := crypto.GenPrivKeyEd25519().PublicKey().Address()
	submit := &vault.SubmitRequestMsg{
		Amount: coin.NewCoinp(100, 0, "VLT"),
		Target: target,
	}
	requestID := []byte("0000000000000001")
	support := &vault.SupportRequestMsg{
		RequestId: requestID,
	}
	execute := &vault.ExecuteRequestMsg{
		RequestId: requestID,
	}
	request := &vault.TransferRequest{
		Amount:     coin.NewCoinp(100, 0, "VLT"),
		Target:     target,
		Supporters: []covault.Address{pub.Address()},
	}

	unsigned := Tx{
		Sum: &Tx_DepositMsg{deposit},
	}
	tx := unsigned
	sig, err := sigs.SignTx(priv, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "priv_key", Obj: priv},
		{Filename: "pub_key", Obj: pub},
		{Filename: "user", Obj: user},
		{Filename: "deposit_msg", Obj: deposit},
		{Filename: "submit_request_msg", Obj: submit},
		{Filename: "support_request_msg", Obj: support},
		{Filename: "execute_request_msg", Obj: execute},
		{Filename: "transfer_request", Obj: request},
		{Filename: "unsigned_tx", Obj: &unsigned},
		{Filename: "signed_tx", Obj: &tx},
	}
}

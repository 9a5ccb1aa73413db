package client

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/vault"
)

// WalletResponse is the balance held by one address
type WalletResponse struct {
	Address covault.Address
	Coins   coin.Coins
	Height  int64
}

// GetWallet returns the wallet of the address, typically used to
// check the pool balance or a payout target. An address that never
// held funds returns (nil, nil).
func (v *VaultClient) GetWallet(addr covault.Address) (*WalletResponse, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid address")
	}
	res, err := v.abciQuery("/wallets", addr)
	if err != nil {
		return nil, err
	}
	if len(res.pairs) == 0 {
		return nil, nil
	}
	model := res.pairs[0]
	if got := stripBucketPrefix(model.Key); !addr.Equals(got) {
		return nil, errors.Wrapf(errors.ErrState, "queried %s, got %s", addr, covault.Address(got))
	}
	var set cash.Set
	if err := set.Unmarshal(model.Value); err != nil {
		return nil, errors.Wrap(err, "parsing wallet")
	}
	return &WalletResponse{
		Address: addr,
		Coins:   coin.Coins(set.Coins),
		Height:  res.height,
	}, nil
}

// GetPoolBalance is a shorthand for the wallet of the shared pool
// account all deposits accumulate in
func (v *VaultClient) GetPoolBalance() (*WalletResponse, error) {
	return v.GetWallet(vault.PoolAddress)
}

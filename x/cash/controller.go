package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
)

// Controller is the functionality needed by the handlers.
// BaseController should work plenty fine, but you can add
// other logic if so desired
type Controller interface {
	MoveCoins(store covault.KVStore, src covault.Address, dest covault.Address, amount coin.Coin) error
	IssueCoins(store covault.KVStore, dest covault.Address, amount coin.Coin) error
	Balance(store covault.KVStore, src covault.Address) (coin.Coins, error)
}

// BaseController implements Controller interface, using
// WalletBucket as the storage engine.
type BaseController struct {
	bucket WalletBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation
func NewController(bucket WalletBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under the given address
func (c BaseController) Balance(store covault.KVStore, src covault.Address) (coin.Coins, error) {
	state, err := c.bucket.Get(store, src)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get account state")
	}
	if state == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no account")
	}
	return AsCoins(state), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(store covault.KVStore,
	src covault.Address, dest covault.Address, amount coin.Coin) error {

	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %#v", &amount)
	}

	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(ErrEmptyAccount, "%s", src)
	}
	if !AsCoins(sender).Contains(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%s", src)
	}

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := AsWallet(sender).Subtract(amount); err != nil {
		return err
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}

	if err := c.bucket.Save(store, sender); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) IssueCoins(store covault.KVStore,
	dest covault.Address, amount coin.Coin) error {

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

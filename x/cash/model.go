package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
)

// BucketName holds the balances
const BucketName = "cash"

// Validate requires the coin set to be normalized, sorted by ticker
// with no duplicates or zero entries
func (s *Set) Validate() error {
	return coin.Coins(s.GetCoins()).Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Coins: coin.Coins(s.GetCoins()).Clone(),
	}
}

// Wallet is a balance bound to the address it is stored under. This
// is what handler code passes around.
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet for this address
func NewWallet(key covault.Address) *Wallet {
	return &Wallet{
		key:   key,
		value: new(Set),
	}
}

// WalletWith creates a wallet with an initial balance
func WalletWith(key covault.Address, coins ...*coin.Coin) (*Wallet, error) {
	wallet := NewWallet(key)
	if err := wallet.Concat(coins); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Value gets the stored balance set
func (w Wallet) Value() covault.Persistent {
	return w.value
}

// Key returns the address the wallet is stored under
func (w Wallet) Key() []byte {
	return w.key
}

// Validate requires an address and a normalized balance
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet key")
	}
	return w.value.Validate()
}

// SetKey updates the wallet address
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone copies the wallet deeply, key bytes included
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy().(*Set),
	}
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the balance held in the wallet
func (w Wallet) Coins() coin.Coins {
	return coin.Coins(w.value.GetCoins())
}

// Add credits the wallet with c
func (w *Wallet) Add(c coin.Coin) error {
	cs, err := w.Coins().Add(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

// Subtract debits the wallet by c
func (w *Wallet) Subtract(c coin.Coin) error {
	return w.Add(c.Negative())
}

// Concat merges the coins into the wallet, keeping the set sorted
// and free of duplicates and zeros
func (w *Wallet) Concat(coins coin.Coins) error {
	joint, err := w.Coins().Combine(coins)
	if err != nil {
		return err
	}
	w.value.Coins = joint
	return nil
}

// WalletBucket is the storage interface the controller works with.
// An implementation may add indexes underneath.
type WalletBucket interface {
	GetOrCreate(db covault.KVStore, key covault.Address) (orm.Object, error)
	Get(db covault.ReadOnlyKVStore, key []byte) (orm.Object, error)
	Save(db covault.KVStore, obj orm.Object) error
}

// AsCoins extracts the balance from a WalletBucket object, nil safe
func AsCoins(obj orm.Object) coin.Coins {
	if obj == nil {
		return nil
	}
	return obj.(*Wallet).Coins()
}

// AsWallet casts a bucket object to a wallet for manipulation
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil {
		return nil
	}
	return obj.(*Wallet)
}

// Bucket is the type-safe wallet store
type Bucket struct {
	orm.Bucket
}

var _ WalletBucket = Bucket{}

// NewBucket sets up the wallet bucket under its default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// GetOrCreate returns the wallet under this address, or a fresh
// empty one when none was stored yet
func (b Bucket) GetOrCreate(db covault.KVStore, key covault.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewWallet(key)
	}
	return obj, nil
}

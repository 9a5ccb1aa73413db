/*
Package client is a typed client for the covaultd application, built
on the rpc primitives of the root client package. It knows the
transaction envelope and the query paths of the application, so
callers deal in owners, requests and wallets instead of raw bytes.
*/
package client

import (
	"bytes"
	"sync"

	"github.com/covault/covault"
	"github.com/covault/covault/app"
	"github.com/covault/covault/client"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/x/sigs"
	"github.com/covault/covault/x/vault"
)

// VaultClient wraps the generic rpc client with queries typed to the
// covaultd state: the owner registry, pending transfer requests,
// wallets and signature accounts.
type VaultClient struct {
	*client.Client
}

// NewVaultClient wraps an rpc client
func NewVaultClient(c *client.Client) *VaultClient {
	return &VaultClient{Client: c}
}

// queryModels is a parsed abci query result: the key/value pairs that
// matched and the height they were read at
type queryModels struct {
	pairs  []covault.Model
	height int64
}

// abciQuery runs a state query and joins the result sets into
// key/value pairs
func (v *VaultClient) abciQuery(path string, data []byte) (queryModels, error) {
	var out queryModels

	resp := v.Query(client.RequestQuery{Path: path, Data: data})
	if resp.Code != 0 {
		return out, errors.ABCIError(resp.Code, resp.Log)
	}
	out.height = resp.Height
	if len(resp.Key) == 0 {
		return out, nil
	}

	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return out, errors.Wrap(err, "parsing result keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return out, errors.Wrap(err, "parsing result values")
	}
	pairs, err := app.JoinResults(&keys, &values)
	out.pairs = pairs
	return out, err
}

// OwnersResponse lists the addresses authorized to manage the pool
type OwnersResponse struct {
	Owners []covault.Address
	Height int64
}

// GetOwners returns the owner registry, or nil if the chain was
// started without one
func (v *VaultClient) GetOwners() (*OwnersResponse, error) {
	res, err := v.abciQuery("/owners", []byte("owners"))
	if err != nil {
		return nil, err
	}
	if len(res.pairs) == 0 {
		return nil, nil
	}
	var registry vault.OwnerRegistry
	if err := registry.Unmarshal(res.pairs[0].Value); err != nil {
		return nil, errors.Wrap(err, "parsing owner registry")
	}
	return &OwnersResponse{Owners: registry.Owners, Height: res.height}, nil
}

// RequestResponse is one pending transfer request together with the
// id it is filed under
type RequestResponse struct {
	ID      []byte
	Request vault.TransferRequest
	Height  int64
}

// GetRequest looks up a pending transfer request by its id. A request
// that never existed or was already executed returns (nil, nil).
func (v *VaultClient) GetRequest(id []byte) (*RequestResponse, error) {
	res, err := v.abciQuery("/requests", id)
	if err != nil {
		return nil, err
	}
	if len(res.pairs) == 0 {
		return nil, nil
	}
	out := RequestResponse{ID: id, Height: res.height}
	if err := out.Request.Unmarshal(res.pairs[0].Value); err != nil {
		return nil, errors.Wrap(err, "parsing transfer request")
	}
	return &out, nil
}

// UserResponse is the signature account behind an address: the public
// key it registered and the sequence expected on its next transaction
type UserResponse struct {
	Address  covault.Address
	UserData sigs.UserData
	Height   int64
}

// GetUser returns the signature account of the address. An address
// that never signed a transaction returns (nil, nil) and can sign
// with sequence 0.
func (v *VaultClient) GetUser(addr covault.Address) (*UserResponse, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid address")
	}
	res, err := v.abciQuery("/auth", addr)
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
	out := UserResponse{Address: addr, Height: res.height}
	if err := out.UserData.Unmarshal(model.Value); err != nil {
		return nil, errors.Wrap(err, "parsing user data")
	}
	return &out, nil
}

// stripBucketPrefix cuts the "<bucket>:" prefix buckets put in front
// of their keys
func stripBucketPrefix(key []byte) []byte {
	if i := bytes.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// Nonce tracks the next sequence number for one signer. It queries
// the chain for the registered sequence and can count forward locally
// when many transactions are signed without waiting for blocks.
type Nonce struct {
	mutex     sync.Mutex
	client    userQuerier
	addr      covault.Address
	nonce     int64
	fromQuery bool
}

type userQuerier interface {
	GetUser(addr covault.Address) (*UserResponse, error)
}

// NewNonce creates a nonce tracker for one address
func NewNonce(client userQuerier, addr covault.Address) *Nonce {
	return &Nonce{client: client, addr: addr}
}

// Query asks the chain for the next valid sequence. A signer that
// never transacted before starts at 0.
func (n *Nonce) Query() (int64, error) {
	user, err := n.client.GetUser(n.addr)
	if err != nil {
		return 0, err
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if user != nil {
		n.nonce = user.UserData.Sequence
	} else {
		n.nonce = 0
	}
	n.fromQuery = true
	return n.nonce, nil
}

// Next returns the sequence after the last one handed out, querying
// the chain first if no value was seen yet. It assumes every previous
// value was actually used in a committed transaction.
func (n *Nonce) Next() (int64, error) {
	n.mutex.Lock()
	unseen := !n.fromQuery && n.nonce == 0
	n.mutex.Unlock()
	if unseen {
		return n.Query()
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.nonce++
	n.fromQuery = false
	return n.nonce, nil
}

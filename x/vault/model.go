package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
)

// AgreementThreshold is both the exact size of the owner registry and
// the number of distinct supporters required before a transfer request
// may be executed.
const AgreementThreshold = 3

// RequestIDLength is the byte size of a request id, an unsigned
// 128-bit big-endian integer.
const RequestIDLength = 16

var (
	// PoolCondition controls the shared funds. It has no private key,
	// value only leaves its wallet through an executed request.
	PoolCondition = covault.NewCondition("vault", "pool", []byte("fund"))

	// PoolAddress is the wallet address of the shared pool
	PoolAddress = PoolCondition.Address()
)

//---- OwnerRegistry

var _ orm.CloneableData = (*OwnerRegistry)(nil)

// Validate enforces the fixed-cardinality owner set
func (r *OwnerRegistry) Validate() error {
	if len(r.Owners) != AgreementThreshold {
		return errors.Wrapf(ErrInsufficientOwners, "got %d, want %d", len(r.Owners), AgreementThreshold)
	}
	seen := make(map[string]struct{}, len(r.Owners))
	for _, owner := range r.Owners {
		if err := owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
		if _, ok := seen[string(owner)]; ok {
			return errors.Wrapf(ErrInsufficientOwners, "duplicate owner %s", owner)
		}
		seen[string(owner)] = struct{}{}
	}
	return nil
}

// Copy produces a new registry with the same owners
func (r *OwnerRegistry) Copy() orm.CloneableData {
	return &OwnerRegistry{
		Owners: copyAddrs(r.Owners),
	}
}

// Contains returns true if the given address is a registered owner
func (r *OwnerRegistry) Contains(addr covault.Address) bool {
	for _, owner := range r.Owners {
		if owner.Equals(addr) {
			return true
		}
	}
	return false
}

//---- TransferRequest

var _ orm.CloneableData = (*TransferRequest)(nil)

// Validate ensures a stored request is internally consistent
func (t *TransferRequest) Validate() error {
	if coin.IsEmpty(t.Amount) || !t.Amount.IsPositive() {
		return errors.Wrapf(ErrMismatchingRequestInformation, "non-positive amount: %#v", t.Amount)
	}
	if err := t.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := t.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	// a request may hold zero supporters, the submitter can retract
	if len(t.Supporters) > AgreementThreshold {
		return errors.Wrapf(ErrMismatchingRequestInformation, "%d supporters", len(t.Supporters))
	}
	seen := make(map[string]struct{}, len(t.Supporters))
	for _, supporter := range t.Supporters {
		if err := supporter.Validate(); err != nil {
			return errors.Wrap(err, "supporter")
		}
		if _, ok := seen[string(supporter)]; ok {
			return errors.Wrapf(ErrMismatchingRequestInformation, "duplicate supporter %s", supporter)
		}
		seen[string(supporter)] = struct{}{}
	}
	return nil
}

// Copy produces a deep copy of the request
func (t *TransferRequest) Copy() orm.CloneableData {
	return &TransferRequest{
		Amount:     t.Amount.Clone(),
		Target:     append(covault.Address(nil), t.Target...),
		Supporters: copyAddrs(t.Supporters),
	}
}

// SupportedBy returns true if the address is a current supporter
func (t *TransferRequest) SupportedBy(addr covault.Address) bool {
	for _, supporter := range t.Supporters {
		if supporter.Equals(addr) {
			return true
		}
	}
	return false
}

// AddSupporter registers the address as a supporter. The caller must
// have checked SupportedBy first.
func (t *TransferRequest) AddSupporter(addr covault.Address) {
	t.Supporters = append(t.Supporters, addr)
}

// RemoveSupporter unregisters the address. Removal keeps the relative
// order of the remaining supporters.
func (t *TransferRequest) RemoveSupporter(addr covault.Address) {
	for i, supporter := range t.Supporters {
		if supporter.Equals(addr) {
			t.Supporters = append(t.Supporters[:i], t.Supporters[i+1:]...)
			return
		}
	}
}

func copyAddrs(addrs []covault.Address) []covault.Address {
	if addrs == nil {
		return nil
	}
	out := make([]covault.Address, len(addrs))
	for i, a := range addrs {
		out[i] = append(covault.Address(nil), a...)
	}
	return out
}

//---- buckets

// registryKey is the singleton key the owner registry is stored under
var registryKey = []byte("owners")

// RegistryBucket persists the single OwnerRegistry record
type RegistryBucket struct {
	orm.Bucket
}

// NewRegistryBucket initializes a RegistryBucket
func NewRegistryBucket() RegistryBucket {
	return RegistryBucket{
		Bucket: orm.NewBucket("vaultown", orm.NewSimpleObj(nil, new(OwnerRegistry))),
	}
}

// GetRegistry loads the owner registry, or nil if not initialized
func (b RegistryBucket) GetRegistry(db covault.ReadOnlyKVStore) (*OwnerRegistry, error) {
	obj, err := b.Get(db, registryKey)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.Value().(*OwnerRegistry), nil
}

// SaveRegistry stores the owner registry under the singleton key
func (b RegistryBucket) SaveRegistry(db covault.KVStore, registry *OwnerRegistry) error {
	return b.Save(db, orm.NewSimpleObj(registryKey, registry))
}

// RequestBucket persists pending transfer requests keyed by their
// 16-byte request id
type RequestBucket struct {
	orm.Bucket
	seq requestSeq
}

// NewRequestBucket initializes a RequestBucket
func NewRequestBucket() RequestBucket {
	return RequestBucket{
		Bucket: orm.NewBucket("requests", orm.NewSimpleObj(nil, new(TransferRequest))),
		seq:    newRequestSeq("requests", "id"),
	}
}

// NextID allocates the next request id, strictly increasing and never
// reused, even across executed requests
func (b RequestBucket) NextID(db covault.KVStore) ([]byte, error) {
	return b.seq.NextVal(db)
}

// GetRequest loads the request stored under the id, or nil if missing
func (b RequestBucket) GetRequest(db covault.ReadOnlyKVStore, id []byte) (*TransferRequest, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.Value().(*TransferRequest), nil
}

// SaveRequest stores the request under the id
func (b RequestBucket) SaveRequest(db covault.KVStore, id []byte, request *TransferRequest) error {
	return b.Save(db, orm.NewSimpleObj(id, request))
}

package vault

import (
	"github.com/covault/covault/errors"
)

var (
	// ErrInsufficientOwners is returned when the genesis owner set does
	// not contain exactly AgreementThreshold distinct addresses
	ErrInsufficientOwners = errors.Register(1040, "insufficient owners")

	// ErrNotOwner is returned when the acting party is not a member of
	// the owner registry
	ErrNotOwner = errors.Register(1041, "not an owner")

	// ErrContractSender is returned when the acting party matches an
	// owner but is not an account principal
	ErrContractSender = errors.Register(1042, "contract sender")

	// ErrInsufficientAvailableFunds is returned when the pool does not
	// hold enough value to execute a request
	ErrInsufficientAvailableFunds = errors.Register(1043, "insufficient available funds")

	// ErrRequestNotFound is returned when no request is stored under
	// the given id
	ErrRequestNotFound = errors.Register(1044, "request not found")

	// ErrRequestAlreadyExists is returned when a freshly allocated id
	// is already taken. Ids are strictly increasing so this cannot
	// happen unless the counter state was corrupted.
	ErrRequestAlreadyExists = errors.Register(1045, "request already exists")

	// ErrMismatchingRequestInformation is returned when a stored
	// request fails its own consistency checks
	ErrMismatchingRequestInformation = errors.Register(1046, "mismatching request information")

	// ErrRequestAlreadySupported is returned when the sender already
	// supports the request
	ErrRequestAlreadySupported = errors.Register(1047, "request already supported")

	// ErrRequestAlreadyNotSupported is returned when retracting support
	// the sender never gave
	ErrRequestAlreadyNotSupported = errors.Register(1048, "request already not supported")

	// ErrRequestNotSupportedByAllOwners is returned when executing or
	// viewing a request that is not yet supported by every owner
	ErrRequestNotSupportedByAllOwners = errors.Register(1049, "request not supported by all owners")

	// ErrInvokeTransferMissingAccount is returned when the transfer
	// executor rejects the target account
	ErrInvokeTransferMissingAccount = errors.Register(1050, "invoke transfer: missing account")

	// ErrInvokeTransferInsufficientFunds is returned when the transfer
	// executor cannot cover the amount
	ErrInvokeTransferInsufficientFunds = errors.Register(1051, "invoke transfer: insufficient funds")

	// ErrParseParams is returned when operation parameters cannot be
	// decoded into their typed form
	ErrParseParams = errors.Register(1052, "parse params")
)

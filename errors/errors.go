package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned whenever an event is invalid and cannot be
	// handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned whenever a message is invalid and cannot
	// be used (ie. persisted).
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrImmutable is returned when something that is considered immutable
	// gets modified
	ErrImmutable = Register(8, "cannot be modified")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is in invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrAmount stands for invalid amount of whatever
	ErrAmount = Register(13, "invalid amount")

	// ErrInput stands for general input problems indication
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrCurrency is returned whenever an operation cannot be completed
	// due to a currency mismatch, e.g. adding two different tickers.
	ErrCurrency = Register(17, "currency mismatch")

	// ErrDatabase is returned when the storage layer misbehaves.
	ErrDatabase = Register(18, "database error")

	// ErrNetwork is returned on network failure (only for client libraries)
	ErrNetwork = Register(19, "network")

	// ErrTimeout is returned when an action cannot be completed within the
	// given time frame (only for client libraries)
	ErrTimeout = Register(20, "timeout")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// usedCodes guards against two root errors sharing one abci code.
// Code 1 is reserved for errors from outside the framework.
var usedCodes = map[uint32]*Error{
	1: nil,
}

// Register creates a root error with a unique abci code. All root
// errors of this package are created here, and extensions register
// their own codes the same way. Registering an already taken code
// panics, so call this only from package initialization.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// Error is a root error. Every error built during runtime wraps one
// of the registered roots, which categorizes it, gives it a stable
// abci code, and keeps what the client sees free of internals.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns an error with this root as the cause. The following
// are equivalent:
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is reports whether the given error stems from this root, following
// the cause chain through any number of wrappings
func (kind *Error) Is(err error) bool {
	if kind == nil {
		// reflection catches a typed-nil stored in the interface
		return err == nil || reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		// a group of errors matches if any member does
		if group, ok := err.(multiError); ok {
			return group.contains(kind.Is)
		}

		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Wrap layers a description on top of the given error. A nil error
// stays nil, so results can be wrapped unconditionally on return.
//
// Wrapping an error that has no abci code, like a stdlib error,
// makes it report as an internal error.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// record the stack once, at the innermost wrap
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with formatting
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	// description added by this layer
	msg string
	// the error that triggered this one
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

func (e *wrappedError) ABCICode() uint32 {
	return abciCode(e.parent)
}

// Recover stops a propagating panic and stores it in err as an
// ErrPanic. Use with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is implemented by errors that wrap another error
type causer interface {
	Cause() error
}

// stackTracer is implemented by errors carrying a recorded stack, as
// produced by github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the cause chain,
// or nil when none was recorded
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

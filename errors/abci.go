package errors

// SuccessABCICode declares an ABCI response use 0 to signal that the
// processing was successful and no error is returned.
const SuccessABCICode uint32 = 0

// internalABCICode is returned for any error that does not declare its own
// ABCI code. This hides internals from clients while still signalling a
// failure.
const internalABCICode uint32 = 1

const internalABCILog = "internal error"

// ABCIError resolves an error code and log from an abci response back
// into an error. If the code is registered the returned error matches
// the canonical instance on Is checks.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if e, ok := usedCodes[code]; ok && e != nil {
		return Wrap(e, log)
	}
	// an unregistered code, will never match on Is
	return Wrap(&Error{code: code, desc: "unknown"}, log)
}

// coder is implemented by errors that want to control which ABCI code is
// returned to the client.
type coder interface {
	ABCICode() uint32
}

// abciCode tests if given error contains an ABCI code and returns the value of
// it if available. This function is testing for the causer interface as well
// and unwraps the error.
func abciCode(err error) uint32 {
	if err == nil {
		panic("nil error does not have an ABCI code")
	}

	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

// ABCIInfo returns the ABCI error code and log message that should be
// returned to the client. When debug mode is enabled the full error message
// is revealed, otherwise errors without a registered code are redacted to
// avoid leaking internal details.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if err == nil {
		panic("nil error does not have an ABCI representation")
	}

	code := abciCode(err)
	if debug {
		return code, err.Error()
	}
	if code == internalABCICode {
		return code, internalABCILog
	}
	return code, err.Error()
}

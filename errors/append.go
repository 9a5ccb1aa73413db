package errors

import "strings"

// Append clubs together all provided errors. Nil values are ignored.
//
// If given a multi error instance, it is flattened so that the
// result is never nested.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		switch e := e.(type) {
		case nil:
			continue
		case multiError:
			res = append(res, e...)
		default:
			res = append(res, e)
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiError represents a group of errors. It is the result of combining
// several errors with Append.
type multiError []error

func (e multiError) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	}

	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// contains returns true if any of the group members matches the
// given kind test.
func (e multiError) contains(test func(error) bool) bool {
	for _, err := range e {
		if test(err) {
			return true
		}
	}
	return false
}

// ABCICode returns the code of the first member that carries one.
func (e multiError) ABCICode() uint32 {
	for _, err := range e {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
	}
	return internalABCICode
}

package covault

import (
	"reflect"

	"github.com/covault/covault/errors"
)

// Msg is a request for one state transition. It carries no
// authentication, that lives on the wrapping Tx, and handlers must
// still validate it.
type Msg interface {
	Persistent

	// Validate is a sanity check on the message content
	Validate() error

	// Path routes the message to its handler, alphanumeric
	// [0-9A-Za-z_/]+ only. Define it next to the handler it belongs
	// to.
	Path() string
}

// Marshaller is anything that can serialize itself to bytes. Marshal
// may validate first, expect errors on unvalidated data.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can serialize and parse itself. Split from Marshaller
// because Unmarshal needs a pointer receiver while marshal-only
// callers can take values.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what the user sends to the chain: the message plus whatever
// the middleware stack needs, signatures above all.
type Tx interface {
	Persistent

	// GetMsg returns the action to perform
	GetMsg() (Msg, error)
}

// TxDecoder parses raw bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the message path, or (missing) when the tx carries
// none
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts and validates the message, then copies it into
// destination. Destination must be a pointer to the exact message
// type, anything else is ErrType.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	rv := reflect.ValueOf(destination)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Wrapf(errors.ErrType, "%T is not a pointer", destination)
	}
	mv := reflect.ValueOf(msg)
	if mv.Type() != rv.Type() {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	rv.Elem().Set(mv.Elem())
	return nil
}

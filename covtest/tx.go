package covtest

import "github.com/covault/covault"

// Tx is a stub transaction carrying a single message. Set Err to
// force failures through the handler stack.
type Tx struct {
	Msg covault.Msg
	Err error
}

var _ covault.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (covault.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a stub message with a configurable route, payload and
// error.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ covault.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

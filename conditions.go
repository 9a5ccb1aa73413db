package covault

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/covault/covault/crypto/bech32"
	"github.com/covault/covault/errors"
)

// AddressLength is the length of all addresses. It can be changed in
// an init() before any address is calculated, but never while a
// kvstore built on it is alive.
var AddressLength = 20

// condFormat validates the three condition sections. The (?s) flag is
// required, without it matching fails when the data section contains
// a newline byte.
var condFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition names a principal that can authorize an action, in the
// form "<extension>/<type>/<data>". The vault extension derives one
// for the shared pool, the sigs extension one per public key.
type Condition []byte

// NewCondition assembles the three sections into a condition
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse splits the condition into its sections, verifying the format
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := condFormat.FindSubmatch(c)
	if chunks == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address derives the account address controlled by this condition
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks if two conditions are the same
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String keeps the extension and type readable and hex-encodes the
// binary data section
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the condition is not well formed
func (c Condition) Validate() error {
	if !condFormat.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

// MarshalJSON writes the human readable string form
func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

// UnmarshalJSON reads the human readable string form
func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return c.deserialize(enc)
}

func (c *Condition) deserialize(source string) error {
	// the empty string is the nil condition
	if len(source) == 0 {
		*c = nil
		return nil
	}

	args := strings.Split(source, "/")
	if len(args) != 3 {
		return errors.Wrap(errors.ErrInput, "invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "malformed condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// Address is a collision-free, one-way digest of a Condition, always
// AddressLength bytes
type Address []byte

// NewAddress hashes the data and truncates to the address size
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// String returns the uppercase hex form
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: %v", []byte(a))
	}
	return nil
}

// Bech32String encodes the address in bech32 under the given human
// readable prefix
func (a Address) Bech32String(prefix string) (string, error) {
	raw, err := bech32.Encode(prefix, a)
	if err != nil {
		return "", errors.Wrap(err, "bech32")
	}
	return string(raw), nil
}

// MarshalJSON writes hex instead of the standard base64 []byte form
func (a Address) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(a))
	return json.Marshal(s)
}

// UnmarshalJSON accepts any encoding ParseAddress understands
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	res, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = res
	return nil
}

// ParseAddress reads an address from a human readable format. A
// prefix declares the encoding:
//
//   hex:C28A0899E015AA25EE1B6309A7E1D3C49EB1B60D
//   cond:sigs/ed25519/7E1D3C49...
//   bech32:tiov1c9zsgn8spd2yhhpkccn8udr579ave8kgxh05hr
//
// Without a prefix, hex is assumed.
func ParseAddress(enc string) (Address, error) {
	format := "hex"
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		format = chunks[0]
		enc = chunks[1]
	}

	// no value means no address
	if len(enc) == 0 {
		return nil, nil
	}

	switch format {
	case "hex":
		val, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(err, "cannot decode hex")
		}
		return validAddress(val)
	case "cond":
		var c Condition
		if err := c.deserialize(enc); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(err, "deserialize bech32: %s", err)
		}
		return validAddress(payload)
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
}

func validAddress(raw []byte) (Address, error) {
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

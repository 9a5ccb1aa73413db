package x

// Marshaller is anything that can serialize itself to bytes. Marshal
// may validate before serializing, expect errors unless the value was
// validated already.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can serialize and parse itself. Unmarshal needs a
// pointer receiver, which is why this is split from Marshaller.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// MustMarshal serializes the object or panics
func MustMarshal(obj Marshaller) []byte {
	bz, err := obj.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}

// MustUnmarshal parses the bytes into obj or panics
func MustUnmarshal(obj Persistent, bz []byte) {
	if err := obj.Unmarshal(bz); err != nil {
		panic(err)
	}
}

// Validater is any struct that can check its own consistency. Not a
// Validator, those vote on blocks.
type Validater interface {
	Validate() error
}

// MustValidate panics if the object is not valid
func MustValidate(obj Validater) {
	if err := obj.Validate(); err != nil {
		panic(err)
	}
}

// MarshalValidater can be validated and serialized
type MarshalValidater interface {
	Marshaller
	Validater
}

// MustMarshalValid validates then marshals, panicking on either
// failure
func MustMarshalValid(obj MarshalValidater) []byte {
	MustValidate(obj)
	return MustMarshal(obj)
}

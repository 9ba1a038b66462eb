// Package encoding defines interfaces for encoding and decoding session
// tokens. Implementations embody a signing trust model: which keys a token
// must verify against is a property of the codec, chosen by configuration,
// never of the token itself.
package encoding

// MarshalUnmarshaler can both Marshal and Unmarshal a struct into and from a set of bytes.
type MarshalUnmarshaler interface {
	Marshaler
	Unmarshaler
}

// Marshaler encodes a struct into a set of bytes.
type Marshaler interface {
	Marshal(any) ([]byte, error)
}

// Unmarshaler decodes a set of bytes and returns a struct.
type Unmarshaler interface {
	Unmarshal([]byte, any) error
}

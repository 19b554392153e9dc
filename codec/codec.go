// Package codec turns cached values into bytes and back. Decoding always
// builds a new V, which is what keeps cached responses independent of the
// values callers hold.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Names accepted by ByName.
const (
	NameJSON    = "json"
	NameMsgpack = "msgpack"
	NameCBOR    = "cbor"
)

// ByName returns the codec registered under name. An empty name selects JSON.
func ByName[V any](name string) (Codec[V], error) {
	switch name {
	case "", NameJSON:
		return JSON[V]{}, nil
	case NameMsgpack:
		return Msgpack[V]{}, nil
	case NameCBOR:
		c, err := NewCBOR[V](false)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

package codec

import "encoding/json"

// JSON encodes values with encoding/json. Types with custom JSON marshalers
// (for example tri-state flags) keep their wire form.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

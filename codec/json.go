package codec

import "encoding/json"

// JSON is a plain encoding/json codec. Bigger files than CBOR or msgpack,
// but the snapshot stays inspectable with standard tools.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

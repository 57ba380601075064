// Package codec defines the serialization boundary between in-memory values
// and the bytes the snapshot store writes. Codecs must round-trip nested
// map/struct shapes; the snapshot file carries no schema of its own.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

package codec

import "fmt"

// Limit wraps another codec and rejects oversized payloads at Decode time;
// Encode passes through unchanged. A snapshot file is fully attacker-writable
// on a shared temp directory, so callers may want a ceiling before handing
// bytes to the inner decoder. MaxDecode <= 0 disables the check.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}

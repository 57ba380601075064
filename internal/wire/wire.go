// Package wire frames the snapshot file. The payload itself is opaque codec
// output; the frame exists so a truncated, foreign or stale-format file is
// rejected before the codec ever sees it.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindTable byte = 1
)

var (
	ErrCorrupt = errors.New("phrasecache: corrupt snapshot frame")
	magic4     = [...]byte{'P', 'H', 'R', 'S'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Frame: magic(4) | ver(1) | kind(1=table) | plen(u32 be) | payload(plen)
func Encode(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindTable)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode validates the frame and returns the payload. Trailing bytes after
// the declared length mean the file was not written whole and are rejected.
func Decode(b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindTable {
		return nil, ErrCorrupt
	}

	plen := int(binary.BigEndian.Uint32(b[6:10]))
	if plen < 0 || plen != len(b)-hdr { // overflow-safe exact-length check
		return nil, ErrCorrupt
	}
	return b[hdr:], nil
}

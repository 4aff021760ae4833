// Package wire frames remote-tier entries. Every stored value carries the
// namespace wipe version it was written under, so readers can reject entries
// that predate a whole-namespace invalidation without a bulk delete.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("tiercache: corrupt remote entry")
	magic4     = [...]byte{'T', 'I', 'E', 'R'}
)

const hdrLen = 4 + 1 + 8 + 4

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames payload as: magic(4) | ver(1) | stamp(u64 be) | vlen(u32 be) | payload.
func Encode(stamp uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], stamp)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode parses a framed entry. The payload slice aliases b (zero-copy).
// Trailing bytes beyond the announced length are treated as corruption.
func Decode(b []byte) (stamp uint64, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}

	off := 5

	stamp = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || off+vlen != len(b) { // exact-length check, overflow-safe
		return 0, nil, ErrCorrupt
	}

	return stamp, b[off : off+vlen], nil
}

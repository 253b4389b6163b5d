package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// HandleSize is the byte length of a handle on the wire.
const HandleSize = 16

// Handle is an opaque 128-bit reference to a sealed value held by the
// enclave. A zero handle means "unset".
type Handle struct {
	Hi uint64 `json:"hi"`
	Lo uint64 `json:"lo"`
}

// IsZero reports whether the handle is the unset sentinel.
func (h Handle) IsZero() bool {
	return h.Hi == 0 && h.Lo == 0
}

// Bytes returns the big-endian 16-byte encoding of the handle.
func (h Handle) Bytes() [HandleSize]byte {
	var out [HandleSize]byte
	binary.BigEndian.PutUint64(out[:8], h.Hi)
	binary.BigEndian.PutUint64(out[8:], h.Lo)
	return out
}

// String returns the lowercase hex encoding of the handle.
func (h Handle) String() string {
	b := h.Bytes()
	return hex.EncodeToString(b[:])
}

// HandleFromBytes decodes a 16-byte big-endian handle.
func HandleFromBytes(b []byte) (Handle, error) {
	if len(b) != HandleSize {
		return Handle{}, fmt.Errorf("handle must be %d bytes, got %d", HandleSize, len(b))
	}
	return Handle{
		Hi: binary.BigEndian.Uint64(b[:8]),
		Lo: binary.BigEndian.Uint64(b[8:]),
	}, nil
}

// ParseHandle decodes the hex string form produced by Handle.String.
func ParseHandle(s string) (Handle, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Handle{}, fmt.Errorf("invalid handle encoding: %w", err)
	}
	return HandleFromBytes(b)
}

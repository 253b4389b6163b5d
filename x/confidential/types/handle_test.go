package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veil-protocol/veil/x/confidential/types"
)

func TestHandleRoundTrip(t *testing.T) {
	h := types.Handle{Hi: 0xdeadbeef, Lo: 0xcafe}
	require.False(t, h.IsZero())

	b := h.Bytes()
	decoded, err := types.HandleFromBytes(b[:])
	require.NoError(t, err)
	require.Equal(t, h, decoded)

	parsed, err := types.ParseHandle(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestHandleZeroSentinel(t *testing.T) {
	require.True(t, types.Handle{}.IsZero())
	require.False(t, types.Handle{Lo: 1}.IsZero())
	require.False(t, types.Handle{Hi: 1}.IsZero())
}

func TestHandleFromBytesRejectsBadLength(t *testing.T) {
	_, err := types.HandleFromBytes([]byte{1, 2, 3})
	require.Error(t, err)

	_, err = types.ParseHandle("zznothex")
	require.Error(t, err)

	_, err = types.ParseHandle("abcd")
	require.Error(t, err)
}

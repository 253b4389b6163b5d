package types

import (
	ctypes "github.com/veil-protocol/veil/x/confidential/types"
)

// ParseResultHandle parses the hex form of an evaluation result handle and
// rejects the unset sentinel.
func ParseResultHandle(s string) (ctypes.Handle, error) {
	h, err := ctypes.ParseHandle(s)
	if err != nil {
		return ctypes.Handle{}, ErrInvalidHandle.Wrap(err.Error())
	}
	if h.IsZero() {
		return ctypes.Handle{}, ErrInvalidHandle.Wrap("zero handle")
	}
	return h, nil
}

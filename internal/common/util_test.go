package common

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	require.Len(t, buf, n)
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	const n = 32
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)
	if bytes.Equal(a, b) {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", n)
	}
}

func TestError_UnwrapsToKind(t *testing.T) {
	err := NewError(ErrorNotFound, "Password not found")
	wrapped := fmt.Errorf("get entry: %w", err)

	assert.True(t, errors.Is(wrapped, ErrorNotFound))
	assert.False(t, errors.Is(wrapped, ErrForbidden))

	var ce *Error
	require.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, "Password not found", ce.Message)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Passwords do not match")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Passwords do not match", err.Error())
}

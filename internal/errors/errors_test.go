package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantCategory Category
		wantSeverity Severity
	}{
		{name: "config invalid", code: ErrCodeConfigInvalid, wantCategory: CategoryConfig, wantSeverity: SeverityError},
		{name: "file not found", code: ErrCodeFileNotFound, wantCategory: CategoryIO, wantSeverity: SeverityWarning},
		{name: "decompression failed", code: ErrCodeDecompressionFailed, wantCategory: CategoryIO, wantSeverity: SeverityWarning},
		{name: "invalid text", code: ErrCodeInvalidText, wantCategory: CategoryIO, wantSeverity: SeverityWarning},
		{name: "store unavailable", code: ErrCodeStoreUnavailable, wantCategory: CategoryStore, wantSeverity: SeverityFatal},
		{name: "invalid input", code: ErrCodeInvalidInput, wantCategory: CategoryValidation, wantSeverity: SeverityError},
		{name: "internal", code: ErrCodeInternal, wantCategory: CategoryInternal, wantSeverity: SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantCategory, err.Category)
			assert.Equal(t, tt.wantSeverity, err.Severity)
			assert.Contains(t, err.Error(), tt.code)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(ErrCodeInternal, nil))
	})

	t.Run("wraps cause", func(t *testing.T) {
		cause := stderrors.New("disk on fire")
		err := Wrap(ErrCodeStoreUnavailable, cause)
		require.NotNil(t, err)
		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, cause)
	})
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeDecompressionFailed, "bad deflate stream", nil)
	b := New(ErrCodeDecompressionFailed, "different message", nil)
	c := New(ErrCodeInvalidText, "not utf-8", nil)

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)

	// Matching survives further wrapping with %w.
	wrapped := fmt.Errorf("parse %s: %w", "x.als", a)
	assert.ErrorIs(t, wrapped, b)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(stderrors.New("plain")))
	assert.False(t, IsFatal(New(ErrCodeDecompressionFailed, "per-file", nil)))
	assert.True(t, IsFatal(New(ErrCodeStoreUnavailable, "db gone", nil)))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeFileNotFound, "missing", nil).
		WithDetail("path", "/tmp/a.als").
		WithDetail("volume", "Samples SSD")

	assert.Equal(t, "/tmp/a.als", err.Details["path"])
	assert.Equal(t, "Samples SSD", err.Details["volume"])
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, GetCode(New(ErrCodeInternal, "x", nil)))
	assert.Equal(t, "", GetCode(stderrors.New("plain")))
}

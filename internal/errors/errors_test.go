package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("book %s not found", "book-1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, "book book-1 not found", err.Error())
}

func TestError_IsThroughFmtWrap(t *testing.T) {
	wrapped := fmt.Errorf("move book: %w", Validation("book is already on the shelf"))

	assert.True(t, Is(wrapped, ErrValidation))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeValidation, domainErr.Code)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeInternal, "save books")

	assert.Equal(t, "save books: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ErrInternal))
}

func TestSkinLocked_CarriesDetails(t *testing.T) {
	err := SkinLocked("spooky-1", map[string]int{"have": 2, "need": 5})

	assert.True(t, Is(err, ErrSkinLocked))
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus())
	assert.NotNil(t, err.Details)
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeForbidden, http.StatusForbidden},
		{CodeSkinLocked, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnavailable, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

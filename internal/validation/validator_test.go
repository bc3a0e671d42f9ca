package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/validation"
)

type testRequest struct {
	Username  string   `json:"username" validate:"required,max=50"`
	Languages []string `json:"languages" validate:"max=3,dive,language"`
	ISBN      string   `json:"isbn,omitempty" validate:"omitempty,isbn"`
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	return details
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{Username: "reader", Languages: []string{"en", "French", "pt-BR"}, ISBN: "9780441172719"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
		wantMsg   string
	}{
		{"missing username", testRequest{}, "username", "is required"},
		{"unknown language", testRequest{Username: "r", Languages: []string{"klingonese"}}, "languages[0]", "language"},
		{"too many languages", testRequest{Username: "r", Languages: []string{"en", "fr", "de", "es"}}, "languages", "items"},
		{"bad isbn", testRequest{Username: "r", ISBN: "12345"}, "isbn", "ISBN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			details := fieldErrors(t, err)
			assert.Contains(t, details[tt.wantField], tt.wantMsg)
		})
	}
}

func TestValidator_NewBook(t *testing.T) {
	v := validation.New()

	ok := domain.NewBook{Title: "Dune", Author: "Frank Herbert", Status: domain.StatusShelf, TotalPages: domain.IntPtr(412), Language: "English"}
	require.NoError(t, v.Validate(ok))

	bad := domain.NewBook{Status: "Attic", Rating: domain.IntPtr(9), CoverImageURL: "not a url"}
	details := fieldErrors(t, v.Validate(bad))
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "author")
	assert.Contains(t, details, "status")
	assert.Contains(t, details, "rating")
	assert.Contains(t, details, "coverImageUrl")
}

package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestData_StatusMatchesHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Data(rec, http.StatusCreated, map[string]int{"id": 9})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.EqualValues(t, 201, body["status"])
	assert.Equal(t, map[string]any{"id": float64(9)}, body["data"])
	assert.NotContains(t, body, "errors")
}

func TestInvalid_CarriesFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Invalid(rec, map[string]string{"size": "The size field is required."})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, map[string]any{"size": "The size field is required."}, body["errors"])
}

func TestFromError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("checkout: %w", apperr.Conflict("empty cart")), http.StatusBadRequest, "empty cart"},
		{apperr.New(apperr.KindBusy, "cart is busy, try again"), http.StatusConflict, "cart is busy, try again"},
		{apperr.Internal(errors.New("disk full")), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.FromError(context.Background(), rec, tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.message)
		assert.Equal(t, tc.message, decode(t, rec)["message"])
		assert.NotContains(t, rec.Body.String(), "disk full")
	}
}

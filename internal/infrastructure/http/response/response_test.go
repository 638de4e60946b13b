package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Types(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "not_found"},
		{http.StatusBadRequest, "bad_request"},
		{http.StatusConflict, "conflict"},
		{http.StatusBadGateway, "bad_gateway"},
		{http.StatusInternalServerError, "internal_server_error"},
		{http.StatusTeapot, "error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.status, errors.New("boom"))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":"`+tt.want+`","message":"boom"}`, rec.Body.String())
		})
	}
}

func TestDecode(t *testing.T) {
	type body struct {
		Page int `json:"page"`
	}

	t.Run("valid", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"page":3}`))
		require.NoError(t, Decode(r, &b, false))
		assert.Equal(t, 3, b.Page)
	})

	t.Run("empty_optional", func(t *testing.T) {
		b := body{Page: 7}
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		require.NoError(t, Decode(r, &b, true))
		assert.Equal(t, 7, b.Page)
	})

	t.Run("empty_required", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		assert.Error(t, Decode(r, &b, false))
	})

	t.Run("unknown_field", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"pages":3}`))
		assert.Error(t, Decode(r, &b, false))
	})
}

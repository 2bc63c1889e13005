package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pinit-down/internal/application"
	"github.com/oksasatya/pinit-down/pkg/helpers"
	"github.com/oksasatya/pinit-down/pkg/validation"
)

func init() { gin.SetMode(gin.TestMode) }

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"duplicate", application.ErrDuplicateEmail, http.StatusBadRequest, "User already exists"},
		{"credentials", application.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"verify token", application.ErrInvalidVerificationToken, http.StatusBadRequest, "Invalid or expired verification token"},
		{"reset token", application.ErrInvalidResetToken, http.StatusBadRequest, "Invalid or expired reset token"},
		{"user missing", application.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"verified", application.ErrAlreadyVerified, http.StatusBadRequest, "Email already verified"},
		{"no token", application.ErrMissingToken, http.StatusUnauthorized, "Access token required"},
		{"bad token", application.ErrInvalidToken, http.StatusForbidden, "Invalid or expired token"},
		{"bad id", application.ErrInvalidID, http.StatusBadRequest, "Invalid ID format"},
		{"wrapped not found", fmt.Errorf("delete: %w", application.ErrNotFound), http.StatusNotFound, "Item not found"},
		{"unmapped", errors.New("dial tcp 10.0.0.1: refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()
			writeError(c, helpers.DiscardLogger(), tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, decode(t, w)["error"])
			assert.True(t, c.IsAborted())
		})
	}
}

func TestWriteErrorValidation(t *testing.T) {
	c, w := newContext()
	writeError(c, helpers.DiscardLogger(), &validation.Error{Fields: []validation.FieldError{
		{Field: "email", Message: "must be a valid email"},
		{Field: "name", Message: "is required"},
	}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].([]any)
	require.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].(map[string]any)["field"])
}

func TestBadPayload(t *testing.T) {
	c, w := newContext()
	var body map[string]any
	badPayload(c, json.Unmarshal([]byte(`{"title":`), &body))

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "payload", errs[0].(map[string]any)["field"])
}

func TestHealthCheck(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c, w := newContext()
		NewHealthHandler(func(context.Context) error { return nil }, helpers.DiscardLogger()).Check(c)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decode(t, w)["status"])
	})

	t.Run("store down", func(t *testing.T) {
		c, w := newContext()
		NewHealthHandler(func(context.Context) error { return errors.New("no reachable servers") }, helpers.DiscardLogger()).Check(c)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unavailable", decode(t, w)["status"])
	})

	t.Run("no store", func(t *testing.T) {
		c, w := newContext()
		NewHealthHandler(nil, nil).Check(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

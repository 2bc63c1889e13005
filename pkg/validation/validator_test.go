package validation

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Name     string `json:"name" validate:"required,displayname"`
}

func TestStructCollectsEveryField(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "123", Name: "A"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	byField := map[string]string{}
	for _, f := range verr.Fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid email", byField["email"])
	assert.Equal(t, "must be at least 6 characters long", byField["password"])
	assert.Equal(t, "must be at least 2 characters long", byField["name"])
}

func TestStructPasses(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "a@b.co", Password: "secret1", Name: "Al"}))
}

func TestStructRequired(t *testing.T) {
	err := Struct(signup{})
	fields := ToDetails(err)
	require.Len(t, fields, 3)
	for _, f := range fields {
		assert.Equal(t, "is required", f.Message)
	}
}

func TestToDetailsInvalidJSON(t *testing.T) {
	var dst signup
	err := json.NewDecoder(strings.NewReader("{bad")).Decode(&dst)
	assert.Equal(t, []FieldError{{Field: "payload", Message: "invalid json"}}, ToDetails(err))

	assert.Equal(t, "invalid json", ToDetails(io.EOF)[0].Message)
	assert.Equal(t, "invalid payload", ToDetails(errors.New("boom"))[0].Message)
	assert.Nil(t, ToDetails(nil))
}

func TestErrorString(t *testing.T) {
	err := &Error{Fields: []FieldError{{Field: "email", Message: "is required"}}}
	assert.Equal(t, "validation failed: email is required", err.Error())
}

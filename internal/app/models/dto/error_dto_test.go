package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func TestHandleValidationErrorSingleField(t *testing.T) {
	err := validator.New().Struct(loginForm{Email: "nope", Password: "x"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Email", detail.Field)
	assert.Equal(t, "Email must be a valid email address", detail.Message)
}

func TestHandleValidationErrorManyFields(t *testing.T) {
	err := validator.New().Struct(loginForm{})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "Validation failed", detail.Message)
	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 2)
	assert.Equal(t, "Password is required", fields[1].Message)
}

func TestHandleValidationErrorNonValidator(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, "Invalid request format", detail.Message)
	assert.Equal(t, "unexpected EOF", detail.Details)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(NewErrorDetail(ErrorCodeConflict, "email already exists").WithField("email"))
	assert.False(t, resp.Success)
	assert.Equal(t, "email", resp.Error.Field)
	assert.Equal(t, ErrorSeverityError, resp.Error.Severity)
	assert.False(t, resp.Timestamp.IsZero())
}

package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	require.NoError(t, ValidateStruct(v, signup{Username: "alice_01", Email: "alice@gmail.com"}))

	err := ValidateStruct(v, signup{Username: "bad name!", Email: "alice@gmail.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var apiErr *apperr.APIError
	require.True(t, errors.As(err, &apiErr))
	details, ok := apiErr.Details.([]ValidationError)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "username", details[0].Field)
	assert.Equal(t, "username may contain only letters, digits and underscores", apiErr.Message)
}

func TestValidateStructMinLength(t *testing.T) {
	err := ValidateStruct(NewValidator(), signup{Username: "al", Email: "nope"})

	var apiErr *apperr.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.([]ValidationError)
	require.Len(t, details, 2)
	assert.Equal(t, "min", details[0].Tag)
	assert.Equal(t, "email", details[1].Tag)
}

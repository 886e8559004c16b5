package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	err := Required("user_id")
	assert.Equal(t, "user_id is required", err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
}

func TestValidationWithField(t *testing.T) {
	err := Validation("email", "already exists")
	assert.Equal(t, "email: already exists", err.Error())
}

func TestNotFoundSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("get problem: %w", NotFound("problem", 42))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "get problem: problem 42 not found", err.Error())
	assert.Equal(t, "user not found", NotFound("user", 0).Error())
}

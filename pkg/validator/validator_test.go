package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type contact struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"required,email"`
	Notes string `json:"-" validate:"max=3"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := New().Validate(&contact{Email: "not-an-email"})

	assert.EqualError(t, err, "name is required; email must be a valid email")
}

func TestValidateFallsBackToFieldName(t *testing.T) {
	err := New().Validate(contact{Name: "Ana", Email: "ana@example.com", Notes: "long"})

	assert.EqualError(t, err, "Notes must not exceed 3 characters")
}

func TestValidatePasses(t *testing.T) {
	assert.NoError(t, New().Validate(contact{Name: "Ana", Email: "ana@example.com"}))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct_KeysByJSONName(t *testing.T) {
	type payload struct {
		ContactName  string `json:"contact_name" validate:"required"`
		ContactEmail string `json:"contact_email,omitempty" validate:"required,email"`
		Untagged     string `validate:"required"`
	}

	errs := ValidateStruct(payload{ContactEmail: "not-an-email"})

	assert.Contains(t, errs, "contact_name")
	assert.Contains(t, errs, "contact_email")
	assert.Contains(t, errs, "Untagged")
	assert.NotContains(t, errs, "ContactName")
	assert.Equal(t, "This field is required", errs["contact_name"])
	assert.Equal(t, "Invalid email format", errs["contact_email"])
}

func TestValidateStruct_Valid(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	errs := ValidateStruct(payload{Email: "rahul@example.com"})

	assert.Nil(t, errs)
}

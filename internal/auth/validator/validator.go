// Package validator registers auth-specific validation rules.
package validator

import (
	"unicode"

	platformvalidator "github.com/BollineniRohith123/GharintoLeap-sub004/platform/validator"

	"github.com/go-playground/validator/v10"
)

// PasswordPolicy describes the password requirements for API error messages.
const PasswordPolicy = "password must be at least 8 characters and include an uppercase letter, a lowercase letter, a digit and a special character"

// Register adds the strongpassword rule to the shared validator instance.
// Called once during auth module construction.
func Register(v *platformvalidator.Validator) error {
	return v.RegisterValidation("strongpassword", validateStrongPassword)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range pw {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}

package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var mobilePattern = regexp.MustCompile(`^\d{10,15}$`)

// NewValidator returns a validator with the custom rules used by the request
// structs registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mobile", validateMobile)
	return v
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(fl.Field().String())
}

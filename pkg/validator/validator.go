package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phone numbers arrive in local or E.164 form; be permissive
var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// RegisterRules adds the platform's custom rules to an existing validator,
// typically gin's binding engine.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		return phonePattern.MatchString(s)
	})
}

// New returns a standalone validator with the custom rules registered.
func New() (*validator.Validate, error) {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		return nil, err
	}
	return v, nil
}

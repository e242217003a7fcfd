package validation

import (
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations — единая точка регистрации кастомных правил валидации.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)
	return nil
}

package store

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/limbo/logbook/pkg/datekey"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
			_, err := datekey.Parse(fl.Field().String())
			return err == nil
		})
	})
}

// ValidationError marks a rejected mutation: the caller's input was bad,
// nothing was changed, and the message is safe to show the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			parts = append(parts, fieldErr.Field()+" failed on "+fieldErr.Tag())
		}
		return &ValidationError{Msg: "validation error: " + strings.Join(parts, "; ")}
	}
	return err
}

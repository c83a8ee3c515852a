package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("game_word", validateGameWord)
}

func GetValidator() *validator.Validate {
	return validate
}

// validateGameWord accepts a-z letters and spaces only, 3-30 characters
// after trimming. The guess alphabet is a-z, so the word has to be too.
func validateGameWord(fl validator.FieldLevel) bool {
	word := strings.TrimSpace(fl.Field().String())

	if len(word) < 3 || len(word) > 30 {
		return false
	}

	for _, char := range word {
		isLetter := (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
		if !isLetter && char != ' ' {
			return false
		}
	}

	return true
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param() + " characters"
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			case "game_word":
				message = fieldError.Field() + " must be 3-30 characters, letters and spaces only"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

package validator

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validateFaceLabel accepts labels that are safe to use as a file or object
// name: no path separators, no leading dot, no control characters.
func validateFaceLabel(fl validator.FieldLevel) bool {
	label := fl.Field().String()
	if label == "" || strings.HasPrefix(label, ".") {
		return false
	}
	if strings.ContainsAny(label, `/\`) {
		return false
	}
	if strings.TrimSpace(label) != label {
		return false
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

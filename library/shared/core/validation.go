package core

import "strings"

// RequireNonBlank returns a ValidationError naming the field if value is empty or whitespace only.
func RequireNonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError(field + " is required")
	}

	return nil
}

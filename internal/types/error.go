package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error body returned by the submission endpoint on rejection.
//
// Clients only surface Message, so it has to read well on its own.
type Error struct {
	Fields  map[string]string `json:"fields,omitempty"`
	Message string            `json:"message"`
}

func StringError(err string) Error {
	return Error{Message: err}
}

func ValidationError(err error) Error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Error{Message: "validation error"}
	}

	fields := make(map[string]string, len(validationErrors))
	names := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = fmt.Sprintf("failed check: %s", fieldError.Tag())
		names = append(names, fieldError.Field())
	}
	sort.Strings(names)

	return Error{
		Message: "invalid " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

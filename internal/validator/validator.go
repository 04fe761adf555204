package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Echo compatible validator reporting fields by their wire names
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// Field names come from the first of the `form`, `json` or `mapstructure`
// tags, so multipart fields, JSON bodies and config keys all report the name
// the user actually typed.
func Create() CustomValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json", "mapstructure"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			switch name {
			case "":
				continue
			case "-":
				return ""
			default:
				return name
			}
		}
		return field.Name
	})

	return CustomValidator{validator: validate}
}

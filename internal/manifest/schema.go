package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var Schema = jsonschema.MustCompileString("schema.json", schemaJSON)

// Schema violations keyed by the JSON pointer of the offending value
type SchemaError struct {
	Fields map[string]string
}

func (e *SchemaError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "manifest failed to validate: " + strings.Join(parts, "; ")
}

func validateSchema(data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	err := Schema.Validate(doc)
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		errs := validationErr.BasicOutput().Errors
		fields := make(map[string]string, len(errs))
		for _, e := range errs {
			// the root entry only says the document did not validate
			if e.KeywordLocation == "" && len(errs) > 1 {
				continue
			}
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			fields[loc] = e.Error
		}
		return &SchemaError{Fields: fields}
	} else if err != nil {
		return fmt.Errorf("failed to validate manifest: %w", err)
	}

	return nil
}

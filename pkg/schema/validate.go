package schema

import "sort"

// Schema pins the expected shape of one option fragment: field names mapped
// to their types.
// Example: {"os": String(), "cpu_count": Int(), "tags": Slice(String())}
type Schema map[string]Type

// Validate checks that fragment conforms to the schema: every schema field
// must be present and must validate against its type. Fields the schema does
// not name are ignored, so schemas can pin only what consumers rely on.
// All failures are collected into one *AggregateError, in field order.
func Validate(schema Schema, fragment map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	fields := make([]string, 0, len(schema))
	for fieldName := range schema {
		fields = append(fields, fieldName)
	}
	sort.Strings(fields)

	var errs []error

	for _, fieldName := range fields {
		fieldType := schema[fieldName]
		value, exists := fragment[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

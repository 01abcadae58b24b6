package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"url": String(), "number": Number(), "nextUrl": Optional(String())}
type Schema map[string]Type

// Fields returns the field names in sorted order.
func (s Schema) Fields() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Required returns the names of the fields that are not optional, sorted.
func (s Schema) Required() []string {
	var keys []string
	for _, k := range s.Fields() {
		if !IsOptional(s[k]) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Validate checks if data conforms to the schema.
// Every field is checked; the returned *AggregateError lists the failures
// ordered by field name. Keys of data that the schema does not declare are
// ignored.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	var errs []error
	for _, fieldName := range schema.Fields() {
		if err := validateField(fieldName, schema[fieldName], data); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateFields validates only specific fields from data against the schema.
// Naming a field the schema does not declare is an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error
	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}
		if err := validateField(fieldName, fieldType, data); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func validateField(name string, typ Type, data map[string]any) *ValidationError {
	value, exists := data[name]
	if !exists {
		if IsOptional(typ) {
			return nil
		}
		return &ValidationError{
			Key:      name,
			Expected: typ.Name(),
			Reason:   "required",
		}
	}

	if err := typ.Validate(value); err != nil {
		return &ValidationError{
			Key:      name,
			Expected: typ.Name(),
			Reason:   err.Error(),
			Value:    value,
		}
	}
	return nil
}

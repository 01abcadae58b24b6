package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "number").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return fmt.Errorf("expected int, got %q", v.String())
		}
		return nil
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// NumberType validates any finite numeric value, integer or floating point.
// NaN and infinities are rejected; numeric strings are not coerced.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float32:
		return checkFinite(float64(v))
	case float64:
		return checkFinite(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fmt.Errorf("expected number, got %q", v.String())
		}
		return checkFinite(f)
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("expected finite number, got %v", v)
	}
	return nil
}

// FloatType validates floating-point values. Integers are accepted.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float32:
		return checkFinite(float64(v))
	case float64:
		return checkFinite(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fmt.Errorf("expected float, got %q", v.String())
		}
		return checkFinite(f)
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// OptionalType marks a field that may be absent.
// A present value, including an explicit null, must match the inner type.
type OptionalType struct {
	inner Type
}

func (t *OptionalType) Name() string { return t.inner.Name() + "?" }

func (t *OptionalType) Validate(value any) error {
	return t.inner.Validate(value)
}

// Inner returns the wrapped type.
func (t *OptionalType) Inner() Type { return t.inner }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Number creates a numeric type validator.
func Number() Type { return &NumberType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Optional allows the field to be absent. Wrapping twice is a no-op.
func Optional(t Type) Type {
	if IsOptional(t) {
		return t
	}
	return &OptionalType{inner: t}
}

// IsOptional reports whether a field of type t may be absent.
func IsOptional(t Type) bool {
	_, ok := t.(*OptionalType)
	return ok
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// Date accepts YAML timestamps and strings in RFC 3339 or "2006-01-02" form.
func Date() Type {
	return Custom("date", func(value any) error {
		switch v := value.(type) {
		case time.Time:
			return nil
		case string:
			if _, err := time.Parse(time.DateOnly, v); err == nil {
				return nil
			}
			if _, err := time.Parse(time.RFC3339, v); err == nil {
				return nil
			}
			return fmt.Errorf("expected date, got %q", v)
		default:
			return fmt.Errorf("expected date, got %T", value)
		}
	})
}

// ParseType converts a type string to a Type.
// Supports "string", "int", "number", "float", "bool", "date", slices such
// as "[string]" and the optional suffix, as in "string?".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if inner, ok := strings.CutSuffix(typeStr, "?"); ok {
		t, err := ParseType(inner)
		if err != nil {
			return nil, err
		}
		if IsOptional(t) {
			return nil, fmt.Errorf("unsupported type: %s", typeStr)
		}
		return Optional(t), nil
	}

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "number":
		return Number(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "date":
		return Date(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"url": "string", "nextUrl": "string?", "number": "number"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema, len(typeMap))
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}

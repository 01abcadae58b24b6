package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func docsSchema() Schema {
	return Schema{
		"url":         String(),
		"nextUrl":     Optional(String()),
		"previousUrl": Optional(String()),
		"number":      Number(),
		"title":       String(),
		"description": String(),
		"icon":        String(),
	}
}

func validDoc() map[string]any {
	return map[string]any{
		"url":         "/docs/intro",
		"number":      1,
		"title":       "Intro",
		"description": "Getting started",
		"icon":        "book",
	}
}

func TestValidate_Success(t *testing.T) {
	if err := Validate(docsSchema(), validDoc()); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_OptionalPresent(t *testing.T) {
	data := validDoc()
	data["previousUrl"] = "/a"
	data["nextUrl"] = "/b"

	if err := Validate(docsSchema(), data); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_UnknownKeysIgnored(t *testing.T) {
	data := validDoc()
	data["draft"] = true
	data["slug"] = "custom"

	if err := Validate(docsSchema(), data); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	for _, field := range []string{"url", "number", "title", "description", "icon"} {
		t.Run(field, func(t *testing.T) {
			data := validDoc()
			delete(data, field)

			err := Validate(docsSchema(), data)
			if err == nil {
				t.Fatal("Validate() should return error for missing field")
			}

			errs := ValidationErrors(err)
			if len(errs) != 1 {
				t.Fatalf("Validate() = %d errors, want 1", len(errs))
			}
			if errs[0].Key != field {
				t.Errorf("error Key = %q, want %q", errs[0].Key, field)
			}
			if errs[0].Reason != "required" {
				t.Errorf("error Reason = %q, want required", errs[0].Reason)
			}
			if errs[0].Expected == "" {
				t.Error("error should name the expected type")
			}
		})
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	data := validDoc()
	data["number"] = "1"

	err := Validate(docsSchema(), data)
	if err == nil {
		t.Fatal("Validate() should return error for type mismatch")
	}

	var aggr *AggregateError
	if !errors.As(err, &aggr) {
		t.Fatalf("error should be *AggregateError, got %T", err)
	}

	var fieldErr *ValidationError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("errors.As should reach the *ValidationError")
	}
	if fieldErr.Key != "number" || fieldErr.Expected != "number" {
		t.Errorf("got Key=%q Expected=%q, want number/number", fieldErr.Key, fieldErr.Expected)
	}
	if !strings.Contains(err.Error(), `field "number" (number)`) {
		t.Errorf("Error() = %q, should name the field and expected type", err.Error())
	}
}

func TestValidate_OptionalWrongType(t *testing.T) {
	data := validDoc()
	data["nextUrl"] = 42
	data["previousUrl"] = nil

	err := Validate(docsSchema(), data)
	if err == nil {
		t.Fatal("Validate() should fail for mistyped optional fields")
	}

	got := FailedFields(err)
	want := []string{"nextUrl", "previousUrl"}
	if len(got) != len(want) {
		t.Fatalf("FailedFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FailedFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidate_MultipleErrorsAreOrdered(t *testing.T) {
	err := Validate(docsSchema(), map[string]any{"number": "x"})
	if err == nil {
		t.Fatal("Validate() should return error")
	}

	got := FailedFields(err)
	want := []string{"description", "icon", "number", "title", "url"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("FailedFields() = %v, want %v", got, want)
	}
	if !strings.HasPrefix(err.Error(), "5 validation errors") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	if err := Validate(Schema{}, map[string]any{"any": "thing"}); err != nil {
		t.Errorf("Validate() with empty schema should pass, got %v", err)
	}
}

func TestValidateFields(t *testing.T) {
	s := docsSchema()
	data := map[string]any{"url": "/x", "title": 3}

	if err := ValidateFields(s, data, "url"); err != nil {
		t.Errorf("ValidateFields(url) error = %v", err)
	}
	if err := ValidateFields(s, data, "nextUrl"); err != nil {
		t.Errorf("ValidateFields(nextUrl) error = %v, absent optional is unset", err)
	}

	err := ValidateFields(s, data, "title", "unknown")
	if got := FailedFields(err); strings.Join(got, ",") != "title,unknown" {
		t.Errorf("FailedFields() = %v, want [title unknown]", got)
	}
}

func TestValidationErrors_NonAggregate(t *testing.T) {
	if errs := ValidationErrors(errors.New("boom")); errs != nil {
		t.Errorf("ValidationErrors() = %v, want nil", errs)
	}
	if errs := ValidationErrors(nil); errs != nil {
		t.Errorf("ValidationErrors(nil) = %v, want nil", errs)
	}
}

func TestSchema_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(docsSchema())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"nextUrl":"string?"`) {
		t.Errorf("Marshal() = %s, optional fields should carry the ? suffix", data)
	}

	var restored Schema
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := Validate(restored, validDoc()); err != nil {
		t.Errorf("restored schema rejected a valid document: %v", err)
	}
	if !IsOptional(restored["previousUrl"]) {
		t.Error("previousUrl should stay optional")
	}

	if err := json.Unmarshal([]byte(`{"url": 1}`), &restored); err == nil {
		t.Error("Unmarshal() should reject non-string type names")
	}
}

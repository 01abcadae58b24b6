package collection

import (
	"fmt"
	"strings"

	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/ports"
	"github.com/aretw0/docu/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// DocuName is the name of the documentation collection.
const DocuName = "docu"

// Definition describes one content collection.
type Definition struct {
	Name   string
	Source ports.DocumentSource
	Schema schema.Schema
}

// Docu returns the definition of the docu collection rooted at base.
func Docu(base string) Definition {
	return Definition{
		Name:   DocuName,
		Source: NewGlobLoader(base, DefaultPattern),
		Schema: DocuSchema(),
	}
}

// DocuSchema is the front-matter schema of the docu collection.
func DocuSchema() schema.Schema {
	return schema.Schema{
		domain.FieldURL:         schema.String(),
		domain.FieldNextURL:     schema.Optional(schema.String()),
		domain.FieldPreviousURL: schema.Optional(schema.String()),
		domain.FieldNumber:      schema.Number(),
		domain.FieldTitle:       schema.String(),
		domain.FieldDescription: schema.String(),
		domain.FieldIcon:        schema.String(),
	}
}

// CheckSchema reports a schema that redeclares a Document field with a type
// Decode cannot convert. Fields unknown to Document may use any type.
func CheckSchema(s schema.Schema) error {
	docu := DocuSchema()
	for _, name := range s.Fields() {
		want, ok := docu[name]
		if !ok {
			continue
		}
		got := baseType(s[name])
		if got == baseType(want) || (name == domain.FieldNumber && (got == "int" || got == "float")) {
			continue
		}
		return fmt.Errorf("field %s: type %s does not match the document field type %s", name, got, baseType(want))
	}
	return nil
}

func baseType(t schema.Type) string {
	return strings.TrimSuffix(t.Name(), "?")
}

// splitFields keeps the front-matter keys declared by s. Keys Document
// models go to declared; the rest go to extra, which is nil when empty.
func splitFields(s schema.Schema, data map[string]any) (declared, extra map[string]any) {
	docu := DocuSchema()
	declared = make(map[string]any, len(s))
	for name := range s {
		v, ok := data[name]
		if !ok {
			continue
		}
		if _, modelled := docu[name]; modelled {
			declared[name] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[name] = v
	}
	return declared, extra
}

// rawDocument mirrors domain.Document with pointers for the optional fields.
type rawDocument struct {
	URL         string  `mapstructure:"url"`
	NextURL     *string `mapstructure:"nextUrl"`
	PreviousURL *string `mapstructure:"previousUrl"`
	Number      float64 `mapstructure:"number"`
	Title       string  `mapstructure:"title"`
	Description string  `mapstructure:"description"`
	Icon        string  `mapstructure:"icon"`
}

// Decode turns validated front-matter into a Document.
// Callers must run schema.Validate first; Decode does not check types.
func Decode(data map[string]any) (domain.Document, error) {
	var raw rawDocument
	if err := mapstructure.Decode(data, &raw); err != nil {
		return domain.Document{}, fmt.Errorf("decode document: %w", err)
	}

	doc := domain.Document{
		URL:         raw.URL,
		Number:      raw.Number,
		Title:       raw.Title,
		Description: raw.Description,
		Icon:        raw.Icon,
	}
	if raw.NextURL != nil {
		doc.NextURL = domain.Present(*raw.NextURL)
	}
	if raw.PreviousURL != nil {
		doc.PreviousURL = domain.Present(*raw.PreviousURL)
	}
	return doc, nil
}

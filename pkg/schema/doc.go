// Package schema describes and validates the front-matter of content documents.
//
// A Schema maps field names to types. Fields are required unless wrapped in
// Optional, in which case an absent field is treated as unset:
//
//	docs := schema.Schema{
//	    "url":     schema.String(),
//	    "nextUrl": schema.Optional(schema.String()),
//	    "number":  schema.Number(),
//	}
//
//	err := schema.Validate(docs, frontMatter)
//	for _, fieldErr := range schema.ValidationErrors(err) {
//	    // each failure names the field and the expected type
//	}
//
// Schemas can also be declared as type strings, where a trailing "?" marks an
// optional field:
//
//	docs, err := schema.ParseTypeMap(map[string]string{
//	    "url":     "string",
//	    "nextUrl": "string?",
//	    "number":  "number",
//	})
//
// Unknown keys in the validated data are ignored.
package schema

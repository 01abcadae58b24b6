package collection

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/docu/pkg/schema"
)

// IssueKind classifies why a document was not admitted.
type IssueKind string

const (
	IssueRead      IssueKind = "read"      // the file could not be read
	IssueParse     IssueKind = "parse"     // the front-matter is not valid YAML
	IssueInvalid   IssueKind = "invalid"   // the front-matter does not satisfy the schema
	IssueDuplicate IssueKind = "duplicate" // another document already holds the ID
)

// Issue describes one document rejected while building a collection.
type Issue struct {
	Collection string
	FilePath   string
	ID         string
	Kind       IssueKind
	Err        error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", i.Collection, i.FilePath, i.Kind, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

type issueField struct {
	Key      string `json:"key"`
	Expected string `json:"expected,omitempty"`
	Reason   string `json:"reason"`
}

// MarshalJSON flattens the underlying error and its field failures.
func (i Issue) MarshalJSON() ([]byte, error) {
	out := struct {
		Collection string       `json:"collection"`
		FilePath   string       `json:"filePath"`
		ID         string       `json:"id,omitempty"`
		Kind       IssueKind    `json:"kind"`
		Message    string       `json:"message"`
		Fields     []issueField `json:"fields,omitempty"`
	}{
		Collection: i.Collection,
		FilePath:   i.FilePath,
		ID:         i.ID,
		Kind:       i.Kind,
	}
	if i.Err != nil {
		out.Message = i.Err.Error()
	}
	for _, fe := range schema.ValidationErrors(i.Err) {
		out.Fields = append(out.Fields, issueField{Key: fe.Key, Expected: fe.Expected, Reason: fe.Reason})
	}
	return json.Marshal(out)
}

// BuildError aborts a fail-fast build.
type BuildError struct {
	Issue Issue
}

func (e *BuildError) Error() string {
	return "build aborted: " + e.Issue.Error()
}

func (e *BuildError) Unwrap() error { return e.Issue }

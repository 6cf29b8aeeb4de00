package snapshot

import (
	"errors"
	"fmt"
)

// Code classifies a skipped field or record. None of them is fatal.
type Code string

const (
	CodeMissingFile       Code = "missing_file"
	CodeMalformedDocument Code = "malformed_document"
	CodeTypeMismatch      Code = "type_mismatch"
	CodeUnresolvedName    Code = "unresolved_name"
	CodeUnmatchedField    Code = "unmatched_field"
	CodeDeniedField       Code = "denied_field"
	CodeUnclassifiedField Code = "unclassified_field"
	CodeEncodeFailed      Code = "encode_failed"
)

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrUnresolvedName = errors.New("unresolved name")
	ErrUnclassified   = errors.New("unclassified field type")
)

// Issue records one thing that was skipped.
type Issue struct {
	Code    Code
	Record  int // -1 when not tied to a record
	Entity  string
	Field   string
	Message string
}

func (i Issue) String() string {
	location := i.Entity
	if i.Field != "" {
		if location != "" {
			location += "."
		}
		location += i.Field
	}
	if i.Record >= 0 {
		location = fmt.Sprintf("item %d %s", i.Record, location)
	}
	if location == "" {
		return fmt.Sprintf("%s (%s)", i.Message, i.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", location, i.Message, i.Code)
}

// Report is the outcome of applying a document onto one target.
type Report struct {
	Target  string
	Records int
	Applied []string
	Issues  []Issue
}

func (r *Report) Count(code Code) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}

func (r *Report) addApplied(name string) {
	for _, existing := range r.Applied {
		if existing == name {
			return
		}
	}
	r.Applied = append(r.Applied, name)
}

// codeFor maps resolver errors onto report codes.
func codeFor(err error) Code {
	switch {
	case errors.Is(err, ErrUnresolvedName):
		return CodeUnresolvedName
	case errors.Is(err, ErrUnclassified):
		return CodeUnclassifiedField
	default:
		return CodeTypeMismatch
	}
}

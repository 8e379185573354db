package parser

import "errors"

// ErrMissingElement reports a source document lacking an expected element.
var ErrMissingElement = errors.New("missing element")

// Translatable field roles of an entry, in export order.
const (
	FieldDefault = "DefaultText"
	FieldFemale  = "FemaleText"
)

// Fields lists the translatable fields of every entry, in export order.
var Fields = []string{FieldDefault, FieldFemale}

// Parser is the interface for localization file parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse reads a localization document.
	Parse(filePath string) (*Document, error)
}

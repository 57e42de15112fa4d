// Package format holds the import parsers and export renderers that translate
// between external files and synonym records.
package format

import (
	"io"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// Options are the per-run parser settings. Parsers that do not use a field
// ignore it.
type Options struct {
	Delimiter string
	Enclosure string // empty means fields are never enclosed
	HeaderRow bool
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{Delimiter: ";", Enclosure: `"`}
}

// RawItem is one (word, synonym) pair as read from a source file.
type RawItem struct {
	Word    string
	Synonym string
}

// ParseWarning reports a source row that was skipped. Line is 1-based.
type ParseWarning struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ParseResult is what a parser extracted from one source.
type ParseResult struct {
	Items    []RawItem
	Warnings []ParseWarning
}

func (r *ParseResult) warn(line int, reason string) {
	r.Warnings = append(r.Warnings, ParseWarning{Line: line, Reason: reason})
}

func newParseResult() *ParseResult {
	return &ParseResult{Items: []RawItem{}}
}

// Parser turns a source file into raw pairs.
type Parser interface {
	ID() string
	Label() string
	// Extensions lists the file extensions the parser expects, without dots.
	Extensions() []string
	// ValidateOptions returns a *domain.ValidationError naming every
	// unsupported option.
	ValidateOptions(opts Options) error
	// Parse returns a *domain.ParseError when the source as a whole is
	// unreadable. Individual bad rows become warnings.
	Parse(r io.Reader, opts Options) (*ParseResult, error)
}

// Renderer turns records into an export payload. Render is pure and keeps
// the input order.
type Renderer interface {
	ID() string
	Label() string
	ContentType() string
	Render(records []domain.Synonym) ([]byte, error)
}

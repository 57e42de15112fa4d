package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// pairRecord is the element schema shared by the JSON and YAML formats.
type pairRecord struct {
	Word    *string `json:"word"    yaml:"word"`
	Synonym *string `json:"synonym" yaml:"synonym"`
}

// check returns the pair or the reason it must be skipped.
func (p pairRecord) check() (RawItem, string) {
	if p.Word == nil || strings.TrimSpace(*p.Word) == "" {
		return RawItem{}, "missing word"
	}
	if p.Synonym == nil || strings.TrimSpace(*p.Synonym) == "" {
		return RawItem{}, "missing synonym"
	}
	return RawItem{Word: *p.Word, Synonym: *p.Synonym}, ""
}

// JSONParser reads a top-level array of {"word": ..., "synonym": ...} objects.
type JSONParser struct{}

func (JSONParser) ID() string                    { return "json" }
func (JSONParser) Label() string                 { return "JSON" }
func (JSONParser) Extensions() []string          { return []string{"json"} }
func (JSONParser) ValidateOptions(Options) error { return nil }

func (JSONParser) Parse(r io.Reader, _ Options) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.ParseError{Reason: "read failed", Err: err}
	}
	res := newParseResult()
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}

	lineAt := func(offset int64) int {
		if offset > int64(len(data)) {
			offset = int64(len(data))
		}
		return bytes.Count(data[:offset], []byte("\n")) + 1
	}

	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, jsonParseError(err, lineAt)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return nil, &domain.ParseError{Line: 1, Reason: "root must be an array"}
	}

	for decoder.More() {
		before := decoder.InputOffset()
		line := lineAt(skipSeparators(data, before))

		var rec pairRecord
		if err := decoder.Decode(&rec); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				res.warn(line, "element is not a word/synonym object")
				continue
			}
			// Offsets of errors raised inside Decode are relative to the element.
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, &domain.ParseError{Line: lineAt(before + syntaxErr.Offset), Reason: "invalid JSON", Err: err}
			}
			return nil, jsonParseError(err, lineAt)
		}

		item, reason := rec.check()
		if reason != "" {
			res.warn(line, reason)
			continue
		}
		res.Items = append(res.Items, item)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, jsonParseError(err, lineAt)
	}

	return res, nil
}

func jsonParseError(err error, lineAt func(int64) int) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &domain.ParseError{Line: lineAt(syntaxErr.Offset), Reason: "invalid JSON", Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &domain.ParseError{Reason: "unexpected end of input", Err: err}
	}
	return &domain.ParseError{Reason: fmt.Sprintf("decode: %v", err)}
}

// skipSeparators returns the offset of the first byte at or after off that
// is neither whitespace nor an element separator.
func skipSeparators(data []byte, off int64) int64 {
	for off < int64(len(data)) {
		switch data[off] {
		case ' ', '\t', '\r', '\n', ',':
			off++
		default:
			return off
		}
	}
	return off
}

package format

import (
	"bytes"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// YAMLParser reads a sequence of {word, synonym} mappings. Several documents
// in one stream are concatenated.
type YAMLParser struct{}

func (YAMLParser) ID() string                    { return "yaml" }
func (YAMLParser) Label() string                 { return "YAML" }
func (YAMLParser) Extensions() []string          { return []string{"yaml", "yml"} }
func (YAMLParser) ValidateOptions(Options) error { return nil }

func (YAMLParser) Parse(r io.Reader, _ Options) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.ParseError{Reason: "read failed", Err: err}
	}
	res := newParseResult()
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}

	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, &domain.ParseError{Reason: "invalid YAML", Err: err}
	}

	for _, doc := range file.Docs {
		switch body := doc.Body.(type) {
		case nil, *ast.NullNode:
			continue
		case *ast.SequenceNode:
			for _, node := range body.Values {
				line := nodeLine(node)

				var rec pairRecord
				if err := yaml.NodeToValue(node, &rec); err != nil {
					res.warn(line, "element is not a word/synonym mapping")
					continue
				}
				item, reason := rec.check()
				if reason != "" {
					res.warn(line, reason)
					continue
				}
				res.Items = append(res.Items, item)
			}
		default:
			return nil, &domain.ParseError{Line: nodeLine(body), Reason: "root must be a sequence"}
		}
	}

	return res, nil
}

func nodeLine(n ast.Node) int {
	if n == nil {
		return 0
	}
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return 0
	}
	return tk.Position.Line
}

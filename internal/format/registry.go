package format

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

var parsers = map[string]func() Parser{
	"csv":  func() Parser { return CSVParser{} },
	"json": func() Parser { return JSONParser{} },
	"yaml": func() Parser { return YAMLParser{} },
}

var renderers = map[string]func() Renderer{
	"solr": func() Renderer { return SolrRenderer{} },
	"csv":  func() Renderer { return CSVRenderer{} },
	"json": func() Renderer { return JSONRenderer{} },
	"yaml": func() Renderer { return YAMLRenderer{} },
}

// NewParser returns the parser registered under id.
func NewParser(id string) (Parser, error) {
	ctor, ok := parsers[id]
	if !ok {
		return nil, &domain.UnknownPluginError{ID: id, Known: ParserIDs()}
	}
	return ctor(), nil
}

// NewRenderer returns the renderer registered under id.
func NewRenderer(id string) (Renderer, error) {
	ctor, ok := renderers[id]
	if !ok {
		return nil, &domain.UnknownPluginError{ID: id, Known: RendererIDs()}
	}
	return ctor(), nil
}

// HasRenderer checks if id names a registered renderer.
func HasRenderer(id string) bool {
	_, ok := renderers[id]
	return ok
}

// ParserIDs returns the registered parser ids, sorted.
func ParserIDs() []string { return sortedKeys(parsers) }

// RendererIDs returns the registered renderer ids, sorted.
func RendererIDs() []string { return sortedKeys(renderers) }

// ExtensionAllowed reports whether filename carries one of the extensions
// the parser expects. Comparison ignores case.
func ExtensionAllowed(p Parser, filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return slices.Contains(p.Extensions(), ext)
}

func sortedKeys[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

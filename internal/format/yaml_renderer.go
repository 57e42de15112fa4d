package format

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

type yamlRecord struct {
	Word     string   `yaml:"word"`
	Synonyms []string `yaml:"synonyms"`
	Type     string   `yaml:"type"`
	Language string   `yaml:"language"`
}

// YAMLRenderer writes whole records rather than pairs.
type YAMLRenderer struct{}

func (YAMLRenderer) ID() string          { return "yaml" }
func (YAMLRenderer) Label() string       { return "YAML" }
func (YAMLRenderer) ContentType() string { return "application/yaml" }

func (YAMLRenderer) Render(records []domain.Synonym) ([]byte, error) {
	out := make([]yamlRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, yamlRecord{
			Word:     rec.Word,
			Synonyms: rec.Synonyms,
			Type:     rec.Type.String(),
			Language: rec.Language,
		})
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return data, nil
}

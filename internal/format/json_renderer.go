package format

import (
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

type pairOut struct {
	Word    string `json:"word"`
	Synonym string `json:"synonym"`
}

// JSONRenderer writes the JSON import schema, so an export can be imported
// back unchanged.
type JSONRenderer struct{}

func (JSONRenderer) ID() string          { return "json" }
func (JSONRenderer) Label() string       { return "JSON" }
func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(records []domain.Synonym) ([]byte, error) {
	out := make([]pairOut, 0, len(records))
	for _, rec := range records {
		for _, s := range rec.Synonyms {
			out = append(out, pairOut{Word: rec.Word, Synonym: s})
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return append(data, '\n'), nil
}

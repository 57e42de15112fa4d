package format

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// CSVRenderer writes one word,synonym row per pair, readable by CSVParser
// with a comma delimiter.
type CSVRenderer struct{}

func (CSVRenderer) ID() string          { return "csv" }
func (CSVRenderer) Label() string       { return "CSV" }
func (CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVRenderer) Render(records []domain.Synonym) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, rec := range records {
		for _, s := range rec.Synonyms {
			if err := w.Write([]string{rec.Word, s}); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

package format

import (
	"bytes"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

var solrEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, "=>", `\=>`)

// SolrRenderer writes a Solr synonyms.txt file. Synonym records become
// equivalence lines, spelling errors become explicit mappings.
type SolrRenderer struct{}

func (SolrRenderer) ID() string          { return "solr" }
func (SolrRenderer) Label() string       { return "Solr synonyms.txt" }
func (SolrRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (SolrRenderer) Render(records []domain.Synonym) ([]byte, error) {
	var buf bytes.Buffer
	for _, rec := range records {
		if len(rec.Synonyms) == 0 {
			continue
		}
		terms := make([]string, len(rec.Synonyms))
		for i, s := range rec.Synonyms {
			terms[i] = solrEscaper.Replace(s)
		}

		buf.WriteString(solrEscaper.Replace(rec.Word))
		if rec.Type == domain.SynonymTypeSpellingError {
			buf.WriteString(" => ")
		} else {
			buf.WriteByte(',')
		}
		buf.WriteString(strings.Join(terms, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

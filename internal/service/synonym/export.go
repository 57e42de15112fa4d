package synonym

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
)

// Export renders the active records of one language with the named plugin.
// An unknown plugin is reported before the store is queried.
func (s *Service) Export(ctx context.Context, input ExportInput) (*ExportResult, error) {
	if strings.TrimSpace(input.Plugin) == "" {
		return nil, domain.NewValidationError("plugin", "required")
	}
	renderer, err := format.NewRenderer(input.Plugin)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	records, err := s.synonyms.List(ctx, domain.SynonymFilter{
		Language:   input.Language,
		Type:       input.typeFilter(),
		ActiveOnly: true,
		Limit:      s.exportCfg.MaxRecords + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("list synonyms for export: %w", err)
	}
	if len(records) > s.exportCfg.MaxRecords {
		s.log.WarnContext(ctx, "export exceeds record limit",
			slog.String("language", input.Language),
			slog.Int("max_records", s.exportCfg.MaxRecords),
		)
		return nil, domain.NewValidationError("export",
			fmt.Sprintf("more than %d records match; narrow the type or raise export.max_records", s.exportCfg.MaxRecords))
	}

	records = applyFilter(records, input.Filter)

	payload, err := renderer.Render(records)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", renderer.ID(), err)
	}

	s.log.InfoContext(ctx, "export rendered",
		slog.String("plugin", renderer.ID()),
		slog.String("language", input.Language),
		slog.Int("records", len(records)),
		slog.Int("bytes", len(payload)),
	)

	return &ExportResult{
		Plugin:      renderer.ID(),
		Payload:     payload,
		ContentType: renderer.ContentType(),
		Count:       len(records),
		ExportedAt:  s.now(),
	}, nil
}

func applyFilter(records []domain.Synonym, filter ExportFilter) []domain.Synonym {
	switch filter {
	case FilterNoSpace:
		out := make([]domain.Synonym, 0, len(records))
		for _, rec := range records {
			if hasSpace(rec.Word) {
				continue
			}
			rec.Synonyms = keep(rec.Synonyms, func(s string) bool { return !hasSpace(s) })
			if len(rec.Synonyms) > 0 {
				out = append(out, rec)
			}
		}
		return out

	case FilterOnlySpace:
		out := make([]domain.Synonym, 0, len(records))
		for _, rec := range records {
			if !hasSpace(rec.Word) {
				rec.Synonyms = keep(rec.Synonyms, hasSpace)
			}
			if len(rec.Synonyms) > 0 {
				out = append(out, rec)
			}
		}
		return out

	default:
		return records
	}
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

func keep(values []string, pred func(string) bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

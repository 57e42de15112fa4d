package synonym

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
	"github.com/heartmarshall/synonym-backend/pkg/ctxutil"
)

// Import parses a source file and reconciles every word in it with the store.
// File-level problems (settings, unknown format, options, parse failure) are
// returned as errors before any record is touched; per-word problems are
// reported in the result.
func (s *Service) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	parser, err := format.NewParser(input.Format)
	if err != nil {
		return nil, err
	}
	if err := parser.ValidateOptions(input.Options); err != nil {
		return nil, err
	}
	if input.Filename != "" && !format.ExtensionAllowed(parser, input.Filename) {
		return nil, domain.NewValidationError("file",
			fmt.Sprintf("extension must be one of: %s", strings.Join(parser.Extensions(), ", ")))
	}

	parsed, err := parser.Parse(input.Source, input.Options)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", parser.ID(), err)
	}

	items := Group(parsed.Items)

	s.log.InfoContext(ctx, "import started",
		slog.String("format", parser.ID()),
		slog.String("language", input.Settings.Language),
		slog.String("type", input.Settings.Type.String()),
		slog.String("update_existing", input.Settings.UpdateExisting.String()),
		slog.Int("pairs", len(parsed.Items)),
		slog.Int("words", len(items)),
		slog.Int("warnings", len(parsed.Warnings)),
	)

	result := s.schedule(ctx, items, input.Settings, ownerID)
	result.Warnings = parsed.Warnings

	s.log.InfoContext(ctx, "import finished",
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Bool("batched", result.Batched),
	)

	return result, nil
}

package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
	"github.com/heartmarshall/synonym-backend/internal/service/synonym"
)

type synonymService interface {
	Import(ctx context.Context, input synonym.ImportInput) (*synonym.ImportResult, error)
	Export(ctx context.Context, input synonym.ExportInput) (*synonym.ExportResult, error)
}

// SynonymHandler serves the import, export and plugin listing endpoints.
type SynonymHandler struct {
	svc       synonymService
	log       *slog.Logger
	maxUpload int64
}

func NewSynonymHandler(svc synonymService, maxUpload int64, logger *slog.Logger) *SynonymHandler {
	return &SynonymHandler{svc: svc, log: logger.With("handler", "synonym"), maxUpload: maxUpload}
}

// ---------------------------------------------------------------------------
// Import
// ---------------------------------------------------------------------------

type importResponse struct {
	Imported int                   `json:"imported"`
	Failed   int                   `json:"failed"`
	Created  int                   `json:"created"`
	Updated  int                   `json:"updated"`
	Batched  bool                  `json:"batched"`
	IDs      []uuid.UUID           `json:"ids"`
	Warnings []format.ParseWarning `json:"warnings"`
	Failures []importFailure       `json:"failures"`
}

type importFailure struct {
	Word     string   `json:"word"`
	Synonyms []string `json:"synonyms"`
	Reason   string   `json:"reason"`
}

// Import handles POST /synonyms/import as multipart/form-data.
func (h *SynonymHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		writeError(w, r, h.log, &http.MaxBytesError{Limit: h.maxUpload})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, h.log, err)
			return
		}
		writeError(w, r, h.log, domain.NewValidationError("body", "must be multipart/form-data"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	input, err := h.importInput(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		input.Source = file
		input.Filename = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// Validate reports the missing file together with other field errors.
	default:
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.svc.Import(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toImportResponse(result))
}

func (h *SynonymHandler) importInput(r *http.Request) (synonym.ImportInput, error) {
	form := r.MultipartForm.Value
	opts := format.DefaultOptions()
	var errs []domain.FieldError

	if v, ok := form["delimiter"]; ok && len(v) > 0 {
		opts.Delimiter = v[0]
	}
	if v, ok := form["enclosure"]; ok && len(v) > 0 {
		opts.Enclosure = v[0]
	}

	headerRow, err := formBool(r, "header_row", false)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "header_row", Message: "must be a boolean"})
	}
	opts.HeaderRow = headerRow

	active, err := formBool(r, "active", true)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "active", Message: "must be a boolean"})
	}

	if len(errs) > 0 {
		return synonym.ImportInput{}, domain.NewValidationErrors(errs)
	}

	return synonym.ImportInput{
		Format:  r.FormValue("format"),
		Options: opts,
		Settings: domain.ImportSettings{
			Language:       r.FormValue("language"),
			Type:           domain.SynonymType(r.FormValue("type")),
			UpdateExisting: domain.UpdatePolicy(r.FormValue("update_existing")),
			Active:         active,
		},
	}, nil
}

func formBool(r *http.Request, key string, def bool) (bool, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func toImportResponse(res *synonym.ImportResult) importResponse {
	out := importResponse{
		Imported: len(res.Succeeded),
		Failed:   len(res.Failed),
		Created:  res.Created,
		Updated:  res.Updated,
		Batched:  res.Batched,
		IDs:      res.Succeeded,
		Warnings: res.Warnings,
		Failures: make([]importFailure, len(res.Failed)),
	}
	if out.IDs == nil {
		out.IDs = []uuid.UUID{}
	}
	if out.Warnings == nil {
		out.Warnings = []format.ParseWarning{}
	}
	for i, f := range res.Failed {
		out.Failures[i] = importFailure{Word: f.Word, Synonyms: f.Synonyms, Reason: f.Reason}
	}
	return out
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Export handles GET /synonyms/export and writes the rendered payload as is.
func (h *SynonymHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := synonym.ExportInput{
		Plugin:   q.Get("plugin"),
		Language: q.Get("language"),
		Type:     q.Get("type"),
		Filter:   synonym.ExportFilter(q.Get("filter")),
	}

	result, err := h.svc.Export(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("X-Export-Count", strconv.Itoa(result.Count))
	w.Header().Set("Last-Modified", result.ExportedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Payload); err != nil {
		h.log.WarnContext(r.Context(), "write export payload", slog.String("error", err.Error()))
	}
}

// ---------------------------------------------------------------------------
// Plugins
// ---------------------------------------------------------------------------

type pluginInfo struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Extensions  []string `json:"extensions,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
}

type pluginsResponse struct {
	Import []pluginInfo `json:"import"`
	Export []pluginInfo `json:"export"`
}

// Plugins handles GET /synonyms/plugins.
func (h *SynonymHandler) Plugins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pluginsResponse{
		Import: importPlugins(),
		Export: exportPlugins(),
	})
}

func importPlugins() []pluginInfo {
	ids := format.ParserIDs()
	out := make([]pluginInfo, 0, len(ids))
	for _, id := range ids {
		p, err := format.NewParser(id)
		if err != nil {
			continue
		}
		out = append(out, pluginInfo{ID: p.ID(), Label: p.Label(), Extensions: p.Extensions()})
	}
	return out
}

func exportPlugins() []pluginInfo {
	ids := format.RendererIDs()
	out := make([]pluginInfo, 0, len(ids))
	for _, id := range ids {
		rd, err := format.NewRenderer(id)
		if err != nil {
			continue
		}
		out = append(out, pluginInfo{ID: rd.ID(), Label: rd.Label(), ContentType: rd.ContentType()})
	}
	return out
}

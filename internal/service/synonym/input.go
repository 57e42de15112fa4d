package synonym

import (
	"errors"
	"io"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
)

// ImportInput holds the parameters for one import run.
type ImportInput struct {
	Format   string
	Source   io.Reader
	Filename string // optional; when set its extension must match the format
	Options  format.Options
	Settings domain.ImportSettings
}

// Validate checks all fields and collects all errors. It canonicalises the
// settings language in place.
func (i *ImportInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Format) == "" {
		errs = append(errs, domain.FieldError{Field: "format", Message: "required"})
	}
	if i.Source == nil {
		errs = append(errs, domain.FieldError{Field: "file", Message: "required"})
	}
	if err := i.Settings.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve.Errors...)
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ExportFilter narrows exported synonyms by whitespace content.
type ExportFilter string

const (
	FilterAll ExportFilter = "all"
	// FilterNoSpace keeps only single-token words and synonyms.
	FilterNoSpace ExportFilter = "nospace"
	// FilterOnlySpace keeps only multi-token synonyms, or every synonym of a
	// multi-token word.
	FilterOnlySpace ExportFilter = "onlyspace"
)

func (f ExportFilter) IsValid() bool {
	switch f {
	case "", FilterAll, FilterNoSpace, FilterOnlySpace:
		return true
	}
	return false
}

// TypeAll selects every synonym type on export.
const TypeAll = "all"

// ExportInput holds the parameters for an export.
type ExportInput struct {
	Plugin   string
	Language string
	Type     string // TypeAll or a domain.SynonymType; empty means all
	Filter   ExportFilter
}

// Validate checks everything except the plugin, which is resolved first so an
// unknown plugin is reported on its own.
func (i *ExportInput) Validate() error {
	var errs []domain.FieldError

	lang, err := domain.CanonicalLanguage(i.Language)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "language", Message: err.Error()})
	} else {
		i.Language = lang
	}
	if i.Type != "" && i.Type != TypeAll && !domain.SynonymType(i.Type).IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be all, synonym or spelling_error"})
	}
	if !i.Filter.IsValid() {
		errs = append(errs, domain.FieldError{Field: "filter", Message: "must be all, nospace or onlyspace"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *ExportInput) typeFilter() *domain.SynonymType {
	if i.Type == "" || i.Type == TypeAll {
		return nil
	}
	t := domain.SynonymType(i.Type)
	return &t
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Synonym is one stored synonym set: a head word and the terms that map to it.
type Synonym struct {
	ID        uuid.UUID
	Word      string
	Synonyms  []string
	Type      SynonymType
	Language  string
	Active    bool
	CreatedAt time.Time
	ChangedAt time.Time
	OwnerID   uuid.UUID
}

// ImportSettings are fixed for the duration of one import run.
type ImportSettings struct {
	Language       string
	Type           SynonymType
	UpdateExisting UpdatePolicy
	Active         bool
}

// Validate checks the settings and canonicalises the language tag in place.
func (s *ImportSettings) Validate() error {
	var errs []FieldError

	lang, err := CanonicalLanguage(s.Language)
	if err != nil {
		errs = append(errs, FieldError{Field: "language", Message: err.Error()})
	} else {
		s.Language = lang
	}
	if !s.Type.IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be synonym or spelling_error"})
	}
	if !s.UpdateExisting.IsValid() {
		errs = append(errs, FieldError{Field: "update_existing", Message: "must be merge or overwrite"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// CanonicalLanguage parses a BCP 47 tag and returns its canonical form.
func CanonicalLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errRequired
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", errInvalidLanguage
	}
	return tag.String(), nil
}

var (
	errRequired        = errors.New("required")
	errInvalidLanguage = errors.New("invalid language code")
)

package format

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

const byteOrderMark = '\uFEFF'

var csvDelimiters = map[string]rune{
	";":  ';',
	",":  ',',
	"\t": '\t',
	`\t`: '\t',
	"|":  '|',
}

var csvEnclosures = map[string]rune{
	`"`: '"',
	"'": '\'',
	"":  0,
}

// CSVParser reads delimiter-separated word/synonym pairs. Column 0 is the
// word, column 1 the synonym, further columns are ignored.
type CSVParser struct{}

func (CSVParser) ID() string           { return "csv" }
func (CSVParser) Label() string        { return "CSV" }
func (CSVParser) Extensions() []string { return []string{"csv", "txt"} }

func (CSVParser) ValidateOptions(opts Options) error {
	var errs []domain.FieldError
	if _, ok := csvDelimiters[opts.Delimiter]; !ok {
		errs = append(errs, domain.FieldError{Field: "delimiter", Message: "must be one of ; , \\t |"})
	}
	if _, ok := csvEnclosures[opts.Enclosure]; !ok {
		errs = append(errs, domain.FieldError{Field: "enclosure", Message: `must be ", ' or empty`})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (p CSVParser) Parse(r io.Reader, opts Options) (*ParseResult, error) {
	if err := p.ValidateOptions(opts); err != nil {
		return nil, err
	}

	sc := &csvScanner{
		r:     bufio.NewReader(r),
		delim: csvDelimiters[opts.Delimiter],
		encl:  csvEnclosures[opts.Enclosure],
		line:  1,
	}
	if err := sc.skipBOM(); err != nil {
		return nil, err
	}

	res := newParseResult()
	first := true
	for {
		fields, line, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.HeaderRow && first {
			first = false
			continue
		}
		first = false

		if len(fields) == 1 && fields[0] == "" {
			continue
		}
		if len(fields) < 2 {
			res.warn(line, "expected at least 2 columns")
			continue
		}
		word, synonym := fields[0], fields[1]
		if strings.TrimSpace(word) == "" {
			res.warn(line, "empty word")
			continue
		}
		if strings.TrimSpace(synonym) == "" {
			res.warn(line, "empty synonym")
			continue
		}
		res.Items = append(res.Items, RawItem{Word: word, Synonym: synonym})
	}

	return res, nil
}

// csvScanner splits input into records. Unlike encoding/csv it accepts any
// enclosure character, or none.
type csvScanner struct {
	r     *bufio.Reader
	delim rune
	encl  rune // 0 disables enclosure handling
	line  int  // physical line of the next rune
}

func (s *csvScanner) skipBOM() error {
	r, _, err := s.r.ReadRune()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &domain.ParseError{Line: 1, Reason: "read failed", Err: err}
	}
	if r != byteOrderMark {
		_ = s.r.UnreadRune()
	}
	return nil
}

// next returns the fields of the next record and the line it starts on.
// It returns io.EOF once the input is exhausted.
func (s *csvScanner) next() ([]string, int, error) {
	var (
		fields   []string
		field    strings.Builder
		inEncl   bool
		enclosed bool
		started  bool
	)
	start := s.line

	for {
		r, _, err := s.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if inEncl {
				return nil, start, &domain.ParseError{Line: start, Reason: "unterminated enclosure"}
			}
			if !started {
				return nil, start, io.EOF
			}
			return append(fields, field.String()), start, nil
		}
		if err != nil {
			return nil, start, &domain.ParseError{Line: s.line, Reason: "read failed", Err: err}
		}
		started = true

		if inEncl {
			if r == s.encl {
				nr, _, err := s.r.ReadRune()
				if err == nil && nr == s.encl {
					field.WriteRune(r)
					continue
				}
				if err == nil {
					_ = s.r.UnreadRune()
				}
				inEncl = false
				continue
			}
			if r == '\n' {
				s.line++
			}
			field.WriteRune(r)
			continue
		}

		switch {
		case s.encl != 0 && r == s.encl && field.Len() == 0 && !enclosed:
			inEncl = true
			enclosed = true
		case r == s.delim:
			fields = append(fields, field.String())
			field.Reset()
			enclosed = false
		case r == '\n':
			s.line++
			return append(fields, field.String()), start, nil
		case r == '\r':
			nr, _, err := s.r.ReadRune()
			if err == nil && nr != '\n' {
				_ = s.r.UnreadRune()
				field.WriteRune(r)
			} else if err == nil {
				s.line++
				return append(fields, field.String()), start, nil
			}
		default:
			field.WriteRune(r)
		}
	}
}

package loctext

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"loctext/internal/textutil"
)

const (
	commentMarker   = ';'
	pragmaDirective = "#pragma"
	headerSeparator = "=>"
)

// PragmaTable maps pragma keys to values for one parsed document.
type PragmaTable map[string]string

// Bool reports whether key is set to "true" (case-insensitive).
func (t PragmaTable) Bool(key string) bool {
	return strings.EqualFold(t[key], "true")
}

// Document is the result of parsing one locale text file.
type Document struct {
	Records  []TextRecord
	Pragmas  PragmaTable
	Warnings []Warning
}

// Options controls parsing.
type Options struct {
	// StrictHeaders turns a data line without "=>" into a fatal error instead
	// of a warning.
	StrictHeaders bool
	// Logger receives warnings. Nil uses the global zerolog logger.
	Logger *zerolog.Logger
}

// Parse parses text with default options.
func Parse(text string) (*Document, error) {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions parses a complete locale text file. Only malformed pragma
// lines (and, with StrictHeaders, missing header separators) abort the parse;
// other problems skip the offending line and are reported as warnings.
func ParseWithOptions(text string, opts Options) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger
	}

	p := &lineParser{
		doc:    &Document{Pragmas: PragmaTable{}},
		strict: opts.StrictHeaders,
		log:    logger,
	}

	for i, line := range strings.Split(text, "\n") {
		if err := p.parseLine(i+1, line); err != nil {
			return nil, err
		}
	}
	return p.doc, nil
}

type lineParser struct {
	doc    *Document
	strict bool
	log    *zerolog.Logger
}

func (p *lineParser) parseLine(lineNum int, raw string) error {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)

	// Skip blank lines and comments.
	if trimmed == "" || trimmed[0] == commentMarker {
		return nil
	}

	if strings.HasPrefix(trimmed, pragmaDirective) {
		column := utf8.RuneCountInString(raw[:len(raw)-len(trimmed)]) + 1
		return p.parsePragma(lineNum, column, raw, trimmed[len(pragmaDirective):])
	}

	return p.parseEntry(lineNum, raw)
}

func (p *lineParser) parsePragma(lineNum, column int, raw, rest string) error {
	fields := strings.Fields(rest)
	r, _ := utf8.DecodeRuneInString(rest)
	if len(fields) != 2 || !unicode.IsSpace(r) {
		return &ParseError{
			Line:   lineNum,
			Column: column,
			Text:   raw,
			Msg:    fmt.Sprintf("pragma needs a key and a value, got %d token(s)", len(fields)),
			Err:    ErrMalformedPragma,
		}
	}

	key, value := fields[0], fields[1]
	if prev, ok := p.doc.Pragmas[key]; ok {
		p.warn(Warning{
			Line: lineNum,
			Code: WarnDuplicatePragma,
			Msg:  fmt.Sprintf("pragma %q redefined, %q replaces %q", key, value, prev),
		})
	}
	p.doc.Pragmas[key] = value
	return nil
}

func (p *lineParser) parseEntry(lineNum int, raw string) error {
	sep := strings.Index(raw, headerSeparator)
	if sep < 0 {
		if p.strict {
			return &ParseError{
				Line: lineNum,
				Text: raw,
				Msg:  "no \"=>\" between identifier and locale data",
				Err:  ErrMissingHeader,
			}
		}
		p.warn(Warning{
			Line: lineNum,
			Code: WarnMissingHeader,
			Msg:  "no \"=>\" between identifier and locale data, line skipped",
		})
		return nil
	}

	id := strings.TrimSpace(raw[:sep])
	if id == "" {
		if p.strict {
			return &ParseError{
				Line: lineNum,
				Text: raw,
				Msg:  "empty identifier before \"=>\"",
				Err:  ErrMissingHeader,
			}
		}
		p.warn(Warning{
			Line: lineNum,
			Code: WarnMissingHeader,
			Msg:  "empty identifier before \"=>\", line skipped",
		})
		return nil
	}

	rec := NewTextRecord(id)
	tail := strings.TrimSpace(raw[sep+len(headerSeparator):])
	if derr := decodeDefinitions(&rec, tail); derr != nil {
		p.warn(Warning{Line: lineNum, ID: id, Code: derr.code, Msg: derr.msg + ", line skipped"})
		return nil
	}

	if rec.Len() == 0 {
		p.warn(Warning{Line: lineNum, ID: id, Code: WarnNoLocaleData, Msg: "no locale data found"})
		return nil
	}

	p.doc.Records = append(p.doc.Records, rec)
	return nil
}

func (p *lineParser) warn(w Warning) {
	p.doc.Warnings = append(p.doc.Warnings, w)

	ev := p.log.Warn().Int("line", w.Line).Str("code", string(w.Code))
	if w.ID != "" {
		ev = ev.Str("id", textutil.Truncate(w.ID, 40))
	}
	ev.Msg(w.Msg)
}

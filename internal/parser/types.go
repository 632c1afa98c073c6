package parser

import "loctext/internal/loctext"

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the absolute path to the parsed file.
	FilePath string
	// FileType is the detected type (loc, ini, tsv).
	FileType string
	// Document holds the records, pragmas and warnings read from the file.
	Document *loctext.Document
}

// Parser is the interface for all locale asset parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse reads a file into locale records.
	Parse(filePath string) (*ParseResult, error)
	// Reconstruct renders the result in the native locale text format.
	Reconstruct(result *ParseResult) ([]byte, error)
}

// reconstruct serializes doc with its pragmas.
func reconstruct(doc *loctext.Document) ([]byte, error) {
	out, err := loctext.SerializeDocument(doc)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// builder collects per-locale values into records keeping first-seen id order.
type builder struct {
	records []loctext.TextRecord
	index   map[string]int
}

func newBuilder() *builder {
	return &builder{index: make(map[string]int)}
}

func (b *builder) set(id, locale, value string) {
	i, ok := b.index[id]
	if !ok {
		i = len(b.records)
		b.index[id] = i
		b.records = append(b.records, loctext.NewTextRecord(id))
	}
	b.records[i].Set(locale, value)
}

package parser

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"loctext/internal/loctext"
)

// LocParser reads native locale text files.
type LocParser struct {
	strict bool
}

func NewLocParser(strictHeaders bool) *LocParser {
	return &LocParser{strict: strictHeaders}
}

func (p *LocParser) CanParse(ext string) bool {
	return ext == ".loc" || ext == ".lang"
}

func (p *LocParser) Parse(filePath string) (*ParseResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read loc file: %w", err)
	}

	logger := log.With().Str("file", filePath).Logger()
	doc, err := loctext.ParseWithOptions(string(stripBOM(data)), loctext.Options{
		StrictHeaders: p.strict,
		Logger:        &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	return &ParseResult{
		FilePath: filePath,
		FileType: "loc",
		Document: doc,
	}, nil
}

func (p *LocParser) Reconstruct(result *ParseResult) ([]byte, error) {
	return reconstruct(result.Document)
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

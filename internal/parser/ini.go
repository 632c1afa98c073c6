package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"loctext/internal/loctext"
)

// INIParser imports locale tables kept as INI files, one section per locale:
//
//	[en]
//	GREETING = Hello
//	[tr]
//	GREETING = "Merhaba\n"
type INIParser struct{}

func NewINIParser() *INIParser { return &INIParser{} }

func (p *INIParser) CanParse(ext string) bool {
	return ext == ".ini"
}

func (p *INIParser) Parse(filePath string) (*ParseResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open ini file: %w", err)
	}
	defer file.Close()

	doc := &loctext.Document{Pragmas: loctext.PragmaTable{}}
	b := newBuilder()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	currentLocale := ""

	for scanner.Scan() {
		lineNum++
		trimmed := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			trimmed = strings.TrimPrefix(trimmed, "\ufeff")
		}

		// Skip empty lines and comments.
		if trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Section header names the locale.
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			currentLocale = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			continue
		}

		eqIdx := strings.Index(trimmed, "=")
		if eqIdx < 0 || currentLocale == "" {
			w := loctext.Warning{Line: lineNum, Code: loctext.WarnMalformedLocale, Msg: "entry outside a locale section or without '='"}
			doc.Warnings = append(doc.Warnings, w)
			log.Warn().Str("file", filePath).Int("line", lineNum).Msg(w.Msg)
			continue
		}

		id := strings.TrimSpace(trimmed[:eqIdx])
		value := strings.TrimSpace(trimmed[eqIdx+1:])
		if strings.HasPrefix(value, `"`) {
			value, _ = loctext.DecodeValue(value)
		}
		b.set(id, currentLocale, value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ini file: %w", err)
	}

	doc.Records = b.records
	return &ParseResult{FilePath: filePath, FileType: "ini", Document: doc}, nil
}

func (p *INIParser) Reconstruct(result *ParseResult) ([]byte, error) {
	return reconstruct(result.Document)
}

package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"loctext/internal/loctext"
)

// TSVParser imports spreadsheet exports: a header row "id<TAB>en<TAB>tr..."
// followed by one row per identifier. Cells may use \t, \n and \\ escapes;
// empty cells are left out of the record.
type TSVParser struct{}

func NewTSVParser() *TSVParser { return &TSVParser{} }

func (p *TSVParser) CanParse(ext string) bool {
	return ext == ".tsv"
}

var cellUnescaper = strings.NewReplacer(`\\`, `\`, `\t`, "\t", `\n`, "\n", `\r`, "\r")

func (p *TSVParser) Parse(filePath string) (*ParseResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open tsv file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4*1024*1024), 4*1024*1024)

	doc := &loctext.Document{Pragmas: loctext.PragmaTable{}}
	b := newBuilder()
	var locales []string
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if locales == nil {
			if len(cols) < 2 {
				return nil, fmt.Errorf("tsv header in %s: need an id column and at least one locale", filePath)
			}
			for _, c := range cols[1:] {
				locales = append(locales, strings.TrimSpace(c))
			}
			continue
		}

		id := strings.TrimSpace(cols[0])
		if id == "" {
			w := loctext.Warning{Line: lineNum, Code: loctext.WarnMissingHeader, Msg: "row without identifier"}
			doc.Warnings = append(doc.Warnings, w)
			log.Warn().Str("file", filePath).Int("line", lineNum).Msg(w.Msg)
			continue
		}

		added := false
		for colIdx, cell := range cols[1:] {
			if colIdx >= len(locales) || cell == "" || locales[colIdx] == "" {
				continue
			}
			b.set(id, locales[colIdx], cellUnescaper.Replace(cell))
			added = true
		}
		if !added {
			w := loctext.Warning{Line: lineNum, ID: id, Code: loctext.WarnNoLocaleData, Msg: "no locale data found"}
			doc.Warnings = append(doc.Warnings, w)
			log.Warn().Str("file", filePath).Int("line", lineNum).Str("id", id).Msg(w.Msg)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan tsv file: %w", err)
	}
	if locales == nil {
		return nil, fmt.Errorf("tsv file %s has no header row", filePath)
	}

	doc.Records = b.records
	return &ParseResult{FilePath: filePath, FileType: "tsv", Document: doc}, nil
}

func (p *TSVParser) Reconstruct(result *ParseResult) ([]byte, error) {
	return reconstruct(result.Document)
}

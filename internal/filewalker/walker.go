package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"loctext/internal/parser"
)

// Walker traverses directories and binds each locale asset to its parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker with the native, INI and TSV parsers.
func NewWalker(strictHeaders bool) *Walker {
	return &Walker{
		parsers: []parser.Parser{
			parser.NewLocParser(strictHeaders),
			parser.NewINIParser(),
			parser.NewTSVParser(),
		},
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// ParserFor returns the parser handling path's extension.
func (w *Walker) ParserFor(path string) (parser.Parser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range w.parsers {
		if p.CanParse(ext) {
			return p, true
		}
	}
	return nil, false
}

// Walk discovers all supported files under root in lexical order.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if p, ok := w.ParserFor(path); ok {
			entries = append(entries, FileEntry{
				Path:   path,
				Ext:    strings.ToLower(filepath.Ext(path)),
				Parser: p,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered locale assets")
	return entries, nil
}

// AssetName is the slash-separated path of entry relative to root, used as
// the asset key in storage.
func AssetName(root string, entry FileEntry) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(entry.Path)
	}
	rel, err := filepath.Rel(absRoot, entry.Path)
	if err != nil {
		return filepath.ToSlash(entry.Path)
	}
	return filepath.ToSlash(rel)
}

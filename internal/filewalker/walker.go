package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bgee-translator/internal/parser"

	"github.com/rs/zerolog/log"
)

// Walker traverses a locale directory and dispatches files to the correct parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker for string tables with the given extension.
func NewWalker(ext string) *Walker {
	return &Walker{
		parsers: []parser.Parser{
			parser.NewStringTableParser(ext),
		},
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	// Path is the file path on disk.
	Path string
	// Rel is the slash-separated path relative to the walked root.
	Rel    string
	Parser parser.Parser
}

// Walk discovers all supported files under root in lexical order.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
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
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, p := range w.parsers {
			if !p.CanParse(ext) {
				continue
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return fmt.Errorf("relative path of %s: %w", path, err)
			}
			entries = append(entries, FileEntry{
				Path:   path,
				Rel:    filepath.ToSlash(rel),
				Parser: p,
			})
			break
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.Document, error) {
	return entry.Parser.Parse(entry.Path)
}

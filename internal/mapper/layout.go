package mapper

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"bgee-translator/internal/config"
)

// Layout maps collections onto the game's localized directory tree.
type Layout struct {
	GameDir      string
	SourceLocale string
	TargetLocale string
}

// NewLayout derives the layout from the configuration.
func NewLayout(cfg *config.Config) Layout {
	return Layout{
		GameDir:      cfg.GameDir,
		SourceLocale: cfg.SourceLocale,
		TargetLocale: cfg.TargetLocale,
	}
}

// CollectionPath returns the slash-separated source locale path of a
// collection, relative to the game directory. It keys the index.
func (l Layout) CollectionPath(collection string) string {
	return path.Join(collection, "exported", "localized", l.SourceLocale)
}

// Dir resolves a collection path on disk.
func (l Layout) Dir(collectionPath string) string {
	return filepath.Join(l.GameDir, filepath.FromSlash(collectionPath))
}

// TargetPath swaps the trailing locale segment of a collection path for the
// target locale.
func (l Layout) TargetPath(collectionPath string) (string, error) {
	segments := strings.Split(path.Clean(collectionPath), "/")
	last := len(segments) - 1
	if last < 1 || segments[last] != l.SourceLocale {
		return "", fmt.Errorf("%w: collection path %q does not end in locale %q",
			ErrIndexMismatch, collectionPath, l.SourceLocale)
	}
	segments[last] = l.TargetLocale
	return strings.Join(segments, "/"), nil
}

// Package mapper drives the two phases of a translation cycle: export walks
// the source string tables into protected spreadsheet pages plus an index,
// import reads the index and the translated pages back into string tables
// for the target locale.
package mapper

import (
	"context"
	"errors"
	"fmt"

	"bgee-translator/internal/index"
)

// ErrIndexMismatch reports an index that does not fit the source tree.
var ErrIndexMismatch = errors.New("index does not match source")

// Mode selects the phase of a run.
type Mode int

const (
	ModeExport Mode = iota
	ModeImport
)

func (m Mode) String() string {
	switch m {
	case ModeExport:
		return "export"
	case ModeImport:
		return "import"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// DetectMode picks the phase once, from the presence of the index file.
func DetectMode(indexPath string) (Mode, error) {
	exists, err := index.Exists(indexPath)
	if err != nil {
		return ModeExport, err
	}
	if exists {
		return ModeImport, nil
	}
	return ModeExport, nil
}

// Memory looks up and records translations. The translation memory and the
// title glossary both implement it.
type Memory interface {
	Lookup(ctx context.Context, source string) (string, bool, error)
	Remember(ctx context.Context, source, translated string) error
}

// Progress receives per-file progress. *progressbar.ProgressBar satisfies it.
type Progress interface {
	ChangeMax(max int)
	Add(n int) error
}

// Sinks are the optional collaborators of a run. Nil fields are skipped.
type Sinks struct {
	Memory   Memory
	Glossary Memory
	Progress Progress
}

type noProgress struct{}

func (noProgress) ChangeMax(int) {}

func (noProgress) Add(int) error { return nil }

func (s Sinks) progress() Progress {
	if s.Progress == nil {
		return noProgress{}
	}
	return s.Progress
}

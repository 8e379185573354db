package mapper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bgee-translator/internal/config"
	"bgee-translator/internal/index"
	"bgee-translator/internal/interpolation"
	"bgee-translator/internal/parser"
	"bgee-translator/internal/sheet"
	"bgee-translator/internal/textutil"
	"bgee-translator/internal/titles"

	"github.com/rs/zerolog/log"
)

// ImportSummary counts what an import produced.
type ImportSummary struct {
	Collections int
	Files       int
	Fields      int
	Learned     int
}

// Restorer rebuilds string tables for the target locale from the index and
// the translated pages.
type Restorer struct {
	cfg    *config.Config
	layout Layout
	sinks  Sinks
}

// NewRestorer creates a restorer.
func NewRestorer(cfg *config.Config, sinks Sinks) *Restorer {
	return &Restorer{cfg: cfg, layout: NewLayout(cfg), sinks: sinks}
}

// Run writes one target file per indexed source file and the language
// metadata of every collection.
func (r *Restorer) Run(ctx context.Context, idx index.Index) (summary ImportSummary, err error) {
	reader := sheet.NewReader(r.cfg.TempDir)
	defer func() {
		if cerr := reader.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	total := 0
	for _, cpath := range idx.Collections() {
		total += len(idx[cpath])
	}
	progress := r.sinks.progress()
	progress.ChangeMax(total)

	for _, cpath := range idx.Collections() {
		target, err := r.layout.TargetPath(cpath)
		if err != nil {
			return summary, err
		}
		if err := r.rewriteLanguage(cpath, target); err != nil {
			return summary, err
		}

		for _, file := range idx.FileNames(cpath) {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if err := r.restoreFile(ctx, reader, idx, cpath, target, file, &summary); err != nil {
				return summary, fmt.Errorf("%s/%s: %w", cpath, file, err)
			}
			summary.Files++
			_ = progress.Add(1)
		}
		summary.Collections++
	}
	return summary, nil
}

func (r *Restorer) rewriteLanguage(cpath, target string) error {
	src := filepath.Join(r.layout.Dir(cpath), parser.LanguageFile)
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", src).Msg("No language file, skipping")
		return nil
	}
	dst := filepath.Join(r.layout.Dir(target), parser.LanguageFile)
	if err := parser.RewriteLanguage(src, dst, r.cfg.TargetName, r.cfg.TargetDisplayName); err != nil {
		return err
	}
	log.Info().Str("path", dst).Msg("Created language file")
	return nil
}

func (r *Restorer) restoreFile(ctx context.Context, reader *sheet.Reader, idx index.Index, cpath, target, file string, summary *ImportSummary) error {
	doc, err := parser.ParseFile(filepath.Join(r.layout.Dir(cpath), filepath.FromSlash(file)))
	if err != nil {
		return err
	}
	entries, err := doc.Entries()
	if err != nil {
		return err
	}

	indexed := idx[cpath][file]
	pending := make(map[string]bool, len(indexed))
	for id := range indexed {
		pending[id] = true
	}

	for _, entry := range entries {
		fields, ok := indexed[entry.ID]
		if !ok {
			continue
		}
		delete(pending, entry.ID)

		for _, field := range parser.Fields {
			rec, ok := fields[field]
			if !ok {
				continue
			}
			text, err := r.restoreField(ctx, reader, entry, field, rec, summary)
			if err != nil {
				return fmt.Errorf("entry %s %s: %w", entry.ID, field, err)
			}
			if err := entry.SetText(field, text); err != nil {
				return err
			}
			summary.Fields++
		}
	}

	if len(pending) > 0 {
		return fmt.Errorf("%w: %d indexed entries not in source file", ErrIndexMismatch, len(pending))
	}

	dst := filepath.Join(r.layout.Dir(target), filepath.FromSlash(file))
	if err := doc.WriteFile(dst); err != nil {
		return err
	}
	log.Debug().Str("path", dst).Msg("Created file")
	return nil
}

// restoreField reads the translated line of a field and reverses both
// protection layers.
func (r *Restorer) restoreField(ctx context.Context, reader *sheet.Reader, entry parser.Entry, field string, rec index.Record, summary *ImportSummary) (string, error) {
	addr := rec.Address()
	cell, err := reader.Cell(addr.Page, addr.Cell)
	if err != nil {
		return "", err
	}

	phrases := make(titles.Map, len(rec.Titles))
	for key, ref := range rec.Titles {
		v, err := reader.Cell(rec.TitlePage, ref)
		if err != nil {
			return "", err
		}
		phrases[key] = strings.TrimSpace(v)
	}

	if r.sinks.Memory != nil || r.sinks.Glossary != nil {
		r.learn(ctx, entry, field, rec, cell, phrases, summary)
	}

	text := interpolation.Restore(cell, rec.Placeholders)
	return titles.Restore(text, phrases), nil
}

// learn re-derives the exported text of a field from its source and records
// every translated line and title.
func (r *Restorer) learn(ctx context.Context, entry parser.Entry, field string, rec index.Record, cell string, phrases titles.Map, summary *ImportSummary) {
	source, err := entry.Text(field)
	if err != nil {
		return
	}
	protected, ok, err := interpolation.Protect(source)
	if err != nil || !ok || len(protected.Placeholders) != len(rec.Placeholders) {
		log.Warn().Str("entry", entry.ID).Str("field", field).Msg("Source changed since export, not learning")
		return
	}
	body, original := titles.Protect(protected.Text)

	if r.sinks.Memory != nil && cell != "" && cell != body {
		if err := r.sinks.Memory.Remember(ctx, body, cell); err != nil {
			log.Warn().Err(err).Str("text", textutil.Truncate(body, 30)).Msg("Failed to remember translation")
		} else {
			summary.Learned++
		}
	}

	if r.sinks.Glossary == nil {
		return
	}
	for key, phrase := range original {
		translated, ok := phrases[key]
		if !ok || translated == "" || translated == phrase {
			continue
		}
		if err := r.sinks.Glossary.Remember(ctx, phrase, translated); err != nil {
			log.Warn().Err(err).Str("title", phrase).Msg("Failed to remember title")
		}
	}
}

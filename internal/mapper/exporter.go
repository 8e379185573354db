package mapper

import (
	"context"
	"fmt"
	"os"

	"bgee-translator/internal/config"
	"bgee-translator/internal/filewalker"
	"bgee-translator/internal/index"
	"bgee-translator/internal/interpolation"
	"bgee-translator/internal/parser"
	"bgee-translator/internal/sheet"
	"bgee-translator/internal/textutil"
	"bgee-translator/internal/titles"

	"github.com/rs/zerolog/log"
)

// ExportSummary counts what an export produced.
type ExportSummary struct {
	Collections int
	Files       int
	Lines       int
	Titles      int
	Pages       int
	Prefilled   int
}

// Exporter writes protected source text to spreadsheet pages and records
// every field in the index.
type Exporter struct {
	cfg    *config.Config
	layout Layout
	walker *filewalker.Walker
	sinks  Sinks
}

// NewExporter creates an exporter.
func NewExporter(cfg *config.Config, sinks Sinks) *Exporter {
	return &Exporter{
		cfg:    cfg,
		layout: NewLayout(cfg),
		walker: filewalker.NewWalker(cfg.Extension),
		sinks:  sinks,
	}
}

type collectionJob struct {
	name  string
	path  string
	files []filewalker.FileEntry
}

// Run exports every configured collection and persists the index once, after
// all pages are written.
func (e *Exporter) Run(ctx context.Context) (index.Index, ExportSummary, error) {
	var summary ExportSummary

	var jobs []collectionJob
	total := 0
	for _, name := range e.cfg.Collections {
		cpath := e.layout.CollectionPath(name)
		files, err := e.walker.Walk(e.layout.Dir(cpath))
		if err != nil {
			return nil, summary, fmt.Errorf("collection %s: %w", name, err)
		}
		jobs = append(jobs, collectionJob{name: name, path: cpath, files: files})
		total += len(files)
	}

	if err := os.MkdirAll(e.cfg.TempDir, 0755); err != nil {
		return nil, summary, fmt.Errorf("create temp directory: %w", err)
	}

	progress := e.sinks.progress()
	progress.ChangeMax(total)

	idx := make(index.Index)
	for _, job := range jobs {
		if err := e.exportCollection(ctx, job, idx, &summary); err != nil {
			return nil, summary, fmt.Errorf("collection %s: %w", job.name, err)
		}
		summary.Collections++
	}

	if err := index.Save(e.cfg.IndexPath(), idx); err != nil {
		return nil, summary, err
	}
	return idx, summary, nil
}

func (e *Exporter) exportCollection(ctx context.Context, job collectionJob, idx index.Index, summary *ExportSummary) (err error) {
	pag, err := sheet.NewPaginator(job.name, e.cfg.MaxPageLines, sheet.Creator(e.cfg.TempDir))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pag.Close(); cerr != nil && err == nil {
			err = cerr
		}
		summary.Lines += pag.Lines()
		summary.Titles += pag.Titles()
		summary.Pages += pag.Pages()
	}()

	idx.Collection(job.path)
	progress := e.sinks.progress()

	for _, file := range job.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.exportFile(ctx, pag, job.path, file, idx, summary); err != nil {
			return fmt.Errorf("%s: %w", file.Rel, err)
		}
		summary.Files++
		_ = progress.Add(1)
	}

	log.Info().
		Str("collection", job.name).
		Int("files", len(job.files)).
		Int("lines", pag.Lines()).
		Int("titles", pag.Titles()).
		Msg("Collection exported")
	return nil
}

func (e *Exporter) exportFile(ctx context.Context, pag *sheet.Paginator, cpath string, file filewalker.FileEntry, idx index.Index, summary *ExportSummary) error {
	doc, err := e.walker.ParseFile(file)
	if err != nil {
		return err
	}
	entries, err := doc.Entries()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		for _, field := range parser.Fields {
			text, err := entry.Text(field)
			if err != nil {
				return err
			}
			rec, ok, err := e.exportField(ctx, pag, text, summary)
			if err != nil {
				return fmt.Errorf("entry %s %s: %w", entry.ID, field, err)
			}
			if !ok {
				continue
			}
			idx.Add(cpath, file.Rel, entry.ID, field, rec)
		}
	}
	return nil
}

// exportField protects one field and writes it to the next line. ok is false
// for an empty field, which gets neither a line nor a record.
func (e *Exporter) exportField(ctx context.Context, pag *sheet.Paginator, text string, summary *ExportSummary) (index.Record, bool, error) {
	protected, ok, err := interpolation.Protect(text)
	if err != nil || !ok {
		return index.Record{}, false, err
	}
	body, phrases := titles.Protect(protected.Text)

	addr, err := pag.Next()
	if err != nil {
		return index.Record{}, false, err
	}
	cell := body
	if v, ok := e.lookup(ctx, e.sinks.Memory, body); ok {
		cell = v
		summary.Prefilled++
	}
	if err := pag.Write(addr, cell); err != nil {
		return index.Record{}, false, err
	}

	refs := make(map[string]string, len(phrases))
	for _, key := range interpolation.SortedKeys(phrases) {
		phrase := phrases[key]
		value := phrase
		if v, ok := e.lookup(ctx, e.sinks.Glossary, phrase); ok {
			value = v
		}
		ref, err := pag.Title(phrase, value)
		if err != nil {
			return index.Record{}, false, err
		}
		refs[key] = ref
	}

	return index.Record{
		Page:         addr.Page,
		TitlePage:    pag.TitlePage(),
		Line:         addr.Cell,
		Placeholders: protected.Placeholders,
		Titles:       refs,
	}, true, nil
}

func (e *Exporter) lookup(ctx context.Context, m Memory, source string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok, err := m.Lookup(ctx, source)
	if err != nil {
		log.Warn().Err(err).Str("text", textutil.Truncate(source, 30)).Msg("Failed to look up translation")
		return "", false
	}
	return v, ok
}

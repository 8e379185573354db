// Package index persists where every exported text field landed and how it
// was protected, so that the import phase can rebuild the source files.
package index

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bgee-translator/internal/interpolation"
	"bgee-translator/internal/sheet"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FileName is the name of the index inside the temp folder.
const FileName = "translate_data.json"

// ErrInvalidIndex reports an index file that does not match the schema.
var ErrInvalidIndex = errors.New("invalid index")

//go:embed schema.json
var schemaJSON []byte

// Record locates one exported field and carries what is needed to restore it.
type Record struct {
	Page         string            `json:"xlsx"`
	TitlePage    string            `json:"xlsx_titles"`
	Line         string            `json:"line"`
	Placeholders interpolation.Map `json:"immutable"`
	// Titles maps each title key of the field to its cell on TitlePage.
	Titles map[string]string `json:"titles"`
}

// Address returns the body cell of the record.
func (r Record) Address() sheet.Address {
	return sheet.Address{Page: r.Page, Cell: r.Line}
}

// Fields maps a field name to its record.
type Fields map[string]Record

// Entries maps an entry id to its exported fields.
type Entries map[string]Fields

// Files maps a slash-separated file path, relative to the collection path,
// to its entries.
type Files map[string]Entries

// Index maps a collection path (collection/exported/localized/<locale>) to its files.
type Index map[string]Files

// Add stores a record, creating intermediate levels as needed.
func (idx Index) Add(collection, file, entryID, field string, rec Record) {
	files, ok := idx[collection]
	if !ok {
		files = make(Files)
		idx[collection] = files
	}
	entries, ok := files[file]
	if !ok {
		entries = make(Entries)
		files[file] = entries
	}
	fields, ok := entries[entryID]
	if !ok {
		fields = make(Fields)
		entries[entryID] = fields
	}
	if rec.Placeholders == nil {
		rec.Placeholders = make(interpolation.Map)
	}
	if rec.Titles == nil {
		rec.Titles = make(map[string]string)
	}
	fields[field] = rec
}

// Collection registers a collection path even when it holds no records.
func (idx Index) Collection(collection string) Files {
	files, ok := idx[collection]
	if !ok {
		files = make(Files)
		idx[collection] = files
	}
	return files
}

// Lookup returns the record of a field, if any.
func (idx Index) Lookup(collection, file, entryID, field string) (Record, bool) {
	rec, ok := idx[collection][file][entryID][field]
	return rec, ok
}

// Count returns the number of records under a collection path.
func (idx Index) Count(collection string) int {
	n := 0
	for _, entries := range idx[collection] {
		for _, fields := range entries {
			n += len(fields)
		}
	}
	return n
}

// Collections returns the collection paths in sorted order.
func (idx Index) Collections() []string {
	return sortedKeys(idx)
}

// FileNames returns the file paths of a collection in sorted order.
func (idx Index) FileNames(collection string) []string {
	return sortedKeys(idx[collection])
}

// Exists reports whether an index file is present at path.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("index path is a directory: %s", path)
		}
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat index: %w", err)
}

// Save writes the index to path in one step: the file either does not exist
// or holds the complete index.
func Save(path string, idx Index) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(idx); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace index: %w", err)
	}

	log.Info().Str("path", path).Int("collections", len(idx)).Msg("Created index")
	return nil
}

// Load reads and validates the index at path.
func Load(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return idx, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("index.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load index schema: %w", err)
	}
	schema, err := compiler.Compile("index.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile index schema: %w", err)
	}
	return schema, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

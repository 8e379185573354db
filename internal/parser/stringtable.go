package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// StringTableParser reads XML string tables: an Entries container of Entry
// elements, each with an ID and one element per text field.
type StringTableParser struct {
	ext string
}

// NewStringTableParser creates a parser for files with the given extension.
func NewStringTableParser(ext string) *StringTableParser {
	return &StringTableParser{ext: strings.ToLower(ext)}
}

func (p *StringTableParser) CanParse(ext string) bool {
	return strings.ToLower(ext) == p.ext
}

func (p *StringTableParser) Parse(filePath string) (*Document, error) {
	return ParseFile(filePath)
}

// Document is a parsed XML document that can be edited and written back.
type Document struct {
	Path string
	doc  *etree.Document
}

// Entry is one localizable unit of a string table.
type Entry struct {
	ID string
	el *etree.Element
}

// ParseFile reads an XML document from disk.
func ParseFile(filePath string) (*Document, error) {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	if err := doc.ReadFromFile(filePath); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse %s: %w: root", filePath, ErrMissingElement)
	}
	return &Document{Path: filePath, doc: doc}, nil
}

// Entries returns the Entry elements in document order.
func (d *Document) Entries() ([]Entry, error) {
	root := d.doc.Root()
	container := root
	if root.Tag != "Entries" {
		container = root.SelectElement("Entries")
		if container == nil {
			return nil, fmt.Errorf("%s: %w: Entries", d.Path, ErrMissingElement)
		}
	}

	elems := container.SelectElements("Entry")
	entries := make([]Entry, 0, len(elems))
	for i, el := range elems {
		id := el.SelectElement("ID")
		if id == nil {
			return nil, fmt.Errorf("%s: entry %d: %w: ID", d.Path, i, ErrMissingElement)
		}
		entries = append(entries, Entry{ID: id.Text(), el: el})
	}
	return entries, nil
}

// Text returns the text of a field. An empty element reads as "".
func (e Entry) Text(field string) (string, error) {
	el := e.el.SelectElement(field)
	if el == nil {
		return "", fmt.Errorf("entry %s: %w: %s", e.ID, ErrMissingElement, field)
	}
	return el.Text(), nil
}

// SetText replaces the text of a field.
func (e Entry) SetText(field, text string) error {
	el := e.el.SelectElement(field)
	if el == nil {
		return fmt.Errorf("entry %s: %w: %s", e.ID, ErrMissingElement, field)
	}
	el.SetText(text)
	return nil
}

// Child returns the text of a direct child of the root element.
func (d *Document) Child(tag string) (string, error) {
	el := d.doc.Root().SelectElement(tag)
	if el == nil {
		return "", fmt.Errorf("%s: %w: %s", d.Path, ErrMissingElement, tag)
	}
	return el.Text(), nil
}

// SetChild replaces the text of a direct child of the root element.
func (d *Document) SetChild(tag, text string) error {
	el := d.doc.Root().SelectElement(tag)
	if el == nil {
		return fmt.Errorf("%s: %w: %s", d.Path, ErrMissingElement, tag)
	}
	el.SetText(text)
	return nil
}

// WriteFile writes the document as UTF-8 with an XML declaration, creating
// parent directories as needed.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if !hasDeclaration(d.doc) {
		d.doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="utf-8"`))
	}
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func hasDeclaration(doc *etree.Document) bool {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			return true
		}
	}
	return false
}

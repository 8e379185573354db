package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrPageMissing reports a page referenced by the index that is not on disk.
	ErrPageMissing = errors.New("page missing")
	// ErrInvalidAddress reports a cell address outside column A or malformed.
	ErrInvalidAddress = errors.New("invalid cell address")
)

// Workbook is a page backed by an .xlsx file with a single sheet.
type Workbook struct {
	file  *excelize.File
	sheet string
	path  string
}

// Creator returns an Opener that creates pages inside dir.
func Creator(dir string) Opener {
	return func(name string) (Page, error) {
		return CreateWorkbook(filepath.Join(dir, name))
	}
}

// CreateWorkbook starts a new workbook that is written to path on Close.
func CreateWorkbook(path string) (*Workbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create page directory: %w", err)
	}
	f := excelize.NewFile()
	return &Workbook{file: f, sheet: f.GetSheetName(f.GetActiveSheetIndex()), path: path}, nil
}

// SetCell stores text as a string cell.
func (w *Workbook) SetCell(cell, text string) error {
	return w.file.SetCellStr(w.sheet, cell, text)
}

// Close saves the workbook to disk.
func (w *Workbook) Close() error {
	_ = w.file.SetColWidth(w.sheet, "A", "A", 120)
	if err := w.file.SaveAs(w.path); err != nil {
		w.file.Close()
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return w.file.Close()
}

// Reader reads cells from pages in a directory, opening each page once.
type Reader struct {
	dir   string
	books map[string]*excelize.File
}

// NewReader creates a reader over the pages in dir.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir, books: make(map[string]*excelize.File)}
}

// Cell returns the text at cell on page. A blank cell reads as "".
func (r *Reader) Cell(page, cell string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil || col != 1 || row < 1 {
		return "", fmt.Errorf("%w: %s!%s", ErrInvalidAddress, page, cell)
	}

	f, err := r.book(page)
	if err != nil {
		return "", err
	}
	v, err := f.GetCellValue(f.GetSheetName(f.GetActiveSheetIndex()), cell)
	if err != nil {
		return "", fmt.Errorf("read %s!%s: %w", page, cell, err)
	}
	return v, nil
}

// Close releases every opened page.
func (r *Reader) Close() error {
	var errs []error
	for name, f := range r.books {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	r.books = make(map[string]*excelize.File)
	return errors.Join(errs...)
}

func (r *Reader) book(page string) (*excelize.File, error) {
	if f, ok := r.books[page]; ok {
		return f, nil
	}
	path := filepath.Join(r.dir, page)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPageMissing, path)
		}
		return nil, fmt.Errorf("stat page: %w", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", path, err)
	}
	r.books[page] = f
	return f, nil
}

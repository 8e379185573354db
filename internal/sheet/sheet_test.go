package sheet

import (
	"errors"
	"path/filepath"
	"testing"
)

type memPage struct {
	cells  map[string]string
	closed bool
}

func (m *memPage) SetCell(cell, text string) error {
	m.cells[cell] = text
	return nil
}

func (m *memPage) Close() error {
	m.closed = true
	return nil
}

type memStore map[string]*memPage

func (s memStore) open(name string) (Page, error) {
	p := &memPage{cells: make(map[string]string)}
	s[name] = p
	return p, nil
}

func TestPaginatorRollsOver(t *testing.T) {
	store := memStore{}
	p, err := NewPaginator("data", MaxLines, store.open)
	if err != nil {
		t.Fatalf("new paginator: %v", err)
	}

	var last Address
	for i := 0; i < MaxLines+1; i++ {
		addr, err := p.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if err := p.Write(addr, "line"); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		last = addr
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if last.Page != "data_translate.part2.xlsx" || last.Cell != "A1" {
		t.Fatalf("line %d landed at %+v", MaxLines+1, last)
	}
	if p.Pages() != 2 {
		t.Fatalf("want 2 body pages, got %d", p.Pages())
	}
	if len(store["data_translate.part1.xlsx"].cells) != MaxLines {
		t.Fatalf("part1 holds %d lines", len(store["data_translate.part1.xlsx"].cells))
	}
	if _, ok := store["data_translate.part3.xlsx"]; ok {
		t.Fatalf("unexpected third page")
	}
	for name, page := range store {
		if !page.closed {
			t.Fatalf("page %s not closed", name)
		}
	}
}

func TestPaginatorFullPageDoesNotOpenNext(t *testing.T) {
	store := memStore{}
	p, err := NewPaginator("data_vx1", 3, store.open)
	if err != nil {
		t.Fatalf("new paginator: %v", err)
	}
	for i := 0; i < 3; i++ {
		addr, _ := p.Next()
		if addr.Cell != CellName(i+1) {
			t.Fatalf("address %d = %s", i, addr.Cell)
		}
	}
	if p.Pages() != 1 {
		t.Fatalf("want 1 page, got %d", p.Pages())
	}
	addr, _ := p.Next()
	if addr.Page != PageName("data_vx1", 2) || addr.Cell != "A1" {
		t.Fatalf("unexpected address %+v", addr)
	}
}

func TestPaginatorTitlesPooled(t *testing.T) {
	store := memStore{}
	p, err := NewPaginator("data", 2, store.open)
	if err != nil {
		t.Fatalf("new paginator: %v", err)
	}
	a, _ := p.Title("Imoen", "Imoen")
	b, _ := p.Title("Gorion's Ward", "Gorion's Ward")
	c, _ := p.Title("Imoen", "ignored")
	if a != "A1" || b != "A2" || c != "A1" {
		t.Fatalf("unexpected title cells %s %s %s", a, b, c)
	}
	titles := store[TitlePageName("data")]
	if titles.cells["A1"] != "Imoen" || len(titles.cells) != 2 {
		t.Fatalf("unexpected title page %v", titles.cells)
	}
	if p.Titles() != 2 {
		t.Fatalf("want 2 titles, got %d", p.Titles())
	}
}

func TestPaginatorRejectsStaleAddress(t *testing.T) {
	store := memStore{}
	p, _ := NewPaginator("data", 1, store.open)
	first, _ := p.Next()
	if _, err := p.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := p.Write(first, "late"); err == nil {
		t.Fatalf("expected error writing to a closed page")
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := CreateWorkbook(filepath.Join(dir, "x.part1.xlsx"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.SetCell("A1", "Hello [0000]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := w.SetCell("A3", "=not a formula"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r := NewReader(dir)
	defer r.Close()

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Hello [0000]"},
		{"A2", ""},
		{"A3", "=not a formula"},
		{"A99", ""},
	}
	for _, tt := range tests {
		got, err := r.Cell("x.part1.xlsx", tt.cell)
		if err != nil {
			t.Fatalf("cell %s: %v", tt.cell, err)
		}
		if got != tt.want {
			t.Fatalf("cell %s = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestReaderErrors(t *testing.T) {
	r := NewReader(t.TempDir())
	if _, err := r.Cell("missing.xlsx", "A1"); !errors.Is(err, ErrPageMissing) {
		t.Fatalf("expected ErrPageMissing, got %v", err)
	}
	for _, cell := range []string{"B1", "A0", "nope"} {
		if _, err := r.Cell("missing.xlsx", cell); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("%s: expected ErrInvalidAddress, got %v", cell, err)
		}
	}
}

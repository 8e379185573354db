package sheet

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// MaxLines is the default number of lines a body page holds.
const MaxLines = 35000

// Address locates one line of text on a page.
type Address struct {
	Page string
	Cell string
}

// Page is a writable spreadsheet page.
type Page interface {
	SetCell(cell, text string) error
	Close() error
}

// Opener creates a new, empty page with the given file name.
type Opener func(name string) (Page, error)

// PageName returns the file name of a body page.
func PageName(collection string, part int) string {
	return fmt.Sprintf("%s_translate.part%d.xlsx", collection, part)
}

// TitlePageName returns the file name of a collection's title pool.
func TitlePageName(collection string) string {
	return collection + "_translate.titles.xlsx"
}

// CellName returns the column A address of a 1-based line.
func CellName(line int) string {
	return fmt.Sprintf("A%d", line)
}

// Paginator hands out line addresses for one collection, rolling over to a
// new body page once the current page is full. Detected titles are pooled on
// a single title page.
type Paginator struct {
	collection string
	maxLines   int
	open       Opener

	part     int
	line     int
	page     Page
	pageName string

	titles     Page
	titleLine  int
	titleCells map[string]string

	lines int
}

// NewPaginator opens the first body page and the title page of collection.
func NewPaginator(collection string, maxLines int, open Opener) (*Paginator, error) {
	if maxLines < 1 {
		maxLines = MaxLines
	}
	p := &Paginator{
		collection: collection,
		maxLines:   maxLines,
		open:       open,
		titleLine:  1,
		titleCells: make(map[string]string),
	}

	titles, err := open(TitlePageName(collection))
	if err != nil {
		return nil, fmt.Errorf("open title page: %w", err)
	}
	p.titles = titles

	if err := p.openPart(1); err != nil {
		titles.Close()
		return nil, err
	}
	return p, nil
}

// Next returns the address of the next free line.
func (p *Paginator) Next() (Address, error) {
	if p.line > p.maxLines {
		if err := p.closePage(); err != nil {
			return Address{}, err
		}
		if err := p.openPart(p.part + 1); err != nil {
			return Address{}, err
		}
	}
	addr := Address{Page: p.pageName, Cell: CellName(p.line)}
	p.line++
	p.lines++
	return addr, nil
}

// Write stores text at an address handed out by Next.
func (p *Paginator) Write(addr Address, text string) error {
	if addr.Page != p.pageName {
		return fmt.Errorf("write %s!%s: page is not open", addr.Page, addr.Cell)
	}
	if err := p.page.SetCell(addr.Cell, text); err != nil {
		return fmt.Errorf("write %s!%s: %w", addr.Page, addr.Cell, err)
	}
	return nil
}

// Title returns the title page cell holding phrase, writing value there the
// first time the phrase is seen.
func (p *Paginator) Title(phrase, value string) (string, error) {
	if cell, ok := p.titleCells[phrase]; ok {
		return cell, nil
	}
	cell := CellName(p.titleLine)
	if err := p.titles.SetCell(cell, value); err != nil {
		return "", fmt.Errorf("write title %s: %w", cell, err)
	}
	p.titleCells[phrase] = cell
	p.titleLine++
	return cell, nil
}

// TitlePage returns the file name of the title page.
func (p *Paginator) TitlePage() string {
	return TitlePageName(p.collection)
}

// Pages returns the number of body pages opened so far.
func (p *Paginator) Pages() int {
	return p.part
}

// Lines returns the number of body lines handed out.
func (p *Paginator) Lines() int {
	return p.lines
}

// Titles returns the number of distinct titles written.
func (p *Paginator) Titles() int {
	return len(p.titleCells)
}

// Close saves the open body page and the title page.
func (p *Paginator) Close() error {
	err := p.closePage()
	if terr := p.titles.Close(); terr != nil && err == nil {
		err = fmt.Errorf("close title page: %w", terr)
	}
	if err == nil {
		log.Info().Str("page", p.TitlePage()).Int("titles", len(p.titleCells)).Msg("Created title page")
	}
	return err
}

func (p *Paginator) openPart(part int) error {
	name := PageName(p.collection, part)
	page, err := p.open(name)
	if err != nil {
		return fmt.Errorf("open page %s: %w", name, err)
	}
	p.part = part
	p.line = 1
	p.page = page
	p.pageName = name
	return nil
}

func (p *Paginator) closePage() error {
	if p.page == nil {
		return nil
	}
	lines := p.line - 1
	if err := p.page.Close(); err != nil {
		return fmt.Errorf("close page %s: %w", p.pageName, err)
	}
	p.page = nil
	log.Info().Str("page", p.pageName).Int("lines", lines).Msg("Created page")
	return nil
}

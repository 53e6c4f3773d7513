// Package layout turns report pages into the three views the section grammars
// read: plain text, positioned words, and detected tables.
package layout

import (
	"context"
	"errors"
)

// ErrPageOutOfRange is returned when a page number is outside 1..NumPages.
var ErrPageOutOfRange = errors.New("page out of range")

// Word is one whitespace-delimited token with its bounding box.
// Top grows downward from the top edge of the page.
type Word struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Top  float64 `json:"top"`
}

// Mid returns the horizontal midpoint of the word.
func (w Word) Mid() float64 {
	return (w.X0 + w.X1) / 2.0
}

// Table is a detected grid of cell strings, row-major, top row first.
type Table [][]string

// Page is the decoded content of one page.
type Page struct {
	Number int
	Text   string
	Words  []Word
	Tables []Table
}

// Document is an opened report. Pages are numbered from 1.
type Document interface {
	NumPages() int
	Page(ctx context.Context, num int) (*Page, error)
	Close() error
}

// Opener opens a document at path.
type Opener interface {
	Open(path string) (Document, error)
}

// StaticDocument is a Document over pages that are already decoded.
type StaticDocument struct {
	Pages []*Page
}

func (d *StaticDocument) NumPages() int { return len(d.Pages) }

func (d *StaticDocument) Page(ctx context.Context, num int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if num < 1 || num > len(d.Pages) {
		return nil, ErrPageOutOfRange
	}
	return d.Pages[num-1], nil
}

func (d *StaticDocument) Close() error { return nil }

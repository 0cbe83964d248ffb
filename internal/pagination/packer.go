package pagination

import (
	"github.com/gompdf/cvpdf/internal/parser/html"
)

// Unit is a break unit with its measured footprint
type Unit struct {
	Node *html.Node
	// Height is the effective height including vertical margins
	Height float64
	// Top is the cumulative offset from the layout root before pagination
	Top float64
}

// Page is an ordered group of units. The last unit of every page but the
// final one is moved to BreakAfter by Style.
type Page struct {
	Units      []Unit
	BreakAfter *Unit
}

// Len returns the number of units on the page, BreakAfter included
func (p Page) Len() int {
	n := len(p.Units)
	if p.BreakAfter != nil {
		n++
	}
	return n
}

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in CSS pixels (96 per inch)
var (
	PageSizeA4     = PageSize{Width: 794, Height: 1123, Name: "A4"}
	PageSizeLetter = PageSize{Width: 816, Height: 1056, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 816, Height: 1344, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 1123, Height: 1587, Name: "A3"}
	PageSizeA5     = PageSize{Width: 559, Height: 794, Name: "A5"}
)

// Mode selects the packing algorithm
type Mode int

const (
	// ModeTwoPhase fills the first page from the units' natural offsets and
	// the remaining pages by accumulated height
	ModeTwoPhase Mode = iota
	// ModeSinglePass packs every page by accumulated height
	ModeSinglePass
)

func (m Mode) String() string {
	switch m {
	case ModeTwoPhase:
		return "two-phase"
	case ModeSinglePass:
		return "single-pass"
	}
	return "unknown"
}

// Pack partitions units into pages in document order. No unit is ever
// split. A page's heights sum below pageHeight - pageMargin unless it holds a
// single unit taller than that. An empty input yields one empty page.
//
// The first page takes units while their natural bottom edge (Top + Height)
// stays above the limit; from the first unit that does not, every unit goes
// through the accumulator, which starts at pageMargin and restarts at the
// height of each unit that opens a new page.
func Pack(units []Unit, pageHeight, pageMargin float64) []Page {
	limit := pageHeight - pageMargin
	if len(units) == 0 {
		return []Page{{}}
	}

	var pages []Page
	first := Page{}
	i := 0
	for ; i < len(units); i++ {
		u := units[i]
		if u.Top+u.Height >= limit {
			break
		}
		first.Units = append(first.Units, u)
	}
	if len(first.Units) > 0 {
		pages = append(pages, first)
	}

	return accumulate(pages, units[i:], pageMargin, limit)
}

// PackSinglePass partitions units with one accumulator for every page. The
// first page starts at the first unit's natural offset, later pages at
// pageMargin.
func PackSinglePass(units []Unit, pageHeight, pageMargin float64) []Page {
	if len(units) == 0 {
		return []Page{{}}
	}
	return accumulate(nil, units, units[0].Top, pageHeight-pageMargin)
}

// accumulate appends pages for units, seeding the running height with start
func accumulate(pages []Page, units []Unit, start, limit float64) []Page {
	if len(units) == 0 {
		return pages
	}

	current := Page{}
	acc := start
	for _, u := range units {
		switch {
		case acc+u.Height < limit, len(current.Units) == 0:
			current.Units = append(current.Units, u)
			acc += u.Height
		default:
			pages = append(pages, current)
			current = Page{Units: []Unit{u}}
			acc = u.Height
		}
	}
	return append(pages, current)
}

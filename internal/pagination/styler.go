package pagination

import (
	"strconv"
)

// BreakClass is added to the last unit of every page except the final one
const BreakClass = "pdf-page-break"

// Style annotates page boundaries on the units' nodes: the first unit of
// every page after the first gets a top margin of pageMargin, and the last
// unit of every page but the final one is moved to BreakAfter and gets
// BreakClass. Nodes are never moved in the tree.
func Style(pages []Page, pageMargin float64) []Page {
	for i := range pages {
		p := &pages[i]
		if len(p.Units) == 0 {
			continue
		}
		if i > 0 {
			p.Units[0].Node.SetStyle("margin-top", px(pageMargin))
		}
		if i < len(pages)-1 {
			last := p.Units[len(p.Units)-1]
			p.Units = p.Units[:len(p.Units)-1]
			last.Node.AddClass(BreakClass)
			p.BreakAfter = &last
		}
	}
	return pages
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

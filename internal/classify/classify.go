// Package classify finds the pagination roles marked on template elements.
package classify

import (
	"github.com/gompdf/cvpdf/internal/parser/html"
)

// RoleAttr is the attribute templates use to mark pagination roles
const RoleAttr = "data-pdf-role"

// Role is a pagination role
type Role string

const (
	RoleNone      Role = ""
	RoleColumn    Role = "column"
	RoleBreakUnit Role = "break-unit"
	RoleStretch   Role = "stretch"
	RoleRoot      Role = "root"
)

// RootFallbackID is the id used to find the root when no element carries RoleRoot
const RootFallbackID = "template"

// RoleOf returns the role marked on n
func RoleOf(n *html.Node) Role {
	if n == nil || !n.IsElement() {
		return RoleNone
	}
	v, _ := n.GetAttr(RoleAttr)
	return Role(v)
}

// Columns returns every column under root in document order
func Columns(root *html.Node) []*html.Node {
	return collect(root, RoleColumn, false, RoleNone)
}

// BreakUnits returns the break units of a column in document order. A break
// unit nested inside another is part of the outer one and is not returned,
// and units of a nested column belong to that column.
func BreakUnits(column *html.Node) []*html.Node {
	return collect(column, RoleBreakUnit, true, RoleColumn)
}

// StretchTargets returns every stretch target under scope in document order
func StretchTargets(scope *html.Node) []*html.Node {
	return collect(scope, RoleStretch, false, RoleNone)
}

// Root returns the template root under scope: the first element marked with
// RoleRoot, else the element with id RootFallbackID, else nil
func Root(scope *html.Node) *html.Node {
	if roots := collect(scope, RoleRoot, true, RoleNone); len(roots) > 0 {
		return roots[0]
	}
	if scope == nil {
		return nil
	}
	return scope.FindByID(RootFallbackID)
}

// collect walks the descendants of scope (scope excluded) in pre-order and
// returns the elements marked with role. atomic stops the walk at a match;
// subtrees marked with fence are skipped.
func collect(scope *html.Node, role Role, atomic bool, fence Role) []*html.Node {
	out := []*html.Node{}
	if scope == nil {
		return out
	}
	for c := scope.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(func(n *html.Node) bool {
			r := RoleOf(n)
			if fence != RoleNone && r == fence {
				return false
			}
			if r != role {
				return true
			}
			out = append(out, n)
			return !atomic
		})
	}
	return out
}

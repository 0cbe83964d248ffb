package html

import (
	"strings"

	"github.com/gompdf/cvpdf/internal/parser/css"
	"golang.org/x/net/html"
)

// NewElement creates a detached element node
func NewElement(tag string) *Node {
	return &Node{Type: html.ElementNode, Data: tag}
}

// IsElement reports whether n is an element node
func (n *Node) IsElement() bool {
	return n != nil && n.Type == html.ElementNode
}

// Tag returns the lower-cased tag name of an element, or "" for other nodes
func (n *Node) Tag() string {
	if !n.IsElement() {
		return ""
	}
	return strings.ToLower(n.Data)
}

// GetAttr returns the value of the named attribute
func (n *Node) GetAttr(key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing an existing value
func (n *Node) SetAttr(key, val string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present
func (n *Node) RemoveAttr(key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if !strings.EqualFold(a.Key, key) {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// ID returns the id attribute
func (n *Node) ID() string {
	v, _ := n.GetAttr("id")
	return v
}

// Classes returns the class list
func (n *Node) Classes() []string {
	v, _ := n.GetAttr("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains name
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list unless it is already there
func (n *Node) AddClass(name string) {
	if name == "" || n.HasClass(name) {
		return
	}
	n.SetAttr("class", strings.Join(append(n.Classes(), name), " "))
}

// RemoveClass removes name from the class list
func (n *Node) RemoveClass(name string) {
	classes := n.Classes()
	out := classes[:0]
	for _, c := range classes {
		if c != name {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(out, " "))
}

// Style returns the inline style value of a property
func (n *Node) Style(property string) string {
	v, _ := n.GetAttr("style")
	for _, d := range css.ParseDeclarations(v) {
		if strings.EqualFold(d.Property, property) {
			return d.Value
		}
	}
	return ""
}

// SetStyle sets one inline style property, keeping the other declarations.
// An empty value removes the property.
func (n *Node) SetStyle(property, value string) {
	v, _ := n.GetAttr("style")
	decls := css.ParseDeclarations(v)
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if strings.EqualFold(d.Property, property) {
			if value == "" || replaced {
				continue
			}
			d.Value = value
			d.Important = false
			replaced = true
		}
		out = append(out, d)
	}
	if !replaced && value != "" {
		out = append(out, &css.Declaration{Property: property, Value: value})
	}
	if len(out) == 0 {
		n.RemoveAttr("style")
		return
	}
	n.SetAttr("style", css.FormatDeclarations(out))
}

// AppendChild adds c as the last child of n, detaching it from its old parent
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	c.Parent = n
	c.PrevSibling = n.LastChild
	c.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
}

// RemoveChild detaches c from n. It is a no-op when c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c == nil || c.Parent != n {
		return
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	} else {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	} else {
		n.LastChild = c.PrevSibling
	}
	c.Parent, c.PrevSibling, c.NextSibling = nil, nil, nil
}

// RemoveChildren detaches every child of n
func (n *Node) RemoveChildren() {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		c.Parent, c.PrevSibling, c.NextSibling = nil, nil, nil
		c = next
	}
	n.FirstChild, n.LastChild = nil, nil
}

// Clone returns a deep copy of n with no parent
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Type: n.Type,
		Data: n.Data,
		Attr: append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(c.Clone())
	}
	return clone
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(fn)
	}
}

// FindByID returns the first element under n (n included) with the given id
func (n *Node) FindByID(id string) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}
		if cur.IsElement() && cur.ID() == id {
			found = cur
			return false
		}
		return true
	})
	return found
}

// FindFirst returns the first element under n (n included) with the given tag
func (n *Node) FindFirst(tag string) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}
		if cur.IsElement() && cur.Tag() == tag {
			found = cur
			return false
		}
		return true
	})
	return found
}

// Elements returns the element children of n
func (n *Node) Elements() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated text content of n
func (n *Node) Text() string {
	var b strings.Builder
	n.Walk(func(cur *Node) bool {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		return true
	})
	return b.String()
}

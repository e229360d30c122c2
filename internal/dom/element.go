package dom

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle to an element node. Two handles for the same node
// compare equal through Is.
type Element struct {
	doc  *Document
	node *html.Node
}

// Is reports whether e and other refer to the same node.
func (e *Element) Is(other *Element) bool {
	return e != nil && other != nil && e.node == other.node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// ID returns the id attribute, or "".
func (e *Element) ID() string {
	v, _ := attr(e.node, "id")
	return v
}

// Attr returns the value of attribute key.
func (e *Element) Attr(key string) (string, bool) { return attr(e.node, key) }

// SetAttr sets attribute key to val.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key.
func (e *Element) RemoveAttr(key string) {
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Classes returns the class list in document order.
func (e *Element) Classes() []string {
	v, _ := attr(e.node, "class")
	return strings.Fields(v)
}

// HasClass reports whether name is in the class list.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.Classes(), name)
}

// AddClass appends names that are not already present.
func (e *Element) AddClass(names ...string) {
	cls := e.Classes()
	for _, n := range names {
		if n != "" && !slices.Contains(cls, n) {
			cls = append(cls, n)
		}
	}
	e.SetAttr("class", strings.Join(cls, " "))
}

// RemoveClass drops names from the class list.
func (e *Element) RemoveClass(names ...string) {
	cls := slices.DeleteFunc(e.Classes(), func(c string) bool {
		return slices.Contains(names, c)
	})
	e.SetAttr("class", strings.Join(cls, " "))
}

// Style returns the inline style value of prop.
func (e *Element) Style(prop string) string {
	for _, d := range e.styleDecls() {
		if d[0] == prop {
			return d[1]
		}
	}
	return ""
}

// SetStyle sets an inline style property.
func (e *Element) SetStyle(prop, value string) {
	decls := e.styleDecls()
	found := false
	for i := range decls {
		if decls[i][0] == prop {
			decls[i][1] = value
			found = true
		}
	}
	if !found {
		decls = append(decls, [2]string{prop, value})
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	e.SetAttr("style", strings.Join(parts, "; "))
}

func (e *Element) styleDecls() [][2]string {
	v, _ := attr(e.node, "style")
	var out [][2]string
	for _, decl := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out = append(out, [2]string{strings.TrimSpace(prop), strings.TrimSpace(val)})
	}
	return out
}

// TextContent returns the concatenated text of every descendant text node.
func (e *Element) TextContent() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.clearChildren()
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// InnerText approximates the rendered text: non-rendered elements are
// skipped, whitespace is collapsed outside <pre>, and <br> and block
// boundaries become line breaks.
func (e *Element) InnerText() string {
	var b strings.Builder
	renderText(&b, e.node, false)
	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n ")
}

func renderText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
			return
		}
		if f := strings.Fields(n.Data); len(f) > 0 {
			if hasLeadingSpace(n.Data) && !endsWithBreak(b) && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Join(f, " "))
			if hasTrailingSpace(n.Data) {
				b.WriteByte(' ')
			}
		}
		return
	case html.ElementNode:
		if _, hidden := attr(n, "hidden"); hidden {
			return
		}
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Head:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.Pre:
			pre = true
		}
	}
	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block && !endsWithBreak(b) {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c, pre)
	}
	if block && !endsWithBreak(b) {
		b.WriteByte('\n')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Dd, atom.Div,
		atom.Dl, atom.Dt, atom.Fieldset, atom.Figure, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Header, atom.Hr,
		atom.Li, atom.Main, atom.Nav, atom.Ol, atom.P, atom.Pre, atom.Section,
		atom.Table, atom.Tr, atom.Ul:
		return true
	}
	return false
}

func endsWithBreak(b *strings.Builder) bool {
	s := b.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func hasLeadingSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func hasTrailingSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// SetInnerHTML replaces the element's children with the parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return err
	}
	e.clearChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// InsertAdjacentHTML parses markup and inserts it at position, one of
// beforebegin, afterbegin, beforeend or afterend.
func (e *Element) InsertAdjacentHTML(position, markup string) error {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return err
	}
	parent := e.node.Parent
	switch strings.ToLower(position) {
	case "beforebegin", "afterend":
		if parent == nil {
			return fmt.Errorf("insert %s: element has no parent", position)
		}
	}
	for _, n := range nodes {
		switch strings.ToLower(position) {
		case "beforeend":
			e.node.AppendChild(n)
		case "afterbegin":
			e.node.InsertBefore(n, e.node.FirstChild)
		case "beforebegin":
			parent.InsertBefore(n, e.node)
		case "afterend":
			parent.InsertBefore(n, e.node.NextSibling)
		default:
			return fmt.Errorf("insert: unknown position %q", position)
		}
	}
	return nil
}

func (e *Element) parseFragment(markup string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: e.node.Data, DataAtom: e.node.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

func (e *Element) clearChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.doc.forget(c)
		e.node.RemoveChild(c)
		c = next
	}
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from its parent and drops its listeners.
func (e *Element) Remove() {
	if e.node.Parent == nil {
		return
	}
	e.doc.forget(e.node)
	e.node.Parent.RemoveChild(e.node)
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Connected reports whether the element is attached to its document.
func (e *Element) Connected() bool {
	n := e.node
	for n.Parent != nil {
		n = n.Parent
	}
	return n == e.doc.root
}

// AddEventListener subscribes fn to events of type typ on this element.
func (e *Element) AddEventListener(typ string, fn Listener) (remove func()) {
	return e.doc.addListener(e.node, typ, fn)
}

// Dispatch delivers ev to the element's listeners and returns it.
func (e *Element) Dispatch(ev *Event) *Event {
	return e.doc.dispatch(e.node, e, ev)
}

// Package dom is a small document tree over golang.org/x/net/html: lookup by
// id, text extraction, node creation, insertion and removal, and per-node
// event listeners.
//
// A Document is not safe for concurrent use. The page runtime only touches
// it from its event loop.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed page.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]*listener
	seq       int
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]*listener),
	}, nil
}

// ParseString parses an HTML document held in s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Body returns the <body> element. The HTML parser always synthesises one.
func (d *Document) Body() *Element {
	if n := findNode(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Body }); n != nil {
		return d.wrap(n)
	}
	return nil
}

// GetElementByID returns the first connected element whose id attribute
// equals id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	n := findNode(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

// CreateElement returns a new, unattached element.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on error.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// AddEventListener subscribes fn to document-level events such as
// DOMContentLoaded. The returned func unsubscribes.
func (d *Document) AddEventListener(typ string, fn Listener) (remove func()) {
	return d.addListener(d.root, typ, fn)
}

// Dispatch delivers ev to document-level listeners.
func (d *Document) Dispatch(ev *Event) *Event {
	return d.dispatch(d.root, nil, ev)
}

func (d *Document) wrap(n *html.Node) *Element {
	return &Element{doc: d, node: n}
}

// forget drops listeners registered on n and its descendants.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return true
	})
}

func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Package extract copies the text of a page element to the clipboard.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/dom"
	"go.klb.dev/forgeclip/internal/loop"
)

// ErrElementNotFound is the failure reason when no element has the
// requested id. It is an expected outcome, not a fault.
var ErrElementNotFound = errors.New("element not found")

// Extractor resolves element text on the page's loop and hands it to a
// clipboard writer.
type Extractor struct {
	loop   *loop.Loop
	doc    *dom.Document
	writer clip.Writer
}

// New returns an Extractor reading from doc and writing through w.
func New(l *loop.Loop, doc *dom.Document, w clip.Writer) *Extractor {
	return &Extractor{loop: l, doc: doc, writer: w}
}

// Writer returns the clipboard writer copies go through.
func (x *Extractor) Writer() clip.Writer { return x.writer }

// Resolve returns the text of the element with the given id: its text
// content, or its rendered text when the content is empty. It must run on
// the loop.
func (x *Extractor) Resolve(id string) (string, error) {
	el := x.doc.GetElementByID(id)
	if el == nil {
		slog.Error("element not found", "id", id)
		return "", fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	text := el.TextContent()
	if text == "" {
		text = el.InnerText()
	}
	return text, nil
}

// CopyElement copies the text of element id. A missing element fails
// without calling the writer; otherwise the result is the writer's. It must
// not be called from the loop.
func (x *Extractor) CopyElement(ctx context.Context, id string) clip.Result {
	var (
		text string
		err  error
	)
	if lerr := x.loop.Do(ctx, func() { text, err = x.Resolve(id) }); lerr != nil {
		return clip.Failed(fmt.Errorf("resolve %q: %w", id, lerr))
	}
	if err != nil {
		return clip.Failed(err)
	}
	return clip.Copy(ctx, x.writer, text)
}

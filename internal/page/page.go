// Package page hosts a rendered prompt page: its document, event loop,
// toast host and copy buttons. It exposes the page's entry points to the
// CLI and RPC layers, which call them from their own goroutines.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.klb.dev/forgeclip/internal/binder"
	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/dom"
	"go.klb.dev/forgeclip/internal/extract"
	"go.klb.dev/forgeclip/internal/loop"
	"go.klb.dev/forgeclip/internal/toast"
)

// Defaults for the button wired when the page finishes loading.
const (
	DefaultButton = "copyBtn"
	DefaultSource = "promptContent"
)

var (
	// ErrNoButton is returned by Click when no binding exists for the id.
	ErrNoButton = errors.New("no copy button bound")

	// ErrNotLoaded is returned by calls made before Run delivered
	// DOMContentLoaded.
	ErrNotLoaded = errors.New("page not loaded")
)

// Options configures a page.
type Options struct {
	Clipboard   clip.Writer
	Clock       loop.Clock
	RevertDelay time.Duration
	ToastDelay  time.Duration

	// Button and Source are the pair bound on DOMContentLoaded. Empty
	// means DefaultButton / DefaultSource.
	Button string
	Source string
}

// Page is a loaded document plus the runtime that drives it.
type Page struct {
	opts      Options
	loop      *loop.Loop
	doc       *dom.Document
	host      *toast.Host
	toasts    *toast.Presenter
	extractor *extract.Extractor
	loaded    chan struct{}
	runOnce   sync.Once

	// bindings is only touched on the loop.
	bindings map[string]*binder.Binding
}

// Load parses the page markup from r. Call Run to start it.
func Load(r io.Reader, opts Options) (*Page, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clip.NewMemory()
	}
	if opts.Button == "" {
		opts.Button = DefaultButton
	}
	if opts.Source == "" {
		opts.Source = DefaultSource
	}

	l := loop.New(opts.Clock)
	p := &Page{
		opts:      opts,
		loop:      l,
		doc:       doc,
		extractor: extract.New(l, doc, opts.Clipboard),
		loaded:    make(chan struct{}),
		bindings:  make(map[string]*binder.Binding),
	}
	doc.AddEventListener(dom.EventContentLoaded, func(*dom.Event) {
		p.bind(p.opts.Button, p.opts.Source)
	})
	return p, nil
}

// LoadString parses page markup held in s.
func LoadString(s string, opts Options) (*Page, error) {
	return Load(strings.NewReader(s), opts)
}

// Run sets up the toast host, fires DOMContentLoaded once and processes
// events until ctx is cancelled.
func (p *Page) Run(ctx context.Context) {
	p.runOnce.Do(func() {
		_ = p.loop.Post(func() {
			p.host = toast.NewHost(p.doc)
			p.toasts = toast.NewPresenter(p.loop, p.host, p.opts.ToastDelay)
			p.doc.Dispatch(dom.NewEvent(dom.EventContentLoaded))
			close(p.loaded)
			slog.Info("page loaded",
				"clipboard", p.opts.Clipboard.Name(),
				"buttons", len(p.bindings),
			)
		})
		p.loop.Run(ctx)
	})
}

// Close stops the page's loop.
func (p *Page) Close() { p.loop.Close() }

// Loaded is closed once DOMContentLoaded has been delivered.
func (p *Page) Loaded() <-chan struct{} { return p.loaded }

// do runs fn on the loop once the page is loaded.
func (p *Page) do(ctx context.Context, fn func()) error {
	select {
	case <-p.loaded:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.loop.Done():
		return ErrNotLoaded
	}
	return p.loop.Do(ctx, fn)
}

// CopyText copies text to the page's clipboard.
func (p *Page) CopyText(ctx context.Context, text string) clip.Result {
	return clip.Copy(ctx, p.opts.Clipboard, text)
}

// CopyElement copies the text of the element with the given id.
func (p *Page) CopyElement(ctx context.Context, id string) clip.Result {
	select {
	case <-p.loaded:
	case <-ctx.Done():
		return clip.Failed(ctx.Err())
	case <-p.loop.Done():
		return clip.Failed(ErrNotLoaded)
	}
	return p.extractor.CopyElement(ctx, id)
}

// ShowToast displays msg in the page's toast host and returns the toast id.
func (p *Page) ShowToast(ctx context.Context, msg string, cat toast.Category) (string, error) {
	var id string
	err := p.do(ctx, func() { id = p.toasts.Show(msg, cat).ID })
	return id, err
}

// DismissToast hides a visible toast. It reports whether one was found.
func (p *Page) DismissToast(ctx context.Context, id string) (bool, error) {
	var found bool
	err := p.do(ctx, func() { found = p.toasts.Dismiss(id) })
	return found, err
}

// BindButton wires buttonID to copy sourceID. It reports false, without an
// error, when the page has no such button.
func (p *Page) BindButton(ctx context.Context, buttonID, sourceID string) (bool, error) {
	var ok bool
	err := p.do(ctx, func() { ok = p.bind(buttonID, sourceID) })
	return ok, err
}

// bind replaces any earlier binding of buttonID, so the button never
// carries two click handlers.
func (p *Page) bind(buttonID, sourceID string) bool {
	if p.doc.GetElementByID(buttonID) == nil {
		return false
	}
	if old, ok := p.bindings[buttonID]; ok {
		old.Unbind()
		delete(p.bindings, buttonID)
	}
	b := binder.Bind(p.loop, p.doc, p.extractor, p.toasts, buttonID, sourceID, binder.Options{
		RevertDelay: p.opts.RevertDelay,
	})
	if b == nil {
		return false
	}
	p.bindings[buttonID] = b
	return true
}

// ClickResult is the feedback a click produced.
type ClickResult struct {
	Result clip.Result
	State  binder.State
	Label  string
}

// Click dispatches a click on a bound button and waits for its feedback.
func (p *Page) Click(ctx context.Context, buttonID string) (ClickResult, error) {
	var (
		ev    *dom.Event
		bound bool
	)
	err := p.do(ctx, func() {
		el := p.doc.GetElementByID(buttonID)
		if _, ok := p.bindings[buttonID]; !ok || el == nil {
			return
		}
		bound = true
		ev = el.Dispatch(dom.NewEvent(dom.EventClick))
	})
	if err != nil {
		return ClickResult{}, err
	}
	if !bound {
		return ClickResult{}, fmt.Errorf("%w: %q", ErrNoButton, buttonID)
	}

	select {
	case <-ev.Settled():
	case <-ctx.Done():
		return ClickResult{}, ctx.Err()
	case <-p.loop.Done():
		return ClickResult{}, loop.ErrClosed
	}

	var res ClickResult
	err = p.loop.Do(ctx, func() {
		b := p.bindings[buttonID]
		res = ClickResult{Result: b.Last(), State: b.State(), Label: b.Label()}
	})
	return res, err
}

// ButtonStatus describes one binding.
type ButtonStatus struct {
	Button string
	Source string
	State  string
	Label  string
	Clicks int
}

// ToastStatus describes one visible toast.
type ToastStatus struct {
	ID       string
	Category string
	Message  string
	Shown    time.Time
}

// Snapshot is the page's visible state.
type Snapshot struct {
	Clipboard string
	Buttons   []ButtonStatus
	Toasts    []ToastStatus
}

// Snapshot captures the current buttons and toasts.
func (p *Page) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := p.do(ctx, func() {
		s.Clipboard = p.opts.Clipboard.Name()
		for _, b := range p.bindings {
			s.Buttons = append(s.Buttons, ButtonStatus{
				Button: b.ButtonID(),
				Source: b.SourceID(),
				State:  b.State().String(),
				Label:  b.Label(),
				Clicks: b.Clicks(),
			})
		}
		for _, t := range p.toasts.Visible() {
			s.Toasts = append(s.Toasts, ToastStatus{
				ID:       t.ID,
				Category: string(t.Category),
				Message:  t.Message,
				Shown:    t.Shown,
			})
		}
	})
	sort.Slice(s.Buttons, func(i, j int) bool { return s.Buttons[i].Button < s.Buttons[j].Button })
	return s, err
}

// HTML renders the live document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var out string
	err := p.do(ctx, func() { out = p.doc.String() })
	return out, err
}

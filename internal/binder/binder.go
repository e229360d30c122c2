// Package binder wires a button to copy a source element's text, with the
// button itself as the feedback.
//
// Per click:
//
//	idle ─click─▶ pending ─ok─▶ copied ─revert delay─▶ idle
//	                  └──fail─▶ (error toast) ─▶ idle
//
// A successful click while a revert is pending cancels that revert and
// starts a new one, so the button returns to idle exactly one delay after
// the last success. Clicks are not debounced.
package binder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/dom"
	"go.klb.dev/forgeclip/internal/extract"
	"go.klb.dev/forgeclip/internal/loop"
	"go.klb.dev/forgeclip/internal/toast"
)

// State is the button's feedback state.
type State int

const (
	Idle State = iota
	Pending
	Copied
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Copied:
		return "copied"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// DefaultRevertDelay is how long the copied indicator stays up.
	DefaultRevertDelay = 2000 * time.Millisecond

	// CopiedHTML replaces the button's content after a successful copy.
	CopiedHTML = `<i class="bi bi-check me-1"></i>Copied!`

	// FailureMessage is the error toast shown when a copy fails.
	FailureMessage = "Failed to copy to clipboard"

	idleClass   = "btn-outline-primary"
	copiedClass = "btn-success"
)

// Options tunes a binding. Zero values mean the defaults.
type Options struct {
	RevertDelay time.Duration
}

// Binding is one button wired to one source element. Its fields are only
// touched on the loop.
type Binding struct {
	loop      *loop.Loop
	button    *dom.Element
	sourceID  string
	extractor *extract.Extractor
	toasts    *toast.Presenter
	delay     time.Duration

	remove   func()
	unbound  bool
	state    State
	inFlight int
	idleHTML string
	revert   *loop.Timer
	last     clip.Result
	clicks   int
}

// Bind attaches the click handler to the button with id buttonID. It returns
// nil, without logging, when the page has no such button. It must run on
// the loop.
func Bind(
	l *loop.Loop,
	doc *dom.Document,
	x *extract.Extractor,
	toasts *toast.Presenter,
	buttonID, sourceID string,
	opts Options,
) *Binding {
	button := doc.GetElementByID(buttonID)
	if button == nil {
		return nil
	}
	if opts.RevertDelay <= 0 {
		opts.RevertDelay = DefaultRevertDelay
	}
	b := &Binding{
		loop:      l,
		button:    button,
		sourceID:  sourceID,
		extractor: x,
		toasts:    toasts,
		delay:     opts.RevertDelay,
	}
	b.remove = button.AddEventListener(dom.EventClick, b.onClick)
	slog.Debug("copy button bound", "button", buttonID, "source", sourceID)
	return b
}

// Unbind detaches the click handler and puts the button back to its idle
// markup. Clicks still in flight settle without touching the button. Loop
// only.
func (b *Binding) Unbind() {
	if b.unbound {
		return
	}
	b.unbound = true
	b.remove()
	b.revert.Stop()
	if b.state == Copied {
		b.restore()
	}
	b.state = Idle
}

// ButtonID returns the bound button's id.
func (b *Binding) ButtonID() string { return b.button.ID() }

// SourceID returns the id of the element copied on click.
func (b *Binding) SourceID() string { return b.sourceID }

// State returns the current feedback state. Loop only.
func (b *Binding) State() State { return b.state }

// Label returns the button's visible text. Loop only.
func (b *Binding) Label() string { return b.button.TextContent() }

// Last returns the result of the most recently settled click. Loop only.
func (b *Binding) Last() clip.Result { return b.last }

// Clicks returns how many clicks the binding has handled. Loop only.
func (b *Binding) Clicks() int { return b.clicks }

func (b *Binding) onClick(ev *dom.Event) {
	b.clicks++
	b.inFlight++
	if b.state == Idle {
		b.state = Pending
	}
	release := ev.Hold()

	text, err := b.extractor.Resolve(b.sourceID)
	if err != nil {
		b.settle(clip.Failed(err))
		release()
		return
	}

	w := b.extractor.Writer()
	b.loop.Go(func() func() {
		res := clip.Copy(context.Background(), w, text)
		return func() {
			b.settle(res)
			release()
		}
	}, release)
}

func (b *Binding) settle(res clip.Result) {
	b.inFlight--
	b.last = res
	if b.unbound {
		return
	}
	if !res.OK() {
		b.toasts.Show(FailureMessage, toast.Error)
		if b.state == Pending && b.inFlight == 0 {
			b.state = Idle
		}
		return
	}
	b.showCopied()
}

func (b *Binding) showCopied() {
	if b.state != Copied {
		b.idleHTML = b.button.InnerHTML()
		if err := b.button.SetInnerHTML(CopiedHTML); err != nil {
			slog.Error("copy button update failed", "err", err)
			return
		}
		b.button.RemoveClass(idleClass)
		b.button.AddClass(copiedClass)
		b.state = Copied
	}
	b.revert.Stop()
	b.revert = b.loop.AfterFunc(b.delay, b.restore)
}

func (b *Binding) restore() {
	if err := b.button.SetInnerHTML(b.idleHTML); err != nil {
		slog.Error("copy button restore failed", "err", err)
	}
	b.button.AddClass(idleClass)
	b.button.RemoveClass(copiedClass)
	b.revert = nil
	if b.inFlight > 0 {
		b.state = Pending
	} else {
		b.state = Idle
	}
}

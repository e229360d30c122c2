package binder

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/dom"
	"go.klb.dev/forgeclip/internal/extract"
	"go.klb.dev/forgeclip/internal/loop"
	"go.klb.dev/forgeclip/internal/loop/looptest"
	"go.klb.dev/forgeclip/internal/toast"
)

const page = `<html><body>
<button id="copyBtn" class="btn btn-outline-primary"><i class="bi bi-clipboard me-1"></i>Copy</button>
<pre id="promptContent">Hello</pre>
</body></html>`

const idleHTML = `<i class="bi bi-clipboard me-1"></i>Copy`

type fixture struct {
	t     *testing.T
	loop  *loop.Loop
	clock *looptest.Clock
	doc   *dom.Document
	toast *toast.Presenter
	b     *Binding
}

func newFixture(t *testing.T, markup string, w clip.Writer) *fixture {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatal(err)
	}
	clock := looptest.NewClock(time.UnixMilli(1700000000000))
	l := loop.New(clock)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)

	f := &fixture{t: t, loop: l, clock: clock, doc: doc}
	f.do(func() {
		f.toast = toast.NewPresenter(l, toast.NewHost(doc), 0)
		x := extract.New(l, doc, w)
		f.b = Bind(l, doc, x, f.toast, "copyBtn", "promptContent", Options{})
	})
	return f
}

func (f *fixture) do(fn func()) {
	f.t.Helper()
	if err := f.loop.Do(context.Background(), fn); err != nil {
		f.t.Fatalf("loop: %v", err)
	}
}

func (f *fixture) click() {
	f.t.Helper()
	var ev *dom.Event
	f.do(func() { ev = f.doc.GetElementByID("copyBtn").Dispatch(dom.NewEvent(dom.EventClick)) })
	select {
	case <-ev.Settled():
	case <-time.After(5 * time.Second):
		f.t.Fatal("click never settled")
	}
}

func (f *fixture) advance(d time.Duration) {
	f.t.Helper()
	f.clock.Advance(d)
	f.do(func() {})
}

type snapshot struct {
	state   State
	label   string
	html    string
	classes string
	toasts  []*toast.Toast
}

func (f *fixture) snap() snapshot {
	f.t.Helper()
	var s snapshot
	f.do(func() {
		btn := f.doc.GetElementByID("copyBtn")
		s = snapshot{
			state:   f.b.State(),
			label:   f.b.Label(),
			html:    btn.InnerHTML(),
			classes: strings.Join(btn.Classes(), " "),
			toasts:  f.toast.Visible(),
		}
	})
	return s
}

func TestClickCopiesAndReverts(t *testing.T) {
	t.Parallel()
	mem := clip.NewMemory()
	f := newFixture(t, page, mem)

	f.click()
	if mem.Text() != "Hello" {
		t.Fatalf("clipboard = %q", mem.Text())
	}
	s := f.snap()
	if s.state != Copied || s.label != "Copied!" || s.html != CopiedHTML {
		t.Fatalf("after click: %+v", s)
	}
	if s.classes != "btn btn-success" {
		t.Errorf("classes = %q", s.classes)
	}
	if len(s.toasts) != 0 {
		t.Errorf("unexpected toasts: %d", len(s.toasts))
	}

	f.advance(DefaultRevertDelay - time.Millisecond)
	if s := f.snap(); s.state != Copied {
		t.Fatalf("reverted early: %+v", s)
	}

	f.advance(time.Millisecond)
	s = f.snap()
	if s.state != Idle || s.label != "Copy" || s.html != idleHTML {
		t.Fatalf("after revert: %+v", s)
	}
	if s.classes != "btn btn-outline-primary" {
		t.Errorf("classes = %q", s.classes)
	}
}

func TestMissingSourceShowsErrorToast(t *testing.T) {
	t.Parallel()
	mem := clip.NewMemory()
	f := newFixture(t, `<html><body><button id="copyBtn" class="btn btn-outline-primary">Copy</button></body></html>`, mem)

	f.click()
	s := f.snap()
	if s.state != Idle || s.label != "Copy" {
		t.Fatalf("button changed on failure: %+v", s)
	}
	if len(s.toasts) != 1 || s.toasts[0].Category != toast.Error || s.toasts[0].Message != FailureMessage {
		t.Fatalf("toasts = %+v", s.toasts)
	}
	if mem.Writes() != 0 {
		t.Errorf("clipboard called %d times", mem.Writes())
	}
}

func TestRejectedWriteShowsErrorToast(t *testing.T) {
	t.Parallel()
	mem := clip.NewMemory()
	mem.Reject(clip.ErrRejected)
	f := newFixture(t, page, mem)

	f.click()
	s := f.snap()
	if s.state != Idle || s.html != idleHTML || s.classes != "btn btn-outline-primary" {
		t.Fatalf("button changed on failure: %+v", s)
	}
	if len(s.toasts) != 1 {
		t.Fatalf("toasts = %d", len(s.toasts))
	}

	// Failures do not lock the button.
	mem.Reject(nil)
	f.click()
	if s := f.snap(); s.state != Copied {
		t.Fatalf("retry did not copy: %+v", s)
	}
}

func TestMissingButtonIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t, `<html><body><pre id="promptContent">Hello</pre></body></html>`, clip.NewMemory())
	if f.b != nil {
		t.Fatal("Bind returned a binding for a missing button")
	}
}

func TestSecondClickRestartsRevert(t *testing.T) {
	t.Parallel()
	f := newFixture(t, page, clip.NewMemory())

	f.click()
	f.advance(1500 * time.Millisecond)
	f.click()

	// The first revert would have fired here.
	f.advance(600 * time.Millisecond)
	if s := f.snap(); s.state != Copied {
		t.Fatalf("first timer still fired: %+v", s)
	}

	f.advance(1400 * time.Millisecond)
	s := f.snap()
	if s.state != Idle || s.html != idleHTML {
		t.Fatalf("after second revert: %+v", s)
	}
	if n := f.clock.Pending(); n != 0 {
		t.Errorf("pending timers = %d", n)
	}
	var clicks int
	f.do(func() { clicks = f.b.Clicks() })
	if clicks != 2 {
		t.Errorf("clicks = %d", clicks)
	}
}

type gatedWriter struct {
	gate chan struct{}
	mem  *clip.Memory
}

func (g *gatedWriter) Name() string { return "gated" }

func (g *gatedWriter) WriteText(ctx context.Context, text string) error {
	<-g.gate
	return g.mem.WriteText(ctx, text)
}

func TestPendingWhileClipboardBusy(t *testing.T) {
	t.Parallel()
	w := &gatedWriter{gate: make(chan struct{}), mem: clip.NewMemory()}
	f := newFixture(t, page, w)

	var ev *dom.Event
	f.do(func() { ev = f.doc.GetElementByID("copyBtn").Dispatch(dom.NewEvent(dom.EventClick)) })

	// The page stays responsive while the write is outstanding.
	if s := f.snap(); s.state != Pending || s.label != "Copy" {
		t.Fatalf("while pending: %+v", s)
	}

	close(w.gate)
	<-ev.Settled()
	s := f.snap()
	if s.state != Copied {
		t.Fatalf("after write: %+v", s)
	}
	var last clip.Result
	f.do(func() { last = f.b.Last() })
	if !last.OK() || last.Backend != "gated" || last.Bytes != len("Hello") {
		t.Errorf("last = %+v", last)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()
	for s, want := range map[State]string{Idle: "idle", Pending: "pending", Copied: "copied", State(9): "State(9)"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", int(s), s.String())
		}
	}
}

func TestUnbindRestoresAndDetaches(t *testing.T) {
	t.Parallel()
	mem := clip.NewMemory()
	f := newFixture(t, page, mem)

	f.click()
	if s := f.snap(); s.state != Copied {
		t.Fatalf("after click: %+v", s)
	}
	f.do(func() { f.b.Unbind() })
	s := f.snap()
	if s.state != Idle || s.html != idleHTML || !strings.Contains(s.classes, "btn-outline-primary") {
		t.Fatalf("after unbind: %+v", s)
	}

	// A click after Unbind reaches no handler.
	var ev *dom.Event
	f.do(func() { ev = f.doc.GetElementByID("copyBtn").Dispatch(dom.NewEvent(dom.EventClick)) })
	<-ev.Settled()
	var clicks int
	f.do(func() { clicks = f.b.Clicks() })
	if clicks != 1 || mem.Writes() != 1 {
		t.Errorf("clicks = %d, writes = %d after unbind", clicks, mem.Writes())
	}

	// The old revert timer no longer fires.
	f.advance(DefaultRevertDelay)
	if s := f.snap(); s.html != idleHTML {
		t.Errorf("after delay: %+v", s)
	}
}

func TestClickSettlesWhenLoopStopsMidWrite(t *testing.T) {
	t.Parallel()
	w := &gatedWriter{gate: make(chan struct{}), mem: clip.NewMemory()}
	f := newFixture(t, page, w)

	var ev *dom.Event
	f.do(func() { ev = f.doc.GetElementByID("copyBtn").Dispatch(dom.NewEvent(dom.EventClick)) })
	f.loop.Close()
	close(w.gate)

	select {
	case <-ev.Settled():
	case <-time.After(5 * time.Second):
		t.Fatal("click never settled after the loop stopped")
	}
}

package toast

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.klb.dev/forgeclip/internal/dom"
	"go.klb.dev/forgeclip/internal/loop"
	"go.klb.dev/forgeclip/internal/loop/looptest"
)

type fixture struct {
	t     *testing.T
	loop  *loop.Loop
	clock *looptest.Clock
	doc   *dom.Document
	host  *Host
	p     *Presenter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc, err := dom.ParseString(`<html><body><main id="app"></main></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	clock := looptest.NewClock(time.UnixMilli(1700000000123))
	l := loop.New(clock)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)

	f := &fixture{t: t, loop: l, clock: clock, doc: doc}
	f.do(func() {
		f.host = NewHost(doc)
		f.p = NewPresenter(l, f.host, 0)
	})
	return f
}

func (f *fixture) do(fn func()) {
	f.t.Helper()
	if err := f.loop.Do(context.Background(), fn); err != nil {
		f.t.Fatalf("loop: %v", err)
	}
}

// advance moves the clock and waits for the fired callbacks to run.
func (f *fixture) advance(d time.Duration) {
	f.t.Helper()
	f.clock.Advance(d)
	f.do(func() {})
}

func (f *fixture) containers() int {
	n := 0
	f.do(func() {
		for _, c := range f.doc.Body().Children() {
			if c.ID() == ContainerID {
				n++
			}
		}
	})
	return n
}

func TestHostCreatedOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.do(func() {
		again := NewHost(f.doc)
		if !again.Container().Is(f.host.Container()) {
			t.Error("second host created a new container")
		}
		c := f.host.Container()
		if got := strings.Join(c.Classes(), " "); got != "position-fixed bottom-0 end-0 p-3" {
			t.Errorf("classes = %q", got)
		}
		if c.Style("z-index") != "1100" {
			t.Errorf("z-index = %q", c.Style("z-index"))
		}
	})
	if n := f.containers(); n != 1 {
		t.Fatalf("containers = %d", n)
	}
}

func TestShowAddsOneNodePerCall(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var ids []string
	for i := 0; i < 3; i++ {
		f.do(func() { ids = append(ids, f.p.Show("Saved", Success).ID) })
	}
	if ids[0] != "toast-1700000000123" || ids[1] != "toast-1700000000123-2" || ids[2] != "toast-1700000000123-3" {
		t.Errorf("ids = %v", ids)
	}
	f.do(func() {
		if n := len(f.host.Container().Children()); n != 3 {
			t.Errorf("toasts in container = %d", n)
		}
		for _, id := range ids {
			if f.doc.GetElementByID(id) == nil {
				t.Errorf("toast %s missing", id)
			}
		}
	})
	if n := f.containers(); n != 1 {
		t.Errorf("containers = %d", n)
	}
}

func TestMarkup(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		cat      Category
		bg, icon string
		label    string
	}{
		{Success, "bg-success", "bi-check-circle", "Success"},
		{Error, "bg-danger", "bi-x-circle", "Error"},
		{Warning, "bg-warning", "bi-info-circle", "Warning"},
		{Info, "bg-info", "bi-info-circle", "Info"},
		{ParseCategory("debug"), "bg-secondary", "bi-info-circle", "Debug"},
	}
	for _, tt := range tests {
		f.do(func() {
			el := f.p.Show("<b>msg</b>", tt.cat).Element()
			if !el.HasClass(tt.bg) || !el.HasClass("toast") || !el.HasClass("show") {
				t.Errorf("%s: classes = %v", tt.cat, el.Classes())
			}
			if tt.bg != "bg-danger" && el.HasClass("bg-danger") {
				t.Errorf("%s rendered as an error", tt.cat)
			}
			markup := el.InnerHTML()
			if !strings.Contains(markup, tt.icon) {
				t.Errorf("%s: icon missing in %s", tt.cat, markup)
			}
			if !strings.Contains(el.TextContent(), tt.label) {
				t.Errorf("%s: label missing in %q", tt.cat, el.TextContent())
			}
			if !strings.Contains(markup, "&lt;b&gt;msg&lt;/b&gt;") {
				t.Errorf("%s: message not escaped: %s", tt.cat, markup)
			}
			if !strings.Contains(markup, `data-bs-dismiss="toast"`) {
				t.Errorf("%s: dismiss control missing", tt.cat)
			}
		})
	}
}

func TestAutoDismissRemovesNode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var tst *Toast
	f.do(func() { tst = f.p.Show("Copied", Success) })

	f.advance(DefaultDelay - time.Millisecond)
	f.do(func() {
		if f.doc.GetElementByID(tst.ID) == nil {
			t.Fatal("toast removed before its delay")
		}
	})

	f.advance(time.Millisecond)
	f.do(func() {
		if f.doc.GetElementByID(tst.ID) != nil {
			t.Error("toast still in the tree after hiding")
		}
		if !tst.Hidden() {
			t.Error("toast not marked hidden")
		}
		if len(f.p.Visible()) != 0 {
			t.Errorf("visible = %d", len(f.p.Visible()))
		}
		if f.doc.GetElementByID(ContainerID) == nil {
			t.Error("container removed with the last toast")
		}
	})
}

func TestManualDismiss(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var a, b *Toast
	f.do(func() {
		a = f.p.Show("first", Info)
		f.clock.Advance(time.Millisecond)
		b = f.p.Show("second", Warning)
	})
	f.do(func() {
		if !f.p.Dismiss(a.ID) {
			t.Fatal("Dismiss did not find the toast")
		}
		if f.p.Dismiss(a.ID) {
			t.Error("second Dismiss found a removed toast")
		}
		if f.doc.GetElementByID(a.ID) != nil {
			t.Error("dismissed toast still present")
		}
		if f.doc.GetElementByID(b.ID) == nil {
			t.Error("other toast removed")
		}
	})

	// The dismissed toast's timer must not fire again.
	if n := f.clock.Pending(); n != 1 {
		t.Errorf("pending timers = %d, want 1", n)
	}
}

func TestHiddenEventIsObservable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	hidden := 0
	f.do(func() {
		tst := f.p.Show("x", Info)
		tst.Element().AddEventListener(dom.EventHidden, func(*dom.Event) { hidden++ })
	})
	f.advance(DefaultDelay)
	f.advance(DefaultDelay)
	if hidden != 1 {
		t.Fatalf("hidden fired %d times", hidden)
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	if ParseCategory("") != Info {
		t.Error("empty category is not info")
	}
	upper := ParseCategory("ERROR")
	if upper == Error || upper.Known() {
		t.Error("ERROR matched the error category")
	}
	if st := upper.Style(); st.Background != "bg-secondary" || upper.Label() != "ERROR" {
		t.Errorf("ERROR style = %+v, label %q", st, upper.Label())
	}
	if ParseCategory("debug").Known() {
		t.Error("debug reported as known")
	}
	if got := Category("").Label(); got != "" {
		t.Errorf("empty label = %q", got)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render("Failed to copy to clipboard", Error)
	for _, want := range []string{"✖", "Error", "Failed to copy to clipboard", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("render lacks %q:\n%s", want, out)
		}
	}
	if out := Render("x", Category("debug")); !strings.Contains(out, "Debug") {
		t.Errorf("neutral render lacks label:\n%s", out)
	}
}

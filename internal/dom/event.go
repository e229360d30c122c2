package dom

import (
	"log/slog"
	"sync"

	"golang.org/x/net/html"
)

// Event types dispatched by the page runtime.
const (
	EventContentLoaded = "DOMContentLoaded"
	EventClick         = "click"
	EventHidden        = "hidden"
)

// Listener handles an event. It runs synchronously inside Dispatch; a
// listener that continues asynchronously calls ev.Hold and releases the
// hold when done.
type Listener func(ev *Event)

type listener struct {
	id int
	fn Listener
}

// Event is a single dispatch of a named event.
type Event struct {
	Type   string
	Target *Element

	mu      sync.Mutex
	holds   int
	settled chan struct{}
}

// NewEvent returns an undispatched event of type typ.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, settled: make(chan struct{})}
}

// Hold keeps the event unsettled until the returned func is called. Only
// valid while a listener for the event is running.
func (e *Event) Hold() (release func()) {
	e.mu.Lock()
	e.holds++
	e.mu.Unlock()
	var once sync.Once
	return func() { once.Do(e.release) }
}

func (e *Event) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holds--
	if e.holds == 0 {
		close(e.settled)
	}
}

// Settled is closed once every listener, including asynchronous
// continuations that took a Hold, has finished.
func (e *Event) Settled() <-chan struct{} { return e.settled }

func (d *Document) addListener(n *html.Node, typ string, fn Listener) func() {
	d.seq++
	l := &listener{id: d.seq, fn: fn}
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]*listener)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], l)

	return func() {
		ls := d.listeners[n][typ]
		for i, x := range ls {
			if x.id == l.id {
				d.listeners[n][typ] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) dispatch(n *html.Node, target *Element, ev *Event) *Event {
	ev.Target = target
	release := ev.Hold()
	defer release()

	// Listeners may remove themselves or the node; iterate over a copy.
	ls := append([]*listener(nil), d.listeners[n][ev.Type]...)
	for _, l := range ls {
		callListener(l.fn, ev)
	}
	return ev
}

func callListener(fn Listener, ev *Event) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("event listener panicked", "event", ev.Type, "panic", p)
		}
	}()
	fn(ev)
}

// Package toast shows short-lived notifications inside a page's toast host.
//
// Each toast is a node in the host container. It hides itself after the
// presenter's delay or when its dismiss button is clicked; hiding fires a
// "hidden" event whose listener removes the node, so stale toasts never pile
// up. There is no cap on how many toasts are visible at once.
package toast

import (
	"log/slog"
	"strconv"
	"time"

	"go.klb.dev/forgeclip/internal/dom"
	"go.klb.dev/forgeclip/internal/loop"
)

// DefaultDelay is how long a toast stays up before hiding itself.
const DefaultDelay = 3000 * time.Millisecond

// Toast is one notification.
type Toast struct {
	ID       string
	Message  string
	Category Category
	Shown    time.Time

	el      *dom.Element
	dismiss *dom.Element
	timer   *loop.Timer
	hidden  bool
}

// Element returns the toast's node.
func (t *Toast) Element() *dom.Element { return t.el }

// Hidden reports whether the toast has been hidden and removed.
func (t *Toast) Hidden() bool { return t.hidden }

// Presenter creates toasts in a Host. All methods must run on the loop.
type Presenter struct {
	loop  *loop.Loop
	host  *Host
	delay time.Duration
	live  []*Toast
}

// NewPresenter returns a presenter that places toasts in host. A zero delay
// means DefaultDelay.
func NewPresenter(l *loop.Loop, host *Host, delay time.Duration) *Presenter {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Presenter{loop: l, host: host, delay: delay}
}

// Show builds a toast for msg, shows it and schedules its hiding.
func (p *Presenter) Show(msg string, cat Category) *Toast {
	now := p.loop.Clock().Now()
	t := &Toast{
		ID:       p.nextID(now),
		Message:  msg,
		Category: cat,
		Shown:    now,
	}
	t.el, t.dismiss = p.build(t)
	p.host.Container().AppendChild(t.el)

	t.dismiss.AddEventListener(dom.EventClick, func(*dom.Event) { p.hide(t) })
	t.el.AddEventListener(dom.EventHidden, func(*dom.Event) { p.remove(t) })

	t.el.AddClass("show")
	t.timer = p.loop.AfterFunc(p.delay, func() { p.hide(t) })
	p.live = append(p.live, t)

	slog.Debug("toast shown", "id", t.ID, "category", string(cat))
	return t
}

// Dismiss hides the toast with the given id as if its close button had been
// clicked. It reports whether a visible toast was found.
func (p *Presenter) Dismiss(id string) bool {
	for _, t := range p.live {
		if t.ID == id {
			t.dismiss.Dispatch(dom.NewEvent(dom.EventClick))
			return true
		}
	}
	return false
}

// Visible returns the toasts currently shown, oldest first.
func (p *Presenter) Visible() []*Toast {
	return append([]*Toast(nil), p.live...)
}

func (p *Presenter) hide(t *Toast) {
	if t.hidden {
		return
	}
	t.hidden = true
	t.timer.Stop()
	t.el.RemoveClass("show")
	t.el.Dispatch(dom.NewEvent(dom.EventHidden))
}

func (p *Presenter) remove(t *Toast) {
	t.el.Remove()
	for i, x := range p.live {
		if x == t {
			p.live = append(p.live[:i], p.live[i+1:]...)
			break
		}
	}
	slog.Debug("toast removed", "id", t.ID)
}

// nextID returns "toast-<unix millis>", with a "-N" suffix when another
// toast already holds that id.
func (p *Presenter) nextID(now time.Time) string {
	base := "toast-" + strconv.FormatInt(now.UnixMilli(), 10)
	id := base
	for n := 2; p.host.doc.GetElementByID(id) != nil; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func (p *Presenter) build(t *Toast) (el, dismiss *dom.Element) {
	doc := p.host.doc
	style := t.Category.Style()

	el = doc.CreateElement("div")
	el.SetAttr("id", t.ID)
	el.AddClass("toast", style.Background, "text-white")
	el.SetAttr("role", "alert")
	el.SetAttr("data-category", string(t.Category))

	header := doc.CreateElement("div")
	header.AddClass("toast-header", style.Background, "text-white")

	title := doc.CreateElement("strong")
	title.AddClass("me-auto")
	icon := doc.CreateElement("i")
	icon.AddClass("bi", "bi-"+style.Icon)
	label := doc.CreateElement("span")
	label.SetTextContent(" " + t.Category.Label())
	title.AppendChild(icon)
	title.AppendChild(label)

	dismiss = doc.CreateElement("button")
	dismiss.SetAttr("type", "button")
	dismiss.AddClass("btn-close", "btn-close-white")
	dismiss.SetAttr("data-bs-dismiss", "toast")
	dismiss.SetAttr("aria-label", "Close")

	header.AppendChild(title)
	header.AppendChild(dismiss)

	body := doc.CreateElement("div")
	body.AddClass("toast-body")
	body.SetTextContent(t.Message)

	el.AppendChild(header)
	el.AppendChild(body)
	return el, dismiss
}

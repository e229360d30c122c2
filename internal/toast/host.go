package toast

import "go.klb.dev/forgeclip/internal/dom"

// ContainerID is the id reserved for the notification container.
const ContainerID = "toast-container"

// Host is the fixed-position container toasts are placed in. It is created
// once while the page is set up and handed to the Presenter.
type Host struct {
	doc       *dom.Document
	container *dom.Element
}

// NewHost adopts the page's existing container or creates one at the end of
// <body>. It must run on the page's event loop.
func NewHost(doc *dom.Document) *Host {
	el := doc.GetElementByID(ContainerID)
	if el == nil {
		el = doc.CreateElement("div")
		el.SetAttr("id", ContainerID)
		el.AddClass("position-fixed", "bottom-0", "end-0", "p-3")
		el.SetStyle("z-index", "1100")
		doc.Body().AppendChild(el)
	}
	return &Host{doc: doc, container: el}
}

// Container returns the container element.
func (h *Host) Container() *dom.Element { return h.container }

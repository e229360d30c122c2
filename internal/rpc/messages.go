package rpc

import (
	"time"

	"go.klb.dev/forgeclip/internal/clip"
)

type CopyTextRequest struct {
	Text string `json:"text"`
}

type CopyElementRequest struct {
	ID string `json:"id"`
}

// CopyResponse is a clip.Result on the wire.
type CopyResponse struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Bytes   int    `json:"bytes"`
	Reason  string `json:"reason,omitempty"`
}

func copyResponse(r clip.Result) *CopyResponse {
	return &CopyResponse{OK: r.OK(), Backend: r.Backend, Bytes: r.Bytes, Reason: r.Reason()}
}

type ShowToastRequest struct {
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

type ShowToastResponse struct {
	ID string `json:"id"`
}

type DismissToastRequest struct {
	ID string `json:"id"`
}

type DismissToastResponse struct {
	Found bool `json:"found"`
}

type BindButtonRequest struct {
	Button string `json:"button"`
	Source string `json:"source"`
}

type BindButtonResponse struct {
	Bound bool `json:"bound"`
}

type ClickRequest struct {
	Button string `json:"button"`
}

type ClickResponse struct {
	Copy  CopyResponse `json:"copy"`
	State string       `json:"state"`
	Label string       `json:"label"`
}

type StatusRequest struct{}

type Button struct {
	Button string `json:"button"`
	Source string `json:"source"`
	State  string `json:"state"`
	Label  string `json:"label"`
	Clicks int    `json:"clicks"`
}

type Toast struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Message  string    `json:"message"`
	Shown    time.Time `json:"shown"`
}

type StatusResponse struct {
	Clipboard string   `json:"clipboard"`
	Buttons   []Button `json:"buttons"`
	Toasts    []Toast  `json:"toasts"`
}

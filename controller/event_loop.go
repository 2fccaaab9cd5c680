package controller

import (
	"context"
	"fmt"

	"trackview/services/window"
	"trackview/utils"
)

// RequestKind selects what a Request asks the loop to do.
type RequestKind int

const (
	RequestRange RequestKind = iota
	RequestLoad
	RequestAxes
	RequestLabels
	RequestCall
)

var requestNames = map[RequestKind]string{
	RequestRange:  "range",
	RequestLoad:   "load",
	RequestAxes:   "axes",
	RequestLabels: "labels",
	RequestCall:   "call",
}

func (k RequestKind) String() string {
	if n, ok := requestNames[k]; ok {
		return n
	}
	return "unknown"
}

// Request is one unit of work for the event loop. Only the fields for its
// Kind are read. Reply, when set, receives exactly one Response and should
// be buffered.
type Request struct {
	Kind RequestKind

	StartPct, StopPct float64 // range
	Path, Format      string  // load
	View, X, Y        string  // axes

	// Call runs fn on the loop goroutine, for readers of chart state such
	// as page rendering.
	Call func(*WindowController) error

	Reply chan<- Response
}

// Response reports the outcome of a Request.
type Response struct {
	Delta      window.Delta
	Labels     Labels
	Superseded bool // a later range request replaced this one
	Err        error
}

// Loop serialises every mutation of a WindowController through one
// goroutine. With coalescing on, range requests already queued behind one
// another collapse to the newest; the window only ever moves from the last
// applied bounds, so views cannot drift from it.
type Loop struct {
	wc       *WindowController
	reqs     chan Request
	coalesce bool
}

// NewLoop returns a loop with a request queue of the given size.
func NewLoop(wc *WindowController, buffer int, coalesce bool) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{wc: wc, reqs: make(chan Request, buffer), coalesce: coalesce}
}

// Requests is the send side of the queue.
func (l *Loop) Requests() chan<- Request { return l.reqs }

// Run processes requests in arrival order until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	utils.L().Info("event loop started (coalesce_drag=%v)", l.coalesce)
	var pending *Request
	for {
		var req Request
		if pending != nil {
			req, pending = *pending, nil
		} else {
			select {
			case <-ctx.Done():
				utils.L().Info("event loop stopped")
				return ctx.Err()
			case r := <-l.reqs:
				req = r
			}
		}
		if req.Kind == RequestRange && l.coalesce {
			req, pending = l.collapse(req)
		}
		l.handle(req)
	}
}

// collapse drains queued range requests behind req and returns the newest.
// A queued request of another kind stops the drain and is handed back so it
// runs right after.
func (l *Loop) collapse(req Request) (Request, *Request) {
	for {
		select {
		case next := <-l.reqs:
			if next.Kind != RequestRange {
				return req, &next
			}
			reply(req, Response{Superseded: true})
			l.wc.coalesced.Add(1)
			req = next
		default:
			return req, nil
		}
	}
}

func (l *Loop) handle(req Request) {
	var resp Response
	switch req.Kind {
	case RequestRange:
		resp.Delta, resp.Err = l.wc.Move(req.StartPct, req.StopPct)
	case RequestLoad:
		resp.Err = l.wc.LoadFile(req.Path, req.Format)
	case RequestAxes:
		resp.Err = l.wc.ChangeAxes(req.View, req.X, req.Y)
	case RequestLabels:
	case RequestCall:
		if req.Call != nil {
			resp.Err = req.Call(l.wc)
		}
	default:
		resp.Err = fmt.Errorf("unknown request kind %d", req.Kind)
	}
	if resp.Err != nil {
		utils.L().Warn("%s request failed: %v", req.Kind, resp.Err)
	}
	resp.Labels = l.wc.Labels()
	reply(req, resp)
}

func reply(req Request, resp Response) {
	if req.Reply != nil {
		req.Reply <- resp
	}
}

// Do queues req and waits for its response.
func (l *Loop) Do(ctx context.Context, req Request) (Response, error) {
	ch := make(chan Response, 1)
	req.Reply = ch
	select {
	case l.reqs <- req:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	select {
	case resp := <-ch:
		return resp, resp.Err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Move is Do for a range request.
func (l *Loop) Move(ctx context.Context, startPct, stopPct float64) (Response, error) {
	return l.Do(ctx, Request{Kind: RequestRange, StartPct: startPct, StopPct: stopPct})
}

// Load is Do for a load request.
func (l *Loop) Load(ctx context.Context, path, format string) (Response, error) {
	return l.Do(ctx, Request{Kind: RequestLoad, Path: path, Format: format})
}

// ChangeAxes is Do for an axes request.
func (l *Loop) ChangeAxes(ctx context.Context, view, x, y string) (Response, error) {
	return l.Do(ctx, Request{Kind: RequestAxes, View: view, X: x, Y: y})
}

// Labels is Do for a labels request.
func (l *Loop) Labels(ctx context.Context) (Labels, error) {
	resp, err := l.Do(ctx, Request{Kind: RequestLabels})
	return resp.Labels, err
}

// Call runs fn on the loop goroutine and waits for it.
func (l *Loop) Call(ctx context.Context, fn func(*WindowController) error) error {
	_, err := l.Do(ctx, Request{Kind: RequestCall, Call: fn})
	return err
}

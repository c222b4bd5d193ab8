// Package network implements the outbound request pipeline: a prioritised,
// cancellable queue of API requests drained by a pool of dispatcher
// goroutines that attach auth headers, invoke the HTTP transport, classify
// the outcome and deliver results on a caller-chosen executor.
package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Priority orders requests in the queue. Within the same priority requests
// run FIFO; there is no starvation guarantee across priorities beyond "lower
// priorities run once the queue drains".
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Result is the terminal outcome of a request, delivered exactly once to the
// request's callback. Err is nil on success; otherwise it is either a
// *models.ServerError describing the rejection or a queue-level sentinel
// such as ErrCanceled. The receiver must treat the result as read-only.
type Result struct {
	Status  int
	Headers http.Header
	Body    []byte
	Cached  bool
	Err     error
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil }

// DecodeJSON decodes a successful result body into T. A body that does not
// match the expected shape yields an error wrapping ErrResponseMismatch.
func DecodeJSON[T any](res Result) (T, error) {
	var v T
	if res.Err != nil {
		return v, res.Err
	}
	if err := json.Unmarshal(res.Body, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrResponseMismatch, err)
	}
	return v, nil
}

// Request is one unit of queued work. It is owned by the caller until
// Enqueue, by the queue while pending, and by a dispatcher while in flight;
// the callback receives the result read-only.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Priority Priority

	// Tag is the de-duplication key. While a request with the same non-empty
	// Tag is pending, later requests coalesce onto it and share its result.
	Tag string

	// NoAuth marks session-endpoint requests: no token or signature headers
	// are attached and session recovery is never attempted for them, which
	// keeps token refresh from recursing into itself.
	NoAuth bool

	// Callback receives the result exactly once, posted on the delivery
	// executor chosen at enqueue time. May be nil for fire-and-forget.
	Callback func(Result)

	delivery Delivery

	mu       sync.Mutex
	events   []string
	canceled bool
	finished bool
	enqueued time.Time
	seq      uint64
}

// NewRequest builds a medium-priority request for the given method and path.
func NewRequest(method, path string, body any, cb func(Result)) *Request {
	return &Request{
		Method:   method,
		Path:     path,
		Body:     body,
		Priority: PriorityMedium,
		Callback: cb,
	}
}

// WithDelivery pins the executor the result will be posted on, overriding
// the queue's default. Must be called before Enqueue.
func (r *Request) WithDelivery(d Delivery) *Request {
	r.delivery = d
	return r
}

// Cancel marks the request canceled. A canceled request that has not been
// dispatched yet never reaches the network; one already in flight completes
// but its result is dropped. Best effort, never blocks.
func (r *Request) Cancel() {
	r.mu.Lock()
	r.canceled = true
	r.mu.Unlock()
}

// Canceled reports whether Cancel has been called.
func (r *Request) Canceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

// AddEvent appends a marker to the request's event trace. The trace is logged
// when the request finishes and exists purely for debugging.
func (r *Request) AddEvent(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the event trace.
func (r *Request) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// key returns the normalised cache/dedup identity: path plus sorted query.
func (r *Request) key() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// finish delivers res through the request's delivery executor, exactly once.
// A canceled request swallows its result silently.
func (r *Request) finish(res Result) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	canceled, cb, d := r.canceled, r.Callback, r.delivery
	r.mu.Unlock()

	if cb == nil || canceled {
		return
	}
	if d == nil {
		cb(res)
		return
	}
	d.Post(func() { cb(res) })
}

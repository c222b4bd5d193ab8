package network

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// Header names of the session protocol. Every response may rotate the token;
// the dispatcher sniffs these on the way past regardless of outcome.
const (
	HeaderToken        = "X-Token"
	HeaderTokenExpires = "X-Token-Expires"
	HeaderSignature    = "X-Signature"
)

// SessionRecoverer is the dispatcher's view of the session manager. It is an
// interface here rather than a concrete type so the session package can
// depend on network without a cycle.
type SessionRecoverer interface {
	// AuthHeaders returns the token and signature headers for an
	// authenticated request. Empty when no session is established.
	AuthHeaders() map[string]string

	// UpdateTokens records a rotated token sniffed from response headers.
	// A zero expires means the header carried no parsable expiry.
	UpdateTokens(token string, expires time.Time)

	// Recover takes ownership of a request rejected with a recoverable
	// session error. When it returns true the request is parked: the session
	// manager re-enqueues it after a successful refresh (or finishes it with
	// the refresh failure). False means recovery is not possible and the
	// dispatcher delivers the rejection as-is.
	Recover(serr *models.ServerError, req *Request) bool
}

// Dispatcher drains the queue with a pool of worker goroutines. Each worker
// performs one request at a time: attach auth headers, hit the transport,
// classify the outcome, complete through the queue.
type Dispatcher struct {
	queue   *Queue
	net     Network
	cache   *Cache
	session SessionRecoverer
	log     *logger.Logger

	wg      sync.WaitGroup
	started bool
}

// NewDispatcher wires the pipeline stages together. cache may be nil to
// disable response caching.
func NewDispatcher(q *Queue, net Network, cache *Cache, session SessionRecoverer, log *logger.Logger) *Dispatcher {
	return &Dispatcher{queue: q, net: net, cache: cache, session: session, log: log}
}

// Start launches n workers. Calling Start twice is a no-op.
func (d *Dispatcher) Start(n int) {
	if d.started {
		return
	}
	d.started = true
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.run(i)
	}
	d.log.Debug().Int("workers", n).Msg("dispatcher pool started")
}

// Stop closes the queue and waits for all in-flight requests to complete.
func (d *Dispatcher) Stop() {
	d.queue.Stop()
	d.wg.Wait()
}

func (d *Dispatcher) run(id int) {
	defer d.wg.Done()
	for {
		req, ok := d.queue.Take()
		if !ok {
			return
		}
		d.dispatch(id, req)
	}
}

func (d *Dispatcher) dispatch(worker int, req *Request) {
	// Cancellation is only honoured before the transport is touched. Once a
	// request is on the wire it runs to completion and the result is dropped
	// in finish.
	if req.Canceled() {
		req.AddEvent("canceled-before-dispatch")
		d.queue.Complete(req, Result{Err: ErrCanceled})
		return
	}

	req.AddEvent("taken-by-dispatcher")

	headers := map[string]string{}
	if !req.NoAuth {
		headers = d.session.AuthHeaders()
	}

	resp, err := d.net.Perform(req.Method, req.Path, req.Query, headers, req.Body)
	if err != nil {
		req.AddEvent("no-response")
		d.queue.Complete(req, Result{Err: models.NoResponseError(err)})
		return
	}

	d.sniffTokens(resp.Headers)

	switch {
	case resp.Status >= 200 && resp.Status < 300:
		if req.Method == http.MethodGet && d.cache != nil {
			d.cache.put(req.key(), resp)
		}
		d.queue.Complete(req, Result{Status: resp.Status, Headers: resp.Headers, Body: resp.Body})

	case resp.Status == http.StatusNotModified:
		if d.cache != nil {
			if cached, ok := d.cache.get(req.key()); ok {
				req.AddEvent("served-from-cache")
				d.queue.Complete(req, Result{Status: cached.Status, Headers: cached.Headers, Body: cached.Body, Cached: true})
				return
			}
		}
		// No cached body to substitute: surface the 304 with an empty body
		// and let the caller treat it as "nothing changed".
		d.queue.Complete(req, Result{Status: resp.Status, Headers: resp.Headers})

	default:
		serr := parseServerError(resp)
		if serr.IsSessionError() && !req.NoAuth {
			req.AddEvent("session-error-" + strconv.Itoa(serr.Code))
			if d.session.Recover(serr, req) {
				d.log.Debug().
					Int("worker", worker).
					Str("path", req.Path).
					Int("code", serr.Code).
					Msg("request parked for session recovery")
				return
			}
		}
		d.queue.Complete(req, Result{Status: resp.Status, Headers: resp.Headers, Body: resp.Body, Err: serr})
	}
}

// sniffTokens picks up rotated session tokens from any response that carries
// them, keeping the session fresh without dedicated refresh round-trips.
func (d *Dispatcher) sniffTokens(h http.Header) {
	token := h.Get(HeaderToken)
	if token == "" {
		return
	}
	var expires time.Time
	if raw := h.Get(HeaderTokenExpires); raw != "" {
		if t, err := time.Parse(models.TimeFormat, raw); err == nil {
			expires = t
		}
	}
	d.session.UpdateTokens(token, expires)
}

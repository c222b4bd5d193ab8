package network

import (
	"sync"
	"time"

	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
)

// Queue is the shared, ordered collection of pending requests. Ordering is
// FIFO within a priority; higher priorities are always drained first.
// Requests carrying the same non-empty Tag are coalesced: followers never
// reach the network and receive the leader's result.
type Queue struct {
	log      *logger.Logger
	delivery Delivery

	mu      sync.Mutex
	cond    *sync.Cond
	buckets map[Priority][]*Request
	waiters map[string][]*Request
	inTag   map[string]*Request
	closed  bool
	seq     uint64
}

// NewQueue builds a queue whose requests, unless they specify otherwise,
// deliver their results on the given executor.
func NewQueue(delivery Delivery, log *logger.Logger) *Queue {
	q := &Queue{
		log:      log,
		delivery: delivery,
		buckets:  make(map[Priority][]*Request),
		waiters:  make(map[string][]*Request),
		inTag:    make(map[string]*Request),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue queues the request for asynchronous execution and returns
// immediately. The request must carry a method and path; the callback is the
// completion sink. Returns ErrQueueClosed after Stop.
func (q *Queue) Enqueue(r *Request) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	if r.delivery == nil {
		r.delivery = q.delivery
	}
	r.enqueued = time.Now()

	if r.Tag != "" {
		// A leader being re-enqueued after session recovery keeps its slot;
		// only a different request coalesces.
		if leader, inFlight := q.inTag[r.Tag]; inFlight && leader != r {
			r.AddEvent("coalesced-onto-pending-request")
			q.waiters[r.Tag] = append(q.waiters[r.Tag], r)
			q.mu.Unlock()
			return nil
		}
		q.inTag[r.Tag] = r
	}

	q.seq++
	r.seq = q.seq
	r.AddEvent("added-to-queue")
	q.buckets[r.Priority] = append(q.buckets[r.Priority], r)
	q.mu.Unlock()

	q.cond.Signal()
	return nil
}

// Take blocks until a request is available or the queue is stopped. The
// second return is false only when the queue has been stopped and drained.
func (q *Queue) Take() (*Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
			bucket := q.buckets[p]
			if len(bucket) == 0 {
				continue
			}
			r := bucket[0]
			q.buckets[p] = bucket[1:]
			return r, true
		}
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}
}

// Complete finishes the request and every follower coalesced onto its Tag
// with the same result, then releases the Tag for future requests.
func (q *Queue) Complete(r *Request, res Result) {
	var followers []*Request
	if r.Tag != "" {
		q.mu.Lock()
		if q.inTag[r.Tag] == r {
			delete(q.inTag, r.Tag)
			followers = q.waiters[r.Tag]
			delete(q.waiters, r.Tag)
		}
		q.mu.Unlock()
	}

	r.finish(res)
	for _, f := range followers {
		f.finish(res)
	}

	if res.Err != nil {
		q.log.Debug().
			Str("method", r.Method).
			Str("path", r.Path).
			Strs("trace", r.Events()).
			Err(res.Err).
			Msg("request finished with error")
	}
}

// Stop closes the queue. Pending requests still in the buckets are finished
// with ErrQueueClosed; dispatchers blocked in Take wake up and exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true

	var orphans []*Request
	for p, bucket := range q.buckets {
		orphans = append(orphans, bucket...)
		q.buckets[p] = nil
	}
	for tag, fs := range q.waiters {
		orphans = append(orphans, fs...)
		delete(q.waiters, tag)
	}
	q.mu.Unlock()

	q.cond.Broadcast()
	for _, r := range orphans {
		r.finish(Result{Err: ErrQueueClosed})
	}
}

// Len reports how many requests are queued (not counting in-flight ones).
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, bucket := range q.buckets {
		n += len(bucket)
	}
	return n
}

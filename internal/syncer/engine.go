// Package syncer reconciles the local store with the server. A periodic tick
// pushes dirty local entities, then pulls server state and merges it back
// using last-writer-wins on the modified stamp and previous_id chains for
// ordering. All engine state is confined to a single delivery goroutine:
// ticks and request completions are posted there, so the engine body runs
// without locks.
package syncer

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/tilbuda/go-shoplist-sdk/internal/config"
	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/internal/network"
	"github.com/tilbuda/go-shoplist-sdk/internal/store"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// SessionSource is the engine's read-only view of the session.
type SessionSource interface {
	User() models.User
	LoggedIn() bool
}

// Engine drives the sync loop. Construct with NewEngine, then Start.
type Engine struct {
	store    store.Store
	queue    *network.Queue
	session  SessionSource
	delivery network.Delivery
	log      *logger.Logger

	interval      time.Duration
	fullSyncEvery int

	// Everything below is touched only on the delivery goroutine.
	ctx          context.Context
	inFlight     int
	online       bool
	count        int
	firstSynced  int64
	changes      *batch
	listLs       []ListsListener
	itemLs       []ItemsListener
	firstSyncFns []func()

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine wires the sync engine. delivery must be the serial executor the
// queue posts completions on; the engine posts its own ticks there too.
func NewEngine(st store.Store, q *network.Queue, sess SessionSource, delivery network.Delivery, cfg config.Sync, log *logger.Logger) *Engine {
	return &Engine{
		store:         st,
		queue:         q,
		session:       sess,
		delivery:      delivery,
		log:           log,
		interval:      cfg.Interval,
		fullSyncEvery: cfg.FullSyncEvery,
		online:        true,
		firstSynced:   -1,
		changes:       newBatch(),
	}
}

// RegisterListsListener subscribes to batched list change notifications.
func (e *Engine) RegisterListsListener(l ListsListener) {
	e.delivery.Post(func() { e.listLs = append(e.listLs, l) })
}

// RegisterItemsListener subscribes to batched item change notifications.
func (e *Engine) RegisterItemsListener(l ItemsListener) {
	e.delivery.Post(func() { e.itemLs = append(e.itemLs, l) })
}

// RegisterFirstSyncFunc subscribes fn to the completion of the first full
// list reconciliation after a login. Runs once per user switch.
func (e *Engine) RegisterFirstSyncFunc(fn func()) {
	e.delivery.Post(func() { e.firstSyncFns = append(e.firstSyncFns, fn) })
}

// Start launches the tick loop. It stops any previously running loop first.
// The loop exits when ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.Stop()

	e.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(1)
	e.mu.Unlock()

	e.delivery.Post(func() { e.ctx = loopCtx })

	go func() {
		defer e.wg.Done()
		t := time.NewTicker(e.interval)
		defer t.Stop()

		// Immediate first tick so a fresh start does not wait a full interval.
		e.delivery.Post(e.tick)

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				e.delivery.Post(e.tick)
			}
		}
	}()
}

// Stop cancels the tick loop and blocks until it has exited. In-flight
// requests complete on their own; their results are still merged.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// SyncNow schedules one tick out of band, without waiting for the ticker.
func (e *Engine) SyncNow() {
	e.delivery.Post(e.tick)
}

// tick runs one sync round. Gates, in order: loop still active, a logged-in
// user, no entity requests still in flight from the previous round.
func (e *Engine) tick() {
	if e.ctx == nil || e.ctx.Err() != nil {
		return
	}

	user := e.session.User()
	if !user.LoggedIn() {
		return
	}
	if e.inFlight > 0 {
		e.log.Debug().Int("in_flight", e.inFlight).Msg("sync tick skipped, requests pending")
		return
	}

	e.releaseStaleSyncing(user)

	// Offline the pull phase doubles as the connectivity probe; pushes wait
	// until a response proves the server reachable again.
	if e.online {
		e.pushLocalChanges(user)
	}

	if e.inFlight > 0 {
		// Local changes are on the wire; pulling now would race them.
		return
	}

	// The very first pull is a full sync; probes only make sense against a
	// collection that has been reconciled at least once.
	full := e.count%e.fullSyncEvery == 0
	e.count++
	if full {
		e.syncLists(user)
	} else {
		e.syncListsModified(user)
	}
}

// releaseStaleSyncing returns lists stuck in SYNCING to SYNCED. With nothing
// in flight a SYNCING row can only be the residue of an interrupted round,
// and it would otherwise be skipped by the push filters and the modified
// probe forever.
func (e *Engine) releaseStaleSyncing(user models.User) {
	ctx := e.ctx
	lists, err := e.store.GetLists(ctx, user.ID, false)
	if err != nil {
		return
	}
	for _, list := range lists {
		if list.State != models.StateSyncing {
			continue
		}
		e.log.Debug().Str("list_id", list.ID).Msg("releasing list from interrupted sync round")
		list.State = models.StateSynced
		_ = e.store.UpdateList(ctx, user.ID, list)
	}
}

func (e *Engine) notifyFirstSync() {
	for _, fn := range e.firstSyncFns {
		fn()
	}
}

// send enqueues one entity request. The callback is wrapped so the in-flight
// counter and the notification batch stay consistent: the batch flushes
// exactly when the last outstanding request completes.
func (e *Engine) send(method, path string, query url.Values, body any, cb func(network.Result)) {
	req := network.NewRequest(method, path, body, nil)
	req.Query = query
	req.WithDelivery(e.delivery)
	req.Callback = func(res network.Result) {
		e.trackConnectivity(res)
		cb(res)
		e.inFlight--
		if e.inFlight == 0 {
			e.changes.flush(e.listLs, e.itemLs)
		}
	}

	e.inFlight++
	if err := e.queue.Enqueue(req); err != nil {
		e.inFlight--
		e.log.Warn().Str("path", path).Err(err).Msg("failed to enqueue sync request")
	}
}

func (e *Engine) trackConnectivity(res network.Result) {
	var serr *models.ServerError
	if errors.As(res.Err, &serr) && serr.Code == models.CodeNoResponse {
		if e.online {
			e.log.Info().Msg("server unreachable, sync entering offline mode")
		}
		e.online = false
		return
	}
	if !e.online {
		e.log.Info().Msg("server reachable again, sync resuming")
	}
	e.online = true
}

// migrateAnonymousData moves lists created before login under the logged-in
// user. Every row gets a fresh id so it cannot collide with anything the
// account already owns server-side, and is marked dirty so the next push
// phase uploads it.
func (e *Engine) migrateAnonymousData(user models.User) {
	ctx := e.ctx
	lists, err := e.store.GetLists(ctx, models.AnonymousUserID, false)
	if err != nil || len(lists) == 0 {
		return
	}

	e.log.Info().Int("lists", len(lists)).Int64("user_id", user.ID).Msg("migrating anonymous lists to account")

	prevListID := models.FirstItemID
	for _, list := range OrderLists(lists) {
		oldID := list.ID
		list.ID = newID()
		list.OwnerID = user.ID
		list.PreviousID = prevListID
		list.State = models.StateToSync
		prevListID = list.ID

		if err = e.store.InsertList(ctx, user.ID, list); err != nil {
			continue
		}

		items, ierr := e.store.GetItems(ctx, models.AnonymousUserID, oldID, false)
		if ierr == nil {
			prevItemID := models.FirstItemID
			for _, item := range OrderItems(items) {
				item.ID = newID()
				item.ListID = list.ID
				item.Creator = user.Email
				item.PreviousID = prevItemID
				item.State = models.StateToSync
				prevItemID = item.ID
				_ = e.store.InsertItem(ctx, user.ID, item)
			}
		}

		_ = e.store.DeleteItems(ctx, models.AnonymousUserID, oldID, nil, false)
		_ = e.store.DeleteList(ctx, models.AnonymousUserID, oldID)
	}
}

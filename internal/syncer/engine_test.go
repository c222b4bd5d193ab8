package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tilbuda/go-shoplist-sdk/internal/config"
	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/internal/mock"
	"github.com/tilbuda/go-shoplist-sdk/internal/network"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

var testUser = models.User{ID: 7, Email: "t@example.com", Name: "Tester"}

type stubSession struct{ user models.User }

func (s stubSession) User() models.User { return s.user }
func (s stubSession) LoggedIn() bool    { return s.user.LoggedIn() }

type stubRecoverer struct{}

func (stubRecoverer) AuthHeaders() map[string]string                     { return nil }
func (stubRecoverer) UpdateTokens(string, time.Time)                     {}
func (stubRecoverer) Recover(*models.ServerError, *network.Request) bool { return false }

// scriptedNet routes Perform calls to handlers keyed by "METHOD path".
type scriptedNet struct {
	mu       sync.Mutex
	handlers map[string]func(body any) (network.Response, error)
}

func newScriptedNet() *scriptedNet {
	return &scriptedNet{handlers: make(map[string]func(any) (network.Response, error))}
}

func (s *scriptedNet) on(method, path string, fn func(any) (network.Response, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method+" "+path] = fn
}

func (s *scriptedNet) onJSON(method, path string, status int, v any) {
	payload, _ := json.Marshal(v)
	s.on(method, path, func(any) (network.Response, error) {
		return network.Response{Status: status, Body: payload}, nil
	})
}

func (s *scriptedNet) Perform(method, path string, _ url.Values, _ map[string]string, body any) (network.Response, error) {
	s.mu.Lock()
	fn, ok := s.handlers[method+" "+path]
	s.mu.Unlock()
	if !ok {
		return network.Response{Status: http.StatusNotFound,
			Body: []byte(`{"code":1501,"message":"no handler"}`)}, nil
	}
	return fn(body)
}

// rig wires a real queue, dispatcher and serial delivery around the engine so
// tests drive the whole asynchronous pipeline.
type rig struct {
	engine   *Engine
	store    *mock.MockStore
	net      *scriptedNet
	delivery *network.SerialDelivery
	disp     *network.Dispatcher
}

func newRig(t *testing.T, cfg config.Sync) *rig {
	t.Helper()
	ctrl := gomock.NewController(t)

	if cfg.FullSyncEvery == 0 {
		cfg.FullSyncEvery = 1
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour // ticks driven manually via SyncNow
	}

	st := mock.NewMockStore(ctrl)
	net := newScriptedNet()
	delivery := network.NewSerialDelivery()
	q := network.NewQueue(delivery, logger.Nop())
	disp := network.NewDispatcher(q, net, nil, stubRecoverer{}, logger.Nop())
	disp.Start(2)

	eng := NewEngine(st, q, stubSession{user: testUser}, delivery, cfg, logger.Nop())
	eng.Start(context.Background())

	t.Cleanup(func() {
		eng.Stop()
		disp.Stop()
		delivery.Stop()
	})
	return &rig{engine: eng, store: st, net: net, delivery: delivery, disp: disp}
}

func TestEngine_PushDirtyListAdoptsServerCopy(t *testing.T) {
	r := newRig(t, config.Sync{})

	local := models.List{
		ID: "l1", Name: "Groceries", OwnerID: testUser.ID,
		PreviousID: models.FirstItemID, Modified: ts(0), State: models.StateToSync,
	}
	serverCopy := local
	serverCopy.Modified = ts(time.Minute)

	r.net.onJSON(http.MethodPut, network.EndpointList(testUser.ID, "l1"), http.StatusOK, serverCopy)

	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{local}, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return([]models.List{local}, nil)
	// SYNCING parked before the request leaves.
	r.store.EXPECT().UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSyncing)).Return(nil)

	done := make(chan struct{})
	r.store.EXPECT().
		UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSynced)).
		DoAndReturn(func(_ context.Context, _ int64, got models.List) error {
			assert.True(t, got.Modified.Equal(serverCopy.Modified.Time))
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("list never reached SYNCED")
	}
}

func TestEngine_PushStaleServerEchoKeepsLocalCopy(t *testing.T) {
	r := newRig(t, config.Sync{})

	local := models.List{
		ID: "l1", Name: "Renamed", OwnerID: testUser.ID,
		PreviousID: models.FirstItemID, Modified: ts(time.Hour), State: models.StateToSync,
	}
	stale := local
	stale.Name = "Old name"
	stale.Modified = ts(0)

	r.net.onJSON(http.MethodPut, network.EndpointList(testUser.ID, "l1"), http.StatusOK, stale)

	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{local}, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return([]models.List{local}, nil)
	r.store.EXPECT().UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSyncing)).Return(nil)

	done := make(chan struct{})
	r.store.EXPECT().
		UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSynced)).
		DoAndReturn(func(_ context.Context, _ int64, got models.List) error {
			assert.Equal(t, "Renamed", got.Name)
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("list never reached SYNCED")
	}
}

func TestEngine_PushGoneListDeletedLocally(t *testing.T) {
	r := newRig(t, config.Sync{})

	local := models.List{ID: "l1", OwnerID: testUser.ID, Modified: ts(0), State: models.StateToSync}

	r.net.on(http.MethodPut, network.EndpointList(testUser.ID, "l1"), func(any) (network.Response, error) {
		return network.Response{Status: http.StatusNotFound,
			Body: []byte(`{"code":1501,"message":"gone"}`)}, nil
	})

	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{local}, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return([]models.List{local}, nil)
	r.store.EXPECT().UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSyncing)).Return(nil)

	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", false).Return(nil, nil)
	r.store.EXPECT().DeleteItems(gomock.Any(), testUser.ID, "l1", nil, false).Return(nil)
	r.store.EXPECT().CleanShares(gomock.Any(), testUser.ID, "l1", nil).Return(nil)
	done := make(chan struct{})
	r.store.EXPECT().DeleteList(gomock.Any(), testUser.ID, "l1").
		DoAndReturn(func(context.Context, int64, string) error {
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("gone list never deleted locally")
	}
}

func TestEngine_NoResponseLeavesStateForRetry(t *testing.T) {
	r := newRig(t, config.Sync{})

	local := models.List{ID: "l1", OwnerID: testUser.ID, Modified: ts(0), State: models.StateToSync}

	r.net.on(http.MethodPut, network.EndpointList(testUser.ID, "l1"), func(any) (network.Response, error) {
		return network.Response{}, assert.AnError
	})

	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{local}, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return([]models.List{local}, nil)
	r.store.EXPECT().UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSyncing)).Return(nil)

	done := make(chan struct{})
	r.store.EXPECT().
		UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateToSync)).
		DoAndReturn(func(context.Context, int64, models.List) error {
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("list never restored to TO_SYNC")
	}
}

func TestEngine_FullSyncInsertsServerOnlyListAndItems(t *testing.T) {
	r := newRig(t, config.Sync{FullSyncEvery: 1})

	serverList := models.List{
		ID: "l9", Name: "From server", OwnerID: testUser.ID,
		PreviousID: models.FirstItemID, Modified: ts(0),
		Shares: []models.Share{{Email: "friend@example.com", Access: "r", Accepted: true}},
	}
	serverItem := models.Item{
		ID: "i1", Description: "Bread", Count: 1,
		PreviousID: models.FirstItemID, Modified: ts(0),
	}

	r.net.onJSON(http.MethodGet, network.EndpointLists(testUser.ID), http.StatusOK, []models.List{serverList})
	r.net.onJSON(http.MethodGet, network.EndpointItems(testUser.ID, "l9"), http.StatusOK, []models.Item{serverItem})

	// Nothing dirty, nothing local. The server having lists also means no
	// anonymous-data migration is attempted; any store call for the
	// anonymous user would fail this test.
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return(nil, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return(nil, nil).Times(3)

	r.store.EXPECT().InsertList(gomock.Any(), testUser.ID, matchListState("l9", models.StateSyncing)).Return(nil)
	r.store.EXPECT().UpsertShare(gomock.Any(), testUser.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, sh models.Share) error {
			assert.Equal(t, "l9", sh.ListID)
			assert.Equal(t, models.StateSynced, sh.State)
			return nil
		})
	r.store.EXPECT().CleanShares(gomock.Any(), testUser.ID, "l9", []string{"friend@example.com"}).Return(nil)

	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l9", false).Return(nil, nil)
	r.store.EXPECT().InsertItem(gomock.Any(), testUser.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, it models.Item) error {
			assert.Equal(t, "i1", it.ID)
			assert.Equal(t, "l9", it.ListID)
			assert.Equal(t, models.StateSynced, it.State)
			return nil
		})

	done := make(chan struct{})
	r.store.EXPECT().
		UpdateList(gomock.Any(), testUser.ID, matchListState("l9", models.StateSynced)).
		DoAndReturn(func(context.Context, int64, models.List) error {
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("server-only list never landed")
	}
}

func TestEngine_FullSyncDeletesLocalSyncedListMissingFromServer(t *testing.T) {
	r := newRig(t, config.Sync{FullSyncEvery: 1})

	local := models.List{ID: "l1", OwnerID: testUser.ID, Modified: ts(0), State: models.StateSynced}

	r.net.onJSON(http.MethodGet, network.EndpointLists(testUser.ID), http.StatusOK, []models.List{})

	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return(nil, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{local}, nil).Times(3)
	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil)
	r.store.EXPECT().GetShares(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil)

	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", false).Return(nil, nil)
	r.store.EXPECT().DeleteItems(gomock.Any(), testUser.ID, "l1", nil, false).Return(nil)
	r.store.EXPECT().CleanShares(gomock.Any(), testUser.ID, "l1", nil).Return(nil)
	done := make(chan struct{})
	r.store.EXPECT().DeleteList(gomock.Any(), testUser.ID, "l1").
		DoAndReturn(func(context.Context, int64, string) error {
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("remotely deleted list survived locally")
	}
}

func TestEngine_AnonymousTickDoesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mock.NewMockStore(ctrl)
	delivery := network.NewSerialDelivery()
	q := network.NewQueue(delivery, logger.Nop())
	eng := NewEngine(st, q, stubSession{}, delivery, config.Sync{Interval: time.Hour, FullSyncEvery: 3}, logger.Nop())
	eng.Start(context.Background())
	defer func() {
		eng.Stop()
		q.Stop()
		delivery.Stop()
	}()

	// No store expectations: any call fails the test.
	eng.SyncNow()
	time.Sleep(100 * time.Millisecond)
}

func TestEngine_ItemPushWaitsForListPhase(t *testing.T) {
	r := newRig(t, config.Sync{})

	list := models.List{
		ID: "l1", Name: "Groceries", OwnerID: testUser.ID,
		PreviousID: models.FirstItemID, Modified: ts(0), State: models.StateToSync,
	}
	item := models.Item{
		ID: "i1", ListID: "l1", Description: "Milk", Count: 1,
		PreviousID: models.FirstItemID, Modified: ts(0), State: models.StateToSync,
	}

	var itemPut atomic.Bool
	r.net.onJSON(http.MethodPut, network.EndpointList(testUser.ID, "l1"), http.StatusOK, list)
	r.net.on(http.MethodPut, network.EndpointItem(testUser.ID, "l1", "i1"), func(any) (network.Response, error) {
		itemPut.Store(true)
		payload, _ := json.Marshal(item)
		return network.Response{Status: http.StatusOK, Body: payload}, nil
	})

	// Round one: the list is still being created, so the tick ends with the
	// list phase and the item stays home.
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{list}, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return([]models.List{list}, nil)
	r.store.EXPECT().UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSyncing)).Return(nil)
	listDone := make(chan struct{})
	r.store.EXPECT().
		UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSynced)).
		DoAndReturn(func(context.Context, int64, models.List) error {
			close(listDone)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-listDone:
	case <-time.After(3 * time.Second):
		t.Fatal("list push never completed")
	}
	assert.False(t, itemPut.Load(), "item reached the wire before its list existed server-side")

	// Round two: the list exists, the item goes out.
	synced := list
	synced.State = models.StateSynced
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{synced}, nil).Times(2)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return(nil, nil)
	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", true).Return([]models.Item{item}, nil)
	r.store.EXPECT().GetShares(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil)
	r.store.EXPECT().UpdateItem(gomock.Any(), testUser.ID, matchItemState("i1", models.StateSyncing)).Return(nil)
	itemDone := make(chan struct{})
	r.store.EXPECT().
		UpdateItem(gomock.Any(), testUser.ID, matchItemState("i1", models.StateSynced)).
		DoAndReturn(func(context.Context, int64, models.Item) error {
			close(itemDone)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-itemDone:
	case <-time.After(3 * time.Second):
		t.Fatal("item push never completed")
	}
	assert.True(t, itemPut.Load())
}

func TestEngine_FirstFullSyncMigratesAnonymousListsIntoEmptyAccount(t *testing.T) {
	r := newRig(t, config.Sync{})

	anonList := models.List{
		ID: "a1", Name: "Offline groceries", OwnerID: models.AnonymousUserID,
		PreviousID: models.FirstItemID, Modified: ts(0), State: models.StateToSync,
	}
	anonItem := models.Item{
		ID: "ai1", ListID: "a1", Description: "Milk", Count: 1,
		PreviousID: models.FirstItemID, Modified: ts(0), State: models.StateToSync,
	}

	r.net.onJSON(http.MethodGet, network.EndpointLists(testUser.ID), http.StatusOK, []models.List{})

	// Empty on both sides: the account adopts what was built before login.
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return(nil, nil).Times(3)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return(nil, nil)

	r.store.EXPECT().GetLists(gomock.Any(), models.AnonymousUserID, false).Return([]models.List{anonList}, nil)
	var migratedListID string
	r.store.EXPECT().InsertList(gomock.Any(), testUser.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, l models.List) error {
			assert.NotEqual(t, "a1", l.ID, "migrated list must get a fresh id")
			assert.Equal(t, testUser.ID, l.OwnerID)
			assert.Equal(t, models.StateToSync, l.State)
			migratedListID = l.ID
			return nil
		})
	r.store.EXPECT().GetItems(gomock.Any(), models.AnonymousUserID, "a1", false).Return([]models.Item{anonItem}, nil)
	r.store.EXPECT().InsertItem(gomock.Any(), testUser.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, it models.Item) error {
			assert.NotEqual(t, "ai1", it.ID)
			assert.Equal(t, migratedListID, it.ListID)
			assert.Equal(t, models.StateToSync, it.State)
			return nil
		})
	r.store.EXPECT().DeleteItems(gomock.Any(), models.AnonymousUserID, "a1", nil, false).Return(nil)
	r.store.EXPECT().DeleteList(gomock.Any(), models.AnonymousUserID, "a1").Return(nil)

	firstSync := make(chan struct{})
	r.engine.RegisterFirstSyncFunc(func() { close(firstSync) })

	r.engine.SyncNow()
	select {
	case <-firstSync:
	case <-time.After(3 * time.Second):
		t.Fatal("first sync never completed")
	}
}

func TestEngine_RemoteListDeleteNotifiesItemSubscribers(t *testing.T) {
	r := newRig(t, config.Sync{FullSyncEvery: 1})

	local := models.List{ID: "l1", OwnerID: testUser.ID, Modified: ts(0), State: models.StateSynced}
	item := models.Item{ID: "i1", ListID: "l1", Description: "Milk", State: models.StateSynced}

	r.net.onJSON(http.MethodGet, network.EndpointLists(testUser.ID), http.StatusOK, []models.List{})

	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return(nil, nil)
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{local}, nil).Times(3)
	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil)
	r.store.EXPECT().GetShares(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil)

	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", false).Return([]models.Item{item}, nil)
	r.store.EXPECT().DeleteItems(gomock.Any(), testUser.ID, "l1", nil, false).Return(nil)
	r.store.EXPECT().CleanShares(gomock.Any(), testUser.ID, "l1", nil).Return(nil)
	r.store.EXPECT().DeleteList(gomock.Any(), testUser.ID, "l1").Return(nil)

	deleted := make(chan []models.Item, 1)
	r.engine.RegisterItemsListener(itemsDeletedWaiter{ch: deleted})

	r.engine.SyncNow()
	select {
	case got := <-deleted:
		assert.Len(t, got, 1)
		assert.Equal(t, "i1", got[0].ID)
	case <-time.After(3 * time.Second):
		t.Fatal("cascaded item deletions never reached subscribers")
	}
}

func TestEngine_StaleSyncingListReleasedAtTickStart(t *testing.T) {
	r := newRig(t, config.Sync{})

	stuck := models.List{
		ID: "l1", OwnerID: testUser.ID, PreviousID: models.FirstItemID,
		Modified: ts(0), State: models.StateSyncing,
	}

	// The server echoes the same list with an equal stamp, so the pull phase
	// has nothing to change; only the sweep touches the row.
	r.net.onJSON(http.MethodGet, network.EndpointLists(testUser.ID), http.StatusOK, []models.List{stuck})
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, false).Return([]models.List{stuck}, nil).AnyTimes()
	r.store.EXPECT().GetLists(gomock.Any(), testUser.ID, true).Return(nil, nil).AnyTimes()
	r.store.EXPECT().GetItems(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil).AnyTimes()
	r.store.EXPECT().GetShares(gomock.Any(), testUser.ID, "l1", true).Return(nil, nil).AnyTimes()

	done := make(chan struct{})
	r.store.EXPECT().
		UpdateList(gomock.Any(), testUser.ID, matchListState("l1", models.StateSynced)).
		DoAndReturn(func(context.Context, int64, models.List) error {
			close(done)
			return nil
		})

	r.engine.SyncNow()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("list left parked in SYNCING")
	}
}

// itemsDeletedWaiter forwards non-empty deletion batches to a channel.
type itemsDeletedWaiter struct{ ch chan []models.Item }

func (w itemsDeletedWaiter) ItemsChanged(_, deleted, _ []models.Item) {
	if len(deleted) > 0 {
		w.ch <- deleted
	}
}

// matchListState matches a models.List argument by id and state.
func matchListState(id string, state models.SyncState) gomock.Matcher {
	return listStateMatcher{id: id, state: state}
}

type listStateMatcher struct {
	id    string
	state models.SyncState
}

func (m listStateMatcher) Matches(x any) bool {
	l, ok := x.(models.List)
	return ok && l.ID == m.id && l.State == m.state
}

func (m listStateMatcher) String() string {
	return "list " + m.id + " in state " + m.state.String()
}

// matchItemState matches a models.Item argument by id and state.
func matchItemState(id string, state models.SyncState) gomock.Matcher {
	return itemStateMatcher{id: id, state: state}
}

type itemStateMatcher struct {
	id    string
	state models.SyncState
}

func (m itemStateMatcher) Matches(x any) bool {
	it, ok := x.(models.Item)
	return ok && it.ID == m.id && it.State == m.state
}

func (m itemStateMatcher) String() string {
	return "item " + m.id + " in state " + m.state.String()
}

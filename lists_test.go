package shoplist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tilbuda/go-shoplist-sdk/internal/config"
	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/internal/mock"
	"github.com/tilbuda/go-shoplist-sdk/internal/session"
	"github.com/tilbuda/go-shoplist-sdk/internal/store"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// newTestSDK wires an SDK over a mocked store and an anonymous session. No
// network, no dispatchers; only the local operations under test run.
func newTestSDK(t *testing.T) (*SDK, *mock.MockStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ms := mock.NewMockStore(ctrl)
	s := &SDK{
		log: logger.Nop(),
		store: &store.Repositories{
			ListRepository:  ms,
			ItemRepository:  ms,
			ShareRepository: ms,
		},
		session: session.NewManager(config.API{}, nil, logger.Nop()),
	}
	return s, ms
}

func TestAddList_InsertsAtChainHead(t *testing.T) {
	s, ms := newTestSDK(t)
	ctx := context.Background()

	oldHead := models.List{
		ID:         "head",
		Name:       "Groceries",
		PreviousID: models.FirstItemID,
		State:      models.StateSynced,
	}
	ms.EXPECT().GetLists(gomock.Any(), int64(0), false).Return([]models.List{oldHead}, nil)

	var relinked models.List
	ms.EXPECT().UpdateList(gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, l models.List) error {
			relinked = l
			return nil
		})

	var inserted models.List
	ms.EXPECT().InsertList(gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, l models.List) error {
			inserted = l
			return nil
		})

	list, err := s.AddList(ctx, "Hardware")
	require.NoError(t, err)

	assert.Equal(t, "Hardware", list.Name)
	assert.Equal(t, models.FirstItemID, list.PreviousID)
	assert.Equal(t, models.StateToSync, list.State)
	assert.NotEmpty(t, list.ID)

	// The previous head now points at the new list and is dirty again.
	assert.Equal(t, list.ID, relinked.PreviousID)
	assert.Equal(t, models.StateToSync, relinked.State)
	assert.Equal(t, inserted.ID, list.ID)
}

func TestAddList_FirstListNeedsNoRelink(t *testing.T) {
	s, ms := newTestSDK(t)

	ms.EXPECT().GetLists(gomock.Any(), int64(0), false).Return(nil, nil)
	ms.EXPECT().InsertList(gomock.Any(), int64(0), gomock.Any()).Return(nil)

	list, err := s.AddList(context.Background(), "First")
	require.NoError(t, err)
	assert.Equal(t, models.FirstItemID, list.PreviousID)
}

func TestDeleteList_UnlinksSuccessorAndMarksDelete(t *testing.T) {
	s, ms := newTestSDK(t)
	ctx := context.Background()

	target := models.List{ID: "mid", PreviousID: "head", State: models.StateSynced}
	successor := models.List{ID: "tail", PreviousID: "mid", State: models.StateSynced}

	ms.EXPECT().GetList(gomock.Any(), int64(0), "mid").Return(target, nil)
	ms.EXPECT().GetLists(gomock.Any(), int64(0), false).
		Return([]models.List{{ID: "head", PreviousID: models.FirstItemID}, target, successor}, nil)

	var updates []models.List
	ms.EXPECT().UpdateList(gomock.Any(), int64(0), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, _ int64, l models.List) error {
			updates = append(updates, l)
			return nil
		})

	require.NoError(t, s.DeleteList(ctx, "mid"))
	require.Len(t, updates, 2)

	// Successor spliced over the deleted list first, then the mark itself.
	assert.Equal(t, "tail", updates[0].ID)
	assert.Equal(t, "head", updates[0].PreviousID)
	assert.Equal(t, models.StateToSync, updates[0].State)

	assert.Equal(t, "mid", updates[1].ID)
	assert.Equal(t, models.StateDelete, updates[1].State)
}

func TestAddItem_UnknownListFails(t *testing.T) {
	s, ms := newTestSDK(t)

	ms.EXPECT().GetList(gomock.Any(), int64(0), "nope").
		Return(models.List{}, store.ErrNotFound)

	_, err := s.AddItem(context.Background(), "nope", "Milk", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddItem_InsertsAtChainHead(t *testing.T) {
	s, ms := newTestSDK(t)
	ctx := context.Background()

	ms.EXPECT().GetList(gomock.Any(), int64(0), "l1").Return(models.List{ID: "l1"}, nil)
	oldHead := models.Item{ID: "i1", ListID: "l1", PreviousID: models.FirstItemID, State: models.StateSynced}
	ms.EXPECT().GetItems(gomock.Any(), int64(0), "l1", false).Return([]models.Item{oldHead}, nil)

	var relinked models.Item
	ms.EXPECT().UpdateItem(gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, it models.Item) error {
			relinked = it
			return nil
		})
	ms.EXPECT().InsertItem(gomock.Any(), int64(0), gomock.Any()).Return(nil)

	item, err := s.AddItem(ctx, "l1", "Milk", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, item.Count, "count is clamped to at least one")
	assert.Equal(t, models.FirstItemID, item.PreviousID)
	assert.Equal(t, models.StateToSync, item.State)
	assert.Equal(t, item.ID, relinked.PreviousID)
}

func TestTickItem_MarksDirty(t *testing.T) {
	s, ms := newTestSDK(t)

	ms.EXPECT().GetItem(gomock.Any(), int64(0), "i1").
		Return(models.Item{ID: "i1", ListID: "l1", State: models.StateSynced}, nil)

	var updated models.Item
	ms.EXPECT().UpdateItem(gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, it models.Item) error {
			updated = it
			return nil
		})

	require.NoError(t, s.TickItem(context.Background(), "i1", true))
	assert.True(t, updated.Ticked)
	assert.Equal(t, models.StateToSync, updated.State)
	assert.False(t, updated.Modified.IsZero())
}

func TestEmptyList_TickedOnlySkipsUnticked(t *testing.T) {
	s, ms := newTestSDK(t)

	items := []models.Item{
		{ID: "i1", ListID: "l1", Ticked: true, State: models.StateSynced},
		{ID: "i2", ListID: "l1", Ticked: false, State: models.StateSynced},
		{ID: "i3", ListID: "l1", Ticked: true, State: models.StateSynced},
	}
	ms.EXPECT().GetItems(gomock.Any(), int64(0), "l1", false).Return(items, nil)

	var marked []string
	ms.EXPECT().UpdateItem(gomock.Any(), int64(0), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, _ int64, it models.Item) error {
			assert.Equal(t, models.StateDelete, it.State)
			marked = append(marked, it.ID)
			return nil
		})

	require.NoError(t, s.EmptyList(context.Background(), "l1", true))
	assert.Equal(t, []string{"i1", "i3"}, marked)
}

func TestLists_HidesPendingDeletesAndOrders(t *testing.T) {
	s, ms := newTestSDK(t)

	ms.EXPECT().GetLists(gomock.Any(), int64(0), false).Return([]models.List{
		{ID: "b", PreviousID: "a", State: models.StateSynced},
		{ID: "gone", PreviousID: "b", State: models.StateDelete},
		{ID: "a", PreviousID: models.FirstItemID, State: models.StateSynced},
	}, nil)

	lists, err := s.Lists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "a", lists[0].ID)
	assert.Equal(t, "b", lists[1].ID)
}

func TestItems_ReturnsChainOrder(t *testing.T) {
	s, ms := newTestSDK(t)

	ms.EXPECT().GetItems(gomock.Any(), int64(0), "l1", false).Return([]models.Item{
		{ID: "second", ListID: "l1", PreviousID: "first", State: models.StateSynced},
		{ID: "first", ListID: "l1", PreviousID: models.FirstItemID, State: models.StateSynced},
	}, nil)

	items, err := s.Items(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].ID)
}

func TestRemoveShare_MarksForRevocation(t *testing.T) {
	s, ms := newTestSDK(t)

	var saved models.Share
	ms.EXPECT().UpsertShare(gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, sh models.Share) error {
			saved = sh
			return nil
		})

	require.NoError(t, s.RemoveShare(context.Background(), "l1", "a@example.com"))
	assert.Equal(t, models.StateDelete, saved.State)
	assert.Equal(t, "a@example.com", saved.Email)
}

package shoplist

import (
	"context"
	"fmt"

	"github.com/tilbuda/go-shoplist-sdk/internal/store"
	"github.com/tilbuda/go-shoplist-sdk/internal/syncer"
	"github.com/tilbuda/go-shoplist-sdk/internal/utils"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// ErrNotFound is returned when a referenced list or item does not exist
// locally.
var ErrNotFound = store.ErrNotFound

// Lists returns the current user's lists in chain order, newest first.
func (s *SDK) Lists(ctx context.Context) ([]models.List, error) {
	lists, err := s.store.GetLists(ctx, s.userID(), false)
	if err != nil {
		return nil, err
	}
	return syncer.OrderLists(visibleLists(lists)), nil
}

// List returns one list by id.
func (s *SDK) List(ctx context.Context, listID string) (models.List, error) {
	return s.store.GetList(ctx, s.userID(), listID)
}

// Items returns a list's items in chain order.
func (s *SDK) Items(ctx context.Context, listID string) ([]models.Item, error) {
	items, err := s.store.GetItems(ctx, s.userID(), listID, false)
	if err != nil {
		return nil, err
	}
	return syncer.OrderItems(visibleItems(items)), nil
}

// AddList creates a list at the head of the chain and marks it for upload.
func (s *SDK) AddList(ctx context.Context, name string) (models.List, error) {
	user := s.session.User()
	list := models.List{
		ID:         utils.NewUUID(),
		Name:       name,
		OwnerID:    user.ID,
		Type:       models.ListTypeShopping,
		PreviousID: models.FirstItemID,
		Modified:   models.Now(),
		State:      models.StateToSync,
	}

	if err := s.relinkListHead(ctx, user.ID, list.ID); err != nil {
		return models.List{}, err
	}
	if err := s.store.InsertList(ctx, user.ID, list); err != nil {
		return models.List{}, err
	}
	return list, nil
}

// EditList persists a local list edit and marks it for upload.
func (s *SDK) EditList(ctx context.Context, list models.List) error {
	list.Modified = models.Now()
	list.State = models.StateToSync
	return s.store.UpdateList(ctx, s.userID(), list)
}

// DeleteList marks a list for server-side deletion and unlinks it from the
// chain. Local rows disappear once the server confirms.
func (s *SDK) DeleteList(ctx context.Context, listID string) error {
	userID := s.userID()
	list, err := s.store.GetList(ctx, userID, listID)
	if err != nil {
		return err
	}

	if err = s.unlinkList(ctx, userID, list); err != nil {
		return err
	}

	list.Modified = models.Now()
	list.State = models.StateDelete
	return s.store.UpdateList(ctx, userID, list)
}

// AddItem creates an item at the head of the list's chain.
func (s *SDK) AddItem(ctx context.Context, listID, description string, count int) (models.Item, error) {
	user := s.session.User()
	if count < 1 {
		count = 1
	}
	if _, err := s.store.GetList(ctx, user.ID, listID); err != nil {
		return models.Item{}, fmt.Errorf("add item: %w", err)
	}

	item := models.Item{
		ID:          utils.NewUUID(),
		ListID:      listID,
		Description: description,
		Count:       count,
		Creator:     user.Email,
		PreviousID:  models.FirstItemID,
		Modified:    models.Now(),
		State:       models.StateToSync,
	}

	if err := s.relinkItemHead(ctx, user.ID, listID, item.ID); err != nil {
		return models.Item{}, err
	}
	if err := s.store.InsertItem(ctx, user.ID, item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// EditItem persists a local item edit and marks it for upload.
func (s *SDK) EditItem(ctx context.Context, item models.Item) error {
	item.Modified = models.Now()
	item.State = models.StateToSync
	return s.store.UpdateItem(ctx, s.userID(), item)
}

// TickItem toggles an item's ticked flag.
func (s *SDK) TickItem(ctx context.Context, itemID string, ticked bool) error {
	userID := s.userID()
	item, err := s.store.GetItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	item.Ticked = ticked
	item.Modified = models.Now()
	item.State = models.StateToSync
	return s.store.UpdateItem(ctx, userID, item)
}

// DeleteItem marks an item for server-side deletion and unlinks it from the
// chain.
func (s *SDK) DeleteItem(ctx context.Context, itemID string) error {
	userID := s.userID()
	item, err := s.store.GetItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err = s.unlinkItem(ctx, userID, item); err != nil {
		return err
	}

	item.Modified = models.Now()
	item.State = models.StateDelete
	return s.store.UpdateItem(ctx, userID, item)
}

// EmptyList marks a list's items for deletion; tickedOnly keeps unticked
// items.
func (s *SDK) EmptyList(ctx context.Context, listID string, tickedOnly bool) error {
	userID := s.userID()
	items, err := s.store.GetItems(ctx, userID, listID, false)
	if err != nil {
		return err
	}

	now := models.Now()
	for _, item := range items {
		if tickedOnly && !item.Ticked {
			continue
		}
		item.Modified = now
		item.State = models.StateDelete
		if err = s.store.UpdateItem(ctx, userID, item); err != nil {
			return err
		}
	}
	return nil
}

// Shares returns a list's shares.
func (s *SDK) Shares(ctx context.Context, listID string) ([]models.Share, error) {
	return s.store.GetShares(ctx, s.userID(), listID, false)
}

// ShareList grants access to a list by email. access is "r" or "rw".
func (s *SDK) ShareList(ctx context.Context, listID, email, access string) error {
	share := models.Share{
		ListID: listID,
		Email:  email,
		Access: access,
		State:  models.StateToSync,
	}
	return s.store.UpsertShare(ctx, s.userID(), share)
}

// RemoveShare marks a share for revocation. Removing your own share leaves
// the list entirely once the server confirms.
func (s *SDK) RemoveShare(ctx context.Context, listID, email string) error {
	share := models.Share{
		ListID: listID,
		Email:  email,
		State:  models.StateDelete,
	}
	return s.store.UpsertShare(ctx, s.userID(), share)
}

func (s *SDK) userID() int64 { return s.session.User().ID }

// relinkListHead points the current chain head at a soon-to-be-inserted list.
func (s *SDK) relinkListHead(ctx context.Context, userID int64, newID string) error {
	lists, err := s.store.GetLists(ctx, userID, false)
	if err != nil {
		return err
	}
	for _, l := range lists {
		if l.PreviousID != models.FirstItemID || l.State == models.StateDelete {
			continue
		}
		l.PreviousID = newID
		l.Modified = models.Now()
		if l.State == models.StateSynced {
			l.State = models.StateToSync
		}
		return s.store.UpdateList(ctx, userID, l)
	}
	return nil
}

// unlinkList splices a list out of the chain: its successor inherits its
// previous_id.
func (s *SDK) unlinkList(ctx context.Context, userID int64, list models.List) error {
	lists, err := s.store.GetLists(ctx, userID, false)
	if err != nil {
		return err
	}
	for _, l := range lists {
		if l.PreviousID != list.ID {
			continue
		}
		l.PreviousID = list.PreviousID
		l.Modified = models.Now()
		if l.State == models.StateSynced {
			l.State = models.StateToSync
		}
		return s.store.UpdateList(ctx, userID, l)
	}
	return nil
}

func (s *SDK) relinkItemHead(ctx context.Context, userID int64, listID, newID string) error {
	items, err := s.store.GetItems(ctx, userID, listID, false)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.PreviousID != models.FirstItemID || it.State == models.StateDelete {
			continue
		}
		it.PreviousID = newID
		it.Modified = models.Now()
		if it.State == models.StateSynced {
			it.State = models.StateToSync
		}
		return s.store.UpdateItem(ctx, userID, it)
	}
	return nil
}

func (s *SDK) unlinkItem(ctx context.Context, userID int64, item models.Item) error {
	items, err := s.store.GetItems(ctx, userID, item.ListID, false)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.PreviousID != item.ID {
			continue
		}
		it.PreviousID = item.PreviousID
		it.Modified = models.Now()
		if it.State == models.StateSynced {
			it.State = models.StateToSync
		}
		return s.store.UpdateItem(ctx, userID, it)
	}
	return nil
}

// visibleLists hides rows already marked for deletion from read APIs.
func visibleLists(lists []models.List) []models.List {
	out := lists[:0]
	for _, l := range lists {
		if l.State != models.StateDelete {
			out = append(out, l)
		}
	}
	return out
}

func visibleItems(items []models.Item) []models.Item {
	out := items[:0]
	for _, it := range items {
		if it.State != models.StateDelete {
			out = append(out, it)
		}
	}
	return out
}

package store

import (
	"context"
	"errors"

	"github.com/tilbuda/go-shoplist-sdk/models"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("row not found")

// ListRepository persists shopping lists per device user. dirtyOnly filters
// to rows whose state requires a network round-trip.
type ListRepository interface {
	GetLists(ctx context.Context, userID int64, dirtyOnly bool) ([]models.List, error)
	GetList(ctx context.Context, userID int64, listID string) (models.List, error)
	InsertList(ctx context.Context, userID int64, list models.List) error
	UpdateList(ctx context.Context, userID int64, list models.List) error
	DeleteList(ctx context.Context, userID int64, listID string) error
}

// ItemRepository persists list items.
type ItemRepository interface {
	GetItems(ctx context.Context, userID int64, listID string, dirtyOnly bool) ([]models.Item, error)
	GetItem(ctx context.Context, userID int64, itemID string) (models.Item, error)
	InsertItem(ctx context.Context, userID int64, item models.Item) error
	UpdateItem(ctx context.Context, userID int64, item models.Item) error
	DeleteItem(ctx context.Context, userID int64, itemID string) error

	// DeleteItems removes items of a list. An empty ids slice removes them
	// all; tickedOnly narrows the sweep to ticked rows.
	DeleteItems(ctx context.Context, userID int64, listID string, ids []string, tickedOnly bool) error
}

// ShareRepository persists list shares. Identity is (list, email) per user.
type ShareRepository interface {
	GetShares(ctx context.Context, userID int64, listID string, dirtyOnly bool) ([]models.Share, error)
	UpsertShare(ctx context.Context, userID int64, share models.Share) error
	DeleteShare(ctx context.Context, userID int64, listID, email string) error

	// CleanShares removes synced shares of the list whose email is not in
	// keep. Dirty shares survive: they still carry unpushed local intent.
	CleanShares(ctx context.Context, userID int64, listID string, keep []string) error
}

// Store aggregates the repositories behind one handle.
type Store interface {
	ListRepository
	ItemRepository
	ShareRepository
}

// Repositories bundles the concrete repositories over one database.
type Repositories struct {
	ListRepository
	ItemRepository
	ShareRepository
}

// NewRepositories wires all repositories over db.
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		ListRepository:  NewListRepository(db, db.logger),
		ItemRepository:  NewItemRepository(db, db.logger),
		ShareRepository: NewShareRepository(db, db.logger),
	}
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilbuda/go-shoplist-sdk/models"
)

func itemColumns() []string {
	return []string{"id", "list_id", "description", "count", "tick", "creator", "previous_id", "modified", "state"}
}

func TestItemRepository_GetItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db, db.logger)

	rows := sqlmock.NewRows(itemColumns()).
		AddRow("i1", "l1", "Milk", 2, false, "t@example.com", models.FirstItemID,
			stamp(0).Format(models.TimeFormat), int(models.StateSynced))

	mock.ExpectQuery(`SELECT .+ FROM items WHERE list_id = \$1 AND user_id = \$2`).
		WithArgs("l1", int64(7)).
		WillReturnRows(rows)

	items, err := repo.GetItems(context.Background(), 7, "l1", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Description)
	assert.Equal(t, 2, items[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_UpdateItem(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db, db.logger)

	item := models.Item{
		ID:          "i1",
		ListID:      "l1",
		Description: "Milk",
		Count:       3,
		Ticked:      true,
		Creator:     "t@example.com",
		PreviousID:  models.FirstItemID,
		Modified:    stamp(time.Minute),
		State:       models.StateToSync,
	}

	mock.ExpectExec(`UPDATE items SET`).
		WithArgs("l1", "Milk", 3, true, "t@example.com", models.FirstItemID,
			stamp(time.Minute).Format(models.TimeFormat), int(models.StateToSync), int64(7), "i1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateItem(context.Background(), 7, item))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_DeleteItemsSubset(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db, db.logger)

	mock.ExpectExec(`DELETE FROM items WHERE list_id = \$1 AND user_id = \$2 AND id IN \(\$3,\$4\)`).
		WithArgs("l1", int64(7), "i1", "i2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteItems(context.Background(), 7, "l1", []string{"i1", "i2"}, false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_DeleteItemsTickedOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db, db.logger)

	mock.ExpectExec(`DELETE FROM items WHERE list_id = \$1 AND user_id = \$2 AND tick = \$3`).
		WithArgs("l1", int64(7), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteItems(context.Background(), 7, "l1", nil, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareRepository_CleanSharesKeepsListed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShareRepository(db, db.logger)

	mock.ExpectExec(`DELETE FROM shares WHERE list_id = \$1 AND user_id = \$2 AND state = \$3 AND email NOT IN \(\$4,\$5\)`).
		WithArgs("l1", int64(7), int(models.StateSynced), "a@example.com", "b@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CleanShares(context.Background(), 7, "l1", []string{"a@example.com", "b@example.com"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareRepository_UpsertShare(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShareRepository(db, db.logger)

	share := models.Share{ListID: "l1", Email: "a@example.com", Access: "rw", Accepted: true, State: models.StateToSync}

	mock.ExpectExec(`INSERT INTO shares`).
		WithArgs("l1", int64(7), "a@example.com", "rw", true, int(models.StateToSync)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpsertShare(context.Background(), 7, share))
	require.NoError(t, mock.ExpectationsWereMet())
}

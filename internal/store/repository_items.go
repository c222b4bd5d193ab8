package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

type itemRepository struct {
	*DB
	logger *logger.Logger
}

func NewItemRepository(db *DB, logger *logger.Logger) ItemRepository {
	return &itemRepository{
		DB:     db,
		logger: logger,
	}
}

func (i *itemRepository) GetItems(ctx context.Context, userID int64, listID string, dirtyOnly bool) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	builder := qb.
		Select("id", "list_id", "description", "count", "tick", "creator", "previous_id", "modified", "state").
		From("items").
		Where(sq.Eq{"user_id": userID, "list_id": listID})
	if dirtyOnly {
		builder = builder.Where(sq.Eq{"state": dirtyStates})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := i.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.GetItems").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("failed to execute query for getting items")
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item

	for rows.Next() {
		var item models.Item

		scanErr := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Description,
			&item.Count,
			&item.Ticked,
			&item.Creator,
			&item.PreviousID,
			&item.Modified,
			&item.State,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "itemRepository.GetItems").
				Int64("user_id", userID).
				Str("list_id", listID).
				Msg("failed to scan item row")
			return nil, fmt.Errorf("failed to scan item row: %w", scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "itemRepository.GetItems").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating item rows: %w", rowsErr)
	}

	return items, nil
}

func (i *itemRepository) GetItem(ctx context.Context, userID int64, itemID string) (models.Item, error) {
	log := logger.FromContext(ctx)

	var item models.Item
	row := i.DB.QueryRowContext(ctx, getSingleItem, userID, itemID)

	scanErr := row.Scan(
		&item.ID,
		&item.ListID,
		&item.Description,
		&item.Count,
		&item.Ticked,
		&item.Creator,
		&item.PreviousID,
		&item.Modified,
		&item.State,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Item{}, ErrNotFound
		}
		log.Err(scanErr).
			Str("func", "itemRepository.GetItem").
			Int64("user_id", userID).
			Str("item_id", itemID).
			Msg("failed to scan item row")
		return models.Item{}, fmt.Errorf("failed to scan item row: %w", scanErr)
	}

	return item, nil
}

func (i *itemRepository) InsertItem(ctx context.Context, userID int64, item models.Item) error {
	log := logger.FromContext(ctx)

	_, err := i.DB.ExecContext(ctx, insertItem,
		item.ID,
		item.ListID,
		userID,
		item.Description,
		item.Count,
		item.Ticked,
		item.Creator,
		item.PreviousID,
		item.Modified,
		item.State,
	)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.InsertItem").
			Int64("user_id", userID).
			Str("item_id", item.ID).
			Msg("failed to execute insert for item")
		return fmt.Errorf("failed to insert item (id=%s): %w", item.ID, err)
	}

	return nil
}

func (i *itemRepository) UpdateItem(ctx context.Context, userID int64, item models.Item) error {
	log := logger.FromContext(ctx)

	_, err := i.DB.ExecContext(ctx, updateItem,
		item.ListID,
		item.Description,
		item.Count,
		item.Ticked,
		item.Creator,
		item.PreviousID,
		item.Modified,
		item.State,
		userID,
		item.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.UpdateItem").
			Int64("user_id", userID).
			Str("item_id", item.ID).
			Msg("failed to execute update for item")
		return fmt.Errorf("failed to update item (id=%s): %w", item.ID, err)
	}

	return nil
}

func (i *itemRepository) DeleteItem(ctx context.Context, userID int64, itemID string) error {
	log := logger.FromContext(ctx)

	_, err := i.DB.ExecContext(ctx, deleteItem, userID, itemID)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.DeleteItem").
			Int64("user_id", userID).
			Str("item_id", itemID).
			Msg("failed to execute delete for item")
		return fmt.Errorf("failed to delete item (id=%s): %w", itemID, err)
	}

	return nil
}

func (i *itemRepository) DeleteItems(ctx context.Context, userID int64, listID string, ids []string, tickedOnly bool) error {
	log := logger.FromContext(ctx)

	builder := qb.
		Delete("items").
		Where(sq.Eq{"user_id": userID, "list_id": listID})
	if len(ids) > 0 {
		builder = builder.Where(sq.Eq{"id": ids})
	}
	if tickedOnly {
		builder = builder.Where(sq.Eq{"tick": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete items query: %w", err)
	}

	if _, err = i.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "itemRepository.DeleteItems").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("failed to execute bulk delete for items")
		return fmt.Errorf("failed to delete items (list_id=%s): %w", listID, err)
	}

	return nil
}

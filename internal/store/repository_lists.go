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

// dirtyStates is the set of states that require a network round-trip.
var dirtyStates = []int{
	int(models.StateToSync),
	int(models.StateDelete),
	int(models.StateError),
}

type listRepository struct {
	*DB
	logger *logger.Logger
}

func NewListRepository(db *DB, logger *logger.Logger) ListRepository {
	return &listRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *listRepository) GetLists(ctx context.Context, userID int64, dirtyOnly bool) ([]models.List, error) {
	log := logger.FromContext(ctx)

	builder := qb.
		Select("id", "name", "type", "owner_id", "previous_id", "modified", "state").
		From("lists").
		Where(sq.Eq{"user_id": userID})
	if dirtyOnly {
		builder = builder.Where(sq.Eq{"state": dirtyStates})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lists query: %w", err)
	}

	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "listRepository.GetLists").
			Int64("user_id", userID).
			Msg("failed to execute query for getting lists")
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.List

	for rows.Next() {
		var list models.List

		scanErr := rows.Scan(
			&list.ID,
			&list.Name,
			&list.Type,
			&list.OwnerID,
			&list.PreviousID,
			&list.Modified,
			&list.State,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "listRepository.GetLists").
				Int64("user_id", userID).
				Msg("failed to scan list row")
			return nil, fmt.Errorf("failed to scan list row: %w", scanErr)
		}

		lists = append(lists, list)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "listRepository.GetLists").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating list rows: %w", rowsErr)
	}

	return lists, nil
}

func (l *listRepository) GetList(ctx context.Context, userID int64, listID string) (models.List, error) {
	log := logger.FromContext(ctx)

	var list models.List
	row := l.DB.QueryRowContext(ctx, getSingleList, userID, listID)

	scanErr := row.Scan(
		&list.ID,
		&list.Name,
		&list.Type,
		&list.OwnerID,
		&list.PreviousID,
		&list.Modified,
		&list.State,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.List{}, ErrNotFound
		}
		log.Err(scanErr).
			Str("func", "listRepository.GetList").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("failed to scan list row")
		return models.List{}, fmt.Errorf("failed to scan list row: %w", scanErr)
	}

	return list, nil
}

func (l *listRepository) InsertList(ctx context.Context, userID int64, list models.List) error {
	log := logger.FromContext(ctx)

	_, err := l.DB.ExecContext(ctx, insertList,
		list.ID,
		userID,
		list.Name,
		list.Type,
		list.OwnerID,
		list.PreviousID,
		list.Modified,
		list.State,
	)
	if err != nil {
		log.Err(err).
			Str("func", "listRepository.InsertList").
			Int64("user_id", userID).
			Str("list_id", list.ID).
			Msg("failed to execute insert for list")
		return fmt.Errorf("failed to insert list (id=%s): %w", list.ID, err)
	}

	return nil
}

func (l *listRepository) UpdateList(ctx context.Context, userID int64, list models.List) error {
	log := logger.FromContext(ctx)

	_, err := l.DB.ExecContext(ctx, updateList,
		list.Name,
		list.Type,
		list.OwnerID,
		list.PreviousID,
		list.Modified,
		list.State,
		userID,
		list.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "listRepository.UpdateList").
			Int64("user_id", userID).
			Str("list_id", list.ID).
			Msg("failed to execute update for list")
		return fmt.Errorf("failed to update list (id=%s): %w", list.ID, err)
	}

	return nil
}

func (l *listRepository) DeleteList(ctx context.Context, userID int64, listID string) error {
	log := logger.FromContext(ctx)

	_, err := l.DB.ExecContext(ctx, deleteList, userID, listID)
	if err != nil {
		log.Err(err).
			Str("func", "listRepository.DeleteList").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("failed to execute delete for list")
		return fmt.Errorf("failed to delete list (id=%s): %w", listID, err)
	}

	return nil
}

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

type shareRepository struct {
	*DB
	logger *logger.Logger
}

func NewShareRepository(db *DB, logger *logger.Logger) ShareRepository {
	return &shareRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *shareRepository) GetShares(ctx context.Context, userID int64, listID string, dirtyOnly bool) ([]models.Share, error) {
	log := logger.FromContext(ctx)

	builder := qb.
		Select("list_id", "email", "access", "accepted", "state").
		From("shares").
		Where(sq.Eq{"user_id": userID, "list_id": listID})
	if dirtyOnly {
		builder = builder.Where(sq.Eq{"state": dirtyStates})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shares query: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "shareRepository.GetShares").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("failed to execute query for getting shares")
		return nil, fmt.Errorf("failed to query shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share

	for rows.Next() {
		var share models.Share

		scanErr := rows.Scan(
			&share.ListID,
			&share.Email,
			&share.Access,
			&share.Accepted,
			&share.State,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "shareRepository.GetShares").
				Int64("user_id", userID).
				Str("list_id", listID).
				Msg("failed to scan share row")
			return nil, fmt.Errorf("failed to scan share row: %w", scanErr)
		}

		shares = append(shares, share)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "shareRepository.GetShares").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating share rows: %w", rowsErr)
	}

	return shares, nil
}

func (s *shareRepository) UpsertShare(ctx context.Context, userID int64, share models.Share) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, upsertShare,
		share.ListID,
		userID,
		share.Email,
		share.Access,
		share.Accepted,
		share.State,
	)
	if err != nil {
		log.Err(err).
			Str("func", "shareRepository.UpsertShare").
			Int64("user_id", userID).
			Str("list_id", share.ListID).
			Str("email", share.Email).
			Msg("failed to execute upsert for share")
		return fmt.Errorf("failed to upsert share (list_id=%s, email=%s): %w", share.ListID, share.Email, err)
	}

	return nil
}

func (s *shareRepository) DeleteShare(ctx context.Context, userID int64, listID, email string) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, deleteShare, userID, listID, email)
	if err != nil {
		log.Err(err).
			Str("func", "shareRepository.DeleteShare").
			Int64("user_id", userID).
			Str("list_id", listID).
			Str("email", email).
			Msg("failed to execute delete for share")
		return fmt.Errorf("failed to delete share (list_id=%s, email=%s): %w", listID, email, err)
	}

	return nil
}

func (s *shareRepository) CleanShares(ctx context.Context, userID int64, listID string, keep []string) error {
	log := logger.FromContext(ctx)

	builder := qb.
		Delete("shares").
		Where(sq.Eq{"user_id": userID, "list_id": listID}).
		Where(sq.Eq{"state": int(models.StateSynced)})
	if len(keep) > 0 {
		builder = builder.Where(sq.NotEq{"email": keep})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clean shares query: %w", err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "shareRepository.CleanShares").
			Int64("user_id", userID).
			Str("list_id", listID).
			Msg("failed to execute clean for shares")
		return fmt.Errorf("failed to clean shares (list_id=%s): %w", listID, err)
	}

	return nil
}

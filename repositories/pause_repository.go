package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/interclass/tournament-system/models"
)

var (
	ErrPauseIntervalNotFound = errors.New("pause interval not found")
	ErrPauseAlreadyOpen      = errors.New("game already has an open pause interval")
	ErrNoOpenPause           = errors.New("game has no open pause interval")
	ErrPauseEndBeforeStart   = errors.New("pause interval end must not precede its start")
)

type PauseRepository interface {
	ListByGame(ctx context.Context, gameID int) ([]models.PauseInterval, error)
	GetOpen(ctx context.Context, gameID int) (*models.PauseInterval, error)
	// Open starts a new pause. A game may hold at most one open interval.
	Open(ctx context.Context, gameID int, startedAt time.Time) (*models.PauseInterval, error)
	// Close ends the open interval. endedAt must not precede its start.
	Close(ctx context.Context, gameID int, endedAt time.Time) (*models.PauseInterval, error)
}

type postgresPauseRepository struct {
	db *sql.DB
}

func NewPostgresPauseRepository(db *sql.DB) PauseRepository {
	return &postgresPauseRepository{db: db}
}

func (r *postgresPauseRepository) ListByGame(ctx context.Context, gameID int) ([]models.PauseInterval, error) {
	query := `
		SELECT id, game_id, started_at, ended_at
		FROM pause_intervals
		WHERE game_id = $1
		ORDER BY started_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := make([]models.PauseInterval, 0)
	for rows.Next() {
		var iv models.PauseInterval
		if scanErr := rows.Scan(&iv.ID, &iv.GameID, &iv.StartedAt, &iv.EndedAt); scanErr != nil {
			return nil, scanErr
		}
		intervals = append(intervals, iv)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return intervals, nil
}

func (r *postgresPauseRepository) GetOpen(ctx context.Context, gameID int) (*models.PauseInterval, error) {
	query := `
		SELECT id, game_id, started_at, ended_at
		FROM pause_intervals
		WHERE game_id = $1 AND ended_at IS NULL`

	var iv models.PauseInterval
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(&iv.ID, &iv.GameID, &iv.StartedAt, &iv.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPauseIntervalNotFound
		}
		return nil, err
	}
	return &iv, nil
}

func (r *postgresPauseRepository) Open(ctx context.Context, gameID int, startedAt time.Time) (*models.PauseInterval, error) {
	if _, err := r.GetOpen(ctx, gameID); err == nil {
		return nil, ErrPauseAlreadyOpen
	} else if !errors.Is(err, ErrPauseIntervalNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO pause_intervals (game_id, started_at)
		VALUES ($1, $2)
		RETURNING id`

	iv := &models.PauseInterval{GameID: gameID, StartedAt: startedAt}
	if err := r.db.QueryRowContext(ctx, query, gameID, startedAt).Scan(&iv.ID); err != nil {
		return nil, err
	}
	return iv, nil
}

func (r *postgresPauseRepository) Close(ctx context.Context, gameID int, endedAt time.Time) (*models.PauseInterval, error) {
	open, err := r.GetOpen(ctx, gameID)
	if err != nil {
		if errors.Is(err, ErrPauseIntervalNotFound) {
			return nil, ErrNoOpenPause
		}
		return nil, err
	}
	if endedAt.Before(open.StartedAt) {
		return nil, ErrPauseEndBeforeStart
	}

	query := `UPDATE pause_intervals SET ended_at = $1 WHERE id = $2 AND ended_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, endedAt, open.ID)
	if err != nil {
		return nil, err
	}
	if err := checkAffectedRows(result, ErrNoOpenPause); err != nil {
		return nil, err
	}
	open.EndedAt = &endedAt
	return open, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/interclass/tournament-system/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameStatusConflict = errors.New("game is no longer in the expected status")
	ErrGameTeamInvalid    = errors.New("game team conflict or invalid")
	ErrGameEventInvalid   = errors.New("game event conflict or invalid")
)

// GameFilter narrows List. Nil fields are not applied.
type GameFilter struct {
	Statuses []models.GameStatus
	From     *time.Time
	To       *time.Time
	Modality *string
	Category *string
	Stage    *models.Stage
}

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, filter GameFilter) ([]*models.Game, error)
	// UpdateStatus applies a status change only if the game is still in
	// the expected current status, so overlapping sweeps cannot apply
	// the same transition twice.
	UpdateStatus(ctx context.Context, id int, from, to models.GameStatus) error
	UpdateScore(ctx context.Context, id, scoreTeam1, scoreTeam2 int) error
	// UpdateSchedule moves a game to a new time slot.
	UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, period *models.Period) error
	ListFinishedGroupGames(ctx context.Context, modality, category, groupLabel string) ([]*models.Game, error)
	ListByStage(ctx context.Context, modality, category string, stage models.Stage) ([]*models.Game, error)
	AddEvent(ctx context.Context, event *models.GameEvent) error
	ListEvents(ctx context.Context, gameID int) ([]models.GameEvent, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, team1_id, team2_id, modality, category, stage, scheduled_at, period, status, score_team1, score_team2, created_at`

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games
			(team1_id, team2_id, modality, category, stage, scheduled_at, period, status, score_team1, score_team2)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		game.Team1ID,
		game.Team2ID,
		game.Modality,
		game.Category,
		game.Stage,
		game.ScheduledAt,
		game.Period,
		game.Status,
		game.ScoreTeam1,
		game.ScoreTeam2,
	).Scan(&game.ID, &game.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	var period sql.NullString
	err := rowScanner.Scan(
		&g.ID, &g.Team1ID, &g.Team2ID, &g.Modality, &g.Category, &g.Stage,
		&g.ScheduledAt, &period, &g.Status, &g.ScoreTeam1, &g.ScoreTeam2, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if period.Valid {
		p := models.Period(period.String)
		g.Period = &p
	}
	return &g, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanGame(row)
}

func (r *postgresGameRepository) List(ctx context.Context, filter GameFilter) ([]*models.Game, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + gameColumns + ` FROM games WHERE 1=1`)

	args := make([]interface{}, 0, 6)
	placeholderIndex := 1

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		queryBuilder.WriteString(" AND status = ANY($")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		queryBuilder.WriteString(")")
		args = append(args, pq.Array(statuses))
		placeholderIndex++
	}
	if filter.From != nil {
		queryBuilder.WriteString(" AND scheduled_at >= $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.From)
		placeholderIndex++
	}
	if filter.To != nil {
		queryBuilder.WriteString(" AND scheduled_at < $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.To)
		placeholderIndex++
	}
	if filter.Modality != nil {
		queryBuilder.WriteString(" AND modality = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Modality)
		placeholderIndex++
	}
	if filter.Category != nil {
		queryBuilder.WriteString(" AND category = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Category)
		placeholderIndex++
	}
	if filter.Stage != nil {
		queryBuilder.WriteString(" AND stage = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Stage)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY scheduled_at ASC, id ASC")

	return r.queryGames(ctx, queryBuilder.String(), args...)
}

func (r *postgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, scanErr := r.scanGame(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) UpdateStatus(ctx context.Context, id int, from, to models.GameStatus) error {
	query := `UPDATE games SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return r.handleGameError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either the game vanished or another writer moved it first.
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrGameNotFound) {
			return ErrGameNotFound
		}
		return ErrGameStatusConflict
	}
	return nil
}

func (r *postgresGameRepository) UpdateScore(ctx context.Context, id, scoreTeam1, scoreTeam2 int) error {
	query := `UPDATE games SET score_team1 = $1, score_team2 = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, scoreTeam1, scoreTeam2, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, period *models.Period) error {
	query := `UPDATE games SET scheduled_at = $1, period = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, scheduledAt, period, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) ListFinishedGroupGames(ctx context.Context, modality, category, groupLabel string) ([]*models.Game, error) {
	query := `
		SELECT g.id, g.team1_id, g.team2_id, g.modality, g.category, g.stage, g.scheduled_at, g.period, g.status, g.score_team1, g.score_team2, g.created_at
		FROM games g
		JOIN teams t1 ON g.team1_id = t1.id
		JOIN teams t2 ON g.team2_id = t2.id
		WHERE g.status = $1 AND g.stage = $2
		  AND g.modality = $3 AND g.category = $4
		  AND t1.group_label = $5 AND t2.group_label = $5
		ORDER BY g.scheduled_at ASC, g.id ASC`

	return r.queryGames(ctx, query, models.StatusFinished, models.StageGroup, modality, category, groupLabel)
}

func (r *postgresGameRepository) ListByStage(ctx context.Context, modality, category string, stage models.Stage) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
		WHERE modality = $1 AND category = $2 AND stage = $3
		ORDER BY scheduled_at ASC, id ASC`
	return r.queryGames(ctx, query, modality, category, stage)
}

func (r *postgresGameRepository) AddEvent(ctx context.Context, event *models.GameEvent) error {
	query := `
		INSERT INTO game_events (game_id, type, minute, team_id, player)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.GameID, event.Type, event.Minute, event.TeamID, event.Player,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrGameEventInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) ListEvents(ctx context.Context, gameID int) ([]models.GameEvent, error) {
	query := `
		SELECT id, game_id, type, minute, team_id, player, created_at
		FROM game_events
		WHERE game_id = $1
		ORDER BY minute ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.GameEvent, 0)
	for rows.Next() {
		var e models.GameEvent
		if scanErr := rows.Scan(&e.ID, &e.GameID, &e.Type, &e.Minute, &e.TeamID, &e.Player, &e.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "games_team1_id_fkey", "games_team2_id_fkey":
				return ErrGameTeamInvalid
			}
		}
	}
	return err
}

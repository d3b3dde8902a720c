package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/interclass/tournament-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name is already in use for this modality and category")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByModalityCategory(ctx context.Context, modality, category string) ([]*models.Team, error)
	// ListGroupLabels returns the distinct non-null group labels of a
	// modality/category, sorted.
	ListGroupLabels(ctx context.Context, modality, category string) ([]string, error)
	UpdateCrestKey(ctx context.Context, id int, crestKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, class_label, modality, category, group_label, crest_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, class_label, modality, category, group_label, crest_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name, team.ClassLabel, team.Modality, team.Category, team.GroupLabel, team.CrestKey,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.ClassLabel, &t.Modality, &t.Category, &t.GroupLabel, &t.CrestKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTeam(row)
}

func (r *postgresTeamRepository) ListByModalityCategory(ctx context.Context, modality, category string) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams
		WHERE modality = $1 AND category = $2
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, modality, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) ListGroupLabels(ctx context.Context, modality, category string) ([]string, error) {
	query := `
		SELECT DISTINCT group_label FROM teams
		WHERE modality = $1 AND category = $2 AND group_label IS NOT NULL
		ORDER BY group_label ASC`

	rows, err := r.db.QueryContext(ctx, query, modality, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]string, 0)
	for rows.Next() {
		var label string
		if scanErr := rows.Scan(&label); scanErr != nil {
			return nil, scanErr
		}
		labels = append(labels, label)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *postgresTeamRepository) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	query := `UPDATE teams SET crest_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, crestKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

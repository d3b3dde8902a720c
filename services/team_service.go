package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/repositories"
	"github.com/interclass/tournament-system/storage"
)

type TeamService interface {
	Create(ctx context.Context, team *models.Team) error
	Get(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, modality, category string) ([]*models.Team, error)
	// UploadCrest stores a crest image for the team and replaces any
	// previous one.
	UploadCrest(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{teamRepo: teamRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, team *models.Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if team.Modality == "" || team.Category == "" {
		return fmt.Errorf("%w: modality and category are required", ErrValidationFailed)
	}
	return s.teamRepo.Create(ctx, team)
}

func (s *teamService) Get(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, id)
		}
		return nil, err
	}
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context, modality, category string) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByModalityCategory(ctx, modality, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for %s/%s: %w", modality, category, err)
	}
	for _, t := range teams {
		s.populateCrestURL(t)
	}
	return teams, nil
}

func (s *teamService) UploadCrest(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: crest storage is not configured", ErrValidationFailed)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, teamID)
		}
		return nil, err
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("teams/%d/crest%s", teamID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload crest for team %d: %w", teamID, err)
	}

	oldKey := team.CrestKey
	if err := s.teamRepo.UpdateCrestKey(ctx, teamID, &key); err != nil {
		return nil, fmt.Errorf("failed to store crest key for team %d: %w", teamID, err)
	}
	if oldKey != nil && *oldKey != key {
		// Best effort: a stale crest object is harmless.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.CrestKey = &key
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) populateCrestURL(team *models.Team) {
	if team == nil || team.CrestKey == nil || *team.CrestKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*team.CrestKey); url != "" {
		team.CrestURL = &url
	}
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("unsupported crest content type %q", contentType)
	}
}

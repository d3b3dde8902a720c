package models

import "time"

// PauseInterval is a span during which a game's playing clock does not
// advance. EndedAt is nil while the pause is still open; a game has at
// most one open interval at a time.
type PauseInterval struct {
	ID        int        `json:"id" db:"id"`
	GameID    int        `json:"game_id" db:"game_id"`
	StartedAt time.Time  `json:"started_at" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

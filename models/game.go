package models

import "time"

type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusPaused     GameStatus = "paused"
	StatusFinished   GameStatus = "finished"
	StatusCanceled   GameStatus = "canceled"
)

type Stage string

const (
	StageGroup     Stage = "group"
	StageSemifinal Stage = "semifinal"
	StageFinal     Stage = "final"
)

// Period is one of the four fixed time-of-day windows used to gate
// automatic activation and cancellation. A game without an assigned
// period is activated by exact scheduled time instead.
type Period string

const (
	PeriodMorning   Period = "morning"   // [06:00, 12:00)
	PeriodMidday    Period = "midday"    // [12:00, 14:00)
	PeriodAfternoon Period = "afternoon" // [14:00, 18:00)
	PeriodEvening   Period = "evening"   // [18:00, 06:00) next day
)

type Game struct {
	ID          int        `json:"id" db:"id"`
	Team1ID     int        `json:"team1_id" db:"team1_id"`
	Team2ID     int        `json:"team2_id" db:"team2_id"`
	Modality    string     `json:"modality" db:"modality"`
	Category    string     `json:"category" db:"category"`
	Stage       Stage      `json:"stage" db:"stage"`
	ScheduledAt time.Time  `json:"scheduled_at" db:"scheduled_at"`
	Period      *Period    `json:"period,omitempty" db:"period"`
	Status      GameStatus `json:"status" db:"status"`
	ScoreTeam1  int        `json:"score_team1" db:"score_team1"`
	ScoreTeam2  int        `json:"score_team2" db:"score_team2"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	// Optional linked data, populated by services, not scanned directly.
	Team1          *Team           `json:"team1,omitempty" db:"-"`
	Team2          *Team           `json:"team2,omitempty" db:"-"`
	Events         []GameEvent     `json:"events,omitempty" db:"-"`
	PauseIntervals []PauseInterval `json:"pause_intervals,omitempty" db:"-"`
}

type GameEventType string

const (
	EventGoal         GameEventType = "goal"
	EventYellowCard   GameEventType = "yellow_card"
	EventRedCard      GameEventType = "red_card"
	EventSubstitution GameEventType = "substitution"
)

type GameEvent struct {
	ID        int           `json:"id" db:"id"`
	GameID    int           `json:"game_id" db:"game_id"`
	Type      GameEventType `json:"type" db:"type"`
	Minute    int           `json:"minute" db:"minute"`
	TeamID    int           `json:"team_id" db:"team_id"`
	Player    string        `json:"player" db:"player"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// TransitionRecord captures one applied (or attempted) status change.
type TransitionRecord struct {
	GameID  int        `json:"game_id"`
	From    GameStatus `json:"from"`
	To      GameStatus `json:"to"`
	At      time.Time  `json:"at"`
	ActorID *int       `json:"actor_id,omitempty"`
	Reason  *string    `json:"reason,omitempty"`
}

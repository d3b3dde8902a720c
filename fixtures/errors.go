package fixtures

import "fmt"

// InsufficientDataError means there were not enough teams or qualified
// rows to build the requested fixture set.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data to generate fixtures: %s", e.Reason)
}

// TieNotAllowedError means a knockout game used as generation input
// ended level, so no winner can advance.
type TieNotAllowedError struct {
	GameID int
	Score1 int
	Score2 int
}

func (e *TieNotAllowedError) Error() string {
	return fmt.Sprintf("knockout game %d ended level %d-%d: a tie cannot produce a winner", e.GameID, e.Score1, e.Score2)
}

package services

import "errors"

// Shared service-level errors, mapped to HTTP semantics by the handlers.
var (
	// Missing resources
	ErrGameNotFound = errors.New("game not found")
	ErrTeamNotFound = errors.New("team not found")

	// Validation and business rules
	ErrValidationFailed  = errors.New("validation failed")
	ErrTeamsIdentical    = errors.New("a game needs two distinct teams")
	ErrTeamWrongModality = errors.New("team does not belong to the requested modality and category")
	ErrScoreNotEditable  = errors.New("game status does not allow score updates")
	ErrGameNotEditable   = errors.New("only scheduled games can be edited")

	// A referenced game disappeared or changed status mid-operation.
	ErrStaleOrMissingGame = errors.New("game is stale or missing")
)

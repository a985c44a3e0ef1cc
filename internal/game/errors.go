package game

import "errors"

// Domain errors. Every engine failure wraps one of these; callers are
// expected to match with errors.Is, report, and retry with corrected
// input. No failed operation leaves partial state behind.
var (
	ErrGameOver              = errors.New("game is over")
	ErrWrongPlayer           = errors.New("action must be performed by the current player")
	ErrWrongPhase            = errors.New("action not allowed in current phase")
	ErrUnknownPlayer         = errors.New("unknown player")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrIllegalPlacement      = errors.New("illegal placement")
	ErrEmptyDeck             = errors.New("no development cards remain in the deck")
	ErrInvalidTrade          = errors.New("invalid trade")
	ErrInvalidDiscard        = errors.New("invalid discard")
	ErrInvalidTarget         = errors.New("invalid robber target")
	ErrInvalidCardPlay       = errors.New("invalid development card play")
)

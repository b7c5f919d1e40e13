package apperror

import "errors"

var (
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrUnknownCard     = errors.New("unknown card")
	ErrDuplicatePlayer = errors.New("duplicate player name")
	ErrDuplicateCard   = errors.New("duplicate card")
	ErrPlayerCount     = errors.New("player count must be between 3 and 6")
	ErrCardKnown       = errors.New("card holder is already known")
)

package models

import "errors"

// Custom errors
var (
	ErrTeamNameRequired = errors.New("team name is required")
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrUnknownDivision  = errors.New("unknown division")
	ErrInvalidBidAmount = errors.New("bid amount must be non-negative")
)

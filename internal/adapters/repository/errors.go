package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound      = errors.New("model not found")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
	ErrUnknownMetric = errors.New("unknown ranking metric")
)

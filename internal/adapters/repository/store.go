// Package repository defines the leaderboard store interface and errors.
package repository

import (
	"context"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// Store provides read/write access to the ranked leaderboard.
type Store interface {
	// Submit upserts an entry keyed by (model, organization), re-sorts the
	// collection by the primary metric and reassigns dense ranks. The
	// returned entry carries its new rank. Submitting an identical entry
	// twice leaves the leaderboard unchanged.
	Submit(ctx context.Context, entry model.LeaderboardEntry) (model.LeaderboardEntry, error)

	// TopN returns the top-N entries in rank order.
	TopN(ctx context.Context, n int) ([]model.LeaderboardEntry, error)

	// Rank returns the entry for a model name, ErrNotFound if unknown.
	Rank(ctx context.Context, modelName string) (model.LeaderboardEntry, error)

	// Count returns the number of entries on the leaderboard.
	Count(ctx context.Context) int
}

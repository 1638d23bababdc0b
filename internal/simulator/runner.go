package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
)

// Run executes a full simulation: generate submissions for every default
// profile, post them concurrently, then read back the leaderboard and
// check it is ordered by profile strength.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("simulator")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting submission simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("dataset", cfg.DatasetPath),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed),
	)

	client := newHTTPClient(cfg.Timeout)

	if err := client.get(ctx, cfg.BaseURL+"/healthz", nil); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	samples, err := model.LoadSamples(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	log.Info(ctx, "dataset loaded", logger.Int("samples", len(samples)))

	// One derived rng per profile keeps generation order-independent
	// across the submit workers.
	profiles := DefaultProfiles()
	subs := make([]submissionWire, len(profiles))
	for i, p := range profiles {
		subs[i] = Generate(samples, p, rand.New(rand.NewSource(cfg.Seed+int64(i))))
	}
	stats.ProfilesGenerated = len(subs)

	if err := submitAll(ctx, client, cfg, subs, stats); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	log.Info(ctx, "waiting for evaluations to settle")
	select {
	case <-time.After(cfg.SettleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	var leaderboard []entryWire
	url := fmt.Sprintf("%s/leaderboard?limit=%d", cfg.BaseURL, cfg.TopN)
	if err := client.get(ctx, url, &leaderboard); err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(leaderboard)

	if err := verify(ctx, log, profiles, leaderboard, cfg.Verbose); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "simulation completed",
		logger.Int("accepted", stats.SubmissionsAccepted),
		logger.Int("duplicate", stats.SubmissionsDuplicate),
		logger.Int("failed", stats.SubmissionsFailed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}

// submitAll posts submissions through a bounded worker pool.
func submitAll(ctx context.Context, client *httpClient, cfg *Config, subs []submissionWire, stats *Stats) error {
	log := logger.Get().Named("simulator")
	url := cfg.BaseURL + "/submit"

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(subs) {
		workers = len(subs)
	}

	var accepted, duplicate, failed int64
	work := make(chan submissionWire)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range work {
				var ack ackWire
				status, err := client.post(ctx, url, sub, &ack)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "submission failed",
						logger.String("model", sub.ModelName),
						logger.Error(err),
					)
				case status == http.StatusAccepted:
					atomic.AddInt64(&accepted, 1)
				case status == http.StatusOK && ack.Duplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "submission rejected",
						logger.String("model", sub.ModelName),
						logger.Int("status", status),
					)
				}
			}
		}()
	}

	for _, sub := range subs {
		select {
		case work <- sub:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(work)
	wg.Wait()

	stats.SubmissionsAccepted = int(accepted)
	stats.SubmissionsDuplicate = int(duplicate)
	stats.SubmissionsFailed = int(failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", failed, len(subs))
	}
	return nil
}

// verify checks that the returned leaderboard orders the synthetic models
// by their configured accuracy. Confidence noise can reorder neighbors on
// small datasets, so inversions are logged, not fatal.
func verify(ctx context.Context, log logger.Logger, profiles []Profile, leaderboard []entryWire, verbose bool) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	accuracyByName := make(map[string]float64, len(profiles))
	for _, p := range profiles {
		accuracyByName[p.Name] = p.Accuracy
	}

	prev := 2.0
	for _, e := range leaderboard {
		acc, ok := accuracyByName[e.Model]
		if !ok {
			continue // entries from earlier runs
		}
		if acc > prev {
			log.Warn(ctx, "leaderboard inversion against profile accuracy",
				logger.String("model", e.Model),
				logger.Int("rank", e.Rank),
			)
		}
		prev = acc

		if verbose {
			log.Info(ctx, "leaderboard entry",
				logger.Int("rank", e.Rank),
				logger.String("model", e.Model),
				logger.Float64("u_f1", e.Metrics.UF1),
				logger.Float64("accuracy", e.Metrics.Accuracy),
				logger.Int("samples", e.Metrics.NSamples),
			)
		}
	}
	log.Info(ctx, "leaderboard verified", logger.Int("entries", len(leaderboard)))
	return nil
}

// bench-validate runs the offline validation analysis: it draws a
// stratified subsample of the dataset, scores the heuristic oracle and a
// mock baseline over it, and reports inter-rater agreement against the
// curated labels plus a cross-model significance comparison.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/onto-project/ontobench/internal/baseline"
	"github.com/onto-project/ontobench/internal/domain/agreement"
	"github.com/onto-project/ontobench/internal/domain/eval"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
)

const (
	defaultSampleSize = 100
	defaultSeed       = 42
	defaultRunTimeout = 5 * time.Minute
	mockUnknownRate   = 0.33
)

type report struct {
	SampleSize   int              `json:"sample_size"`
	Seed         int64            `json:"seed"`
	Agreement    agreement.Report `json:"oracle_agreement"`
	OracleRun    baseline.RunMeta `json:"oracle_run"`
	OracleReport eval.Report      `json:"oracle_report"`
	MockReport   eval.Report      `json:"mock_report"`
	Significance map[string]any   `json:"significance"`
}

func main() {
	var (
		datasetPath = flag.String("dataset", "data/test.jsonl", "JSONL sample file with curated labels")
		sampleSize  = flag.Int("size", defaultSampleSize, "Stratified validation subsample size")
		seed        = flag.Int64("seed", defaultSeed, "RNG seed for subsample selection and the mock baseline")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("bench-validate")

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	samples, err := model.LoadSamples(*datasetPath)
	if err != nil {
		log.Error(ctx, "dataset load failed", logger.Error(err))
		os.Exit(1)
	}

	subsample := agreement.StratifiedSample(samples, *sampleSize, rand.New(rand.NewSource(*seed)))
	truth, err := model.GroundTruthFrom(subsample)
	if err != nil {
		log.Error(ctx, "ground truth build failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "validation subsample selected",
		logger.Int("total", len(samples)),
		logger.Int("selected", len(subsample)),
		logger.Any("seed", *seed),
	)

	runner := baseline.NewRunner()
	oracle := baseline.NewHeuristicModel()
	oraclePreds, oracleMeta, err := runner.Run(ctx, oracle, subsample)
	if err != nil {
		log.Error(ctx, "oracle run failed", logger.Error(err))
		os.Exit(1)
	}

	mock := baseline.NewMockModel("mock-baseline", mockUnknownRate, rand.New(rand.NewSource(*seed)))
	mockPreds, _, err := runner.Run(ctx, mock, subsample)
	if err != nil {
		log.Error(ctx, "mock run failed", logger.Error(err))
		os.Exit(1)
	}

	// Agreement between the curated labels and the oracle's assignments,
	// broken down by the curated label.
	curated := make([]model.Label, len(subsample))
	rated := make([]model.Label, len(subsample))
	for i, s := range subsample {
		curated[i] = s.Label
		rated[i] = oraclePreds[i].PredictedLabel
	}
	agree := agreement.Compute(curated, rated, curated)

	engine := eval.New()
	cmp := engine.Compare(oracle.Name(), mock.Name(), truth, oraclePreds, mockPreds)

	out := report{
		SampleSize:   len(subsample),
		Seed:         *seed,
		Agreement:    agree,
		OracleRun:    oracleMeta,
		OracleReport: engine.Report(oracle.Name(), truth, oraclePreds),
		MockReport:   engine.Report(mock.Name(), truth, mockPreds),
		Significance: map[string]any{
			"t_test":       cmp.TTest,
			"mann_whitney": cmp.MannWhitney,
			"n_samples":    cmp.NSamplesA,
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error(ctx, "report encoding failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "validation analysis complete",
		logger.Float64("kappa", agree.Kappa),
		logger.Float64("agreementRate", agree.AgreementRate),
		logger.Float64("oracleAccuracy", out.OracleReport.Metrics.Accuracy),
	)
}

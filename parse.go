package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BlueprintResult holds the outcome and timing of one blueprint search.
type BlueprintResult struct {
	ID      int         `json:"id"`
	Best    int         `json:"best"`
	Quality int         `json:"quality"`
	Solved  bool        `json:"solved"`
	Stats   SearchStats `json:"stats"`
	TimeMs  int64       `json:"timeMs"`
}

func runBlueprint(bp *Blueprint, cfg Config) BlueprintResult {
	start := time.Now()
	logger.Debug("blueprint start", zap.Int("id", bp.ID), zap.Ints("demandCap", bp.DemandCap[:bp.Kinds]))
	r := Search(*bp, cfg.Horizon, cfg.searchOptions())
	elapsed := time.Since(start)
	logger.Debug("blueprint done",
		zap.Int("id", bp.ID),
		zap.Int("best", r.Best),
		zap.Int64("nodes", r.Stats.Nodes),
		zap.Int64("memoHits", r.Stats.MemoHits),
		zap.Int64("pruned", r.Stats.Pruned),
		zap.Int("memoSize", r.Stats.MemoSize),
		zap.Duration("elapsed", elapsed))
	return BlueprintResult{
		ID:      bp.ID,
		Best:    r.Best,
		Quality: bp.ID * r.Best,
		Solved:  true,
		Stats:   r.Stats,
		TimeMs:  elapsed.Milliseconds(),
	}
}

// FindBlueprint returns the blueprint with the given ID, or nil if not found.
func FindBlueprint(blueprints []Blueprint, id int) *Blueprint {
	for i := range blueprints {
		if blueprints[i].ID == id {
			return &blueprints[i]
		}
	}
	return nil
}

// QualitySum returns Σ ID × best over all results.
func QualitySum(results []BlueprintResult) int {
	sum := 0
	for _, r := range results {
		sum += r.Quality
	}
	return sum
}

// HeadProduct multiplies the best values of the first n results.
func HeadProduct(results []BlueprintResult, n int) int {
	prod := 1
	for i, r := range results {
		if i == n {
			break
		}
		prod *= r.Best
	}
	return prod
}

// Summary is the JSON-serializable outcome of a full run.
type Summary struct {
	Mode    string            `json:"mode"`
	Horizon int               `json:"horizon"`
	Workers int               `json:"workers"`
	Value   int               `json:"value"`
	Results []BlueprintResult `json:"results"`
	TotalMs int64             `json:"totalMs"`
}

// selectBlueprints trims the batch to what the aggregation mode reads.
func selectBlueprints(blueprints []Blueprint, cfg Config) []Blueprint {
	if cfg.Mode == ModeProduct && len(blueprints) > cfg.Head {
		return blueprints[:cfg.Head]
	}
	return blueprints
}

// Run validates cfg, searches the blueprints and aggregates the results.
// On cancellation the partial summary is returned with the error.
func Run(ctx context.Context, blueprints []Blueprint, cfg Config) (Summary, error) {
	sum := Summary{Mode: cfg.Mode, Horizon: cfg.Horizon, Workers: cfg.workers()}
	if err := cfg.Validate(); err != nil {
		return sum, err
	}

	opt := NewOptimizer(selectBlueprints(blueprints, cfg), cfg)
	results, elapsed, err := opt.Optimize(ctx)
	sum.Results = results
	sum.TotalMs = elapsed.Milliseconds()
	switch cfg.Mode {
	case ModeProduct:
		sum.Value = HeadProduct(results, cfg.Head)
	default:
		sum.Value = QualitySum(results)
	}
	return sum, err
}

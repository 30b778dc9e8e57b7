package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxHorizon bounds the tick count so that a packed state key fits in
// uint16 amounts: no stock can exceed 256 producers × 255 ticks.
const MaxHorizon = 255

// ── Search state ────────────────────────────────────────────────────

// searchState is one node of the search tree. declined holds the kinds that
// were affordable on an earlier tick of the current wait streak but not
// built; building them now would only replay "build then" one tick late.
type searchState struct {
	stock     Amounts
	producers Amounts
	ticks     int
	declined  KindSet
}

// stateKey is the packed, comparable memo key of a searchState.
type stateKey struct {
	stock     [MaxKinds]uint16
	producers [MaxKinds]uint16
	ticks     uint8
	declined  KindSet
}

func (s *searchState) key() stateKey {
	k := stateKey{ticks: uint8(s.ticks), declined: s.declined}
	for i := range s.stock {
		if s.stock[i] < 0 || s.stock[i] > 0xffff || s.producers[i] < 0 || s.producers[i] > 0xffff {
			panic(fmt.Sprintf("search: state out of range: stock=%v producers=%v", s.stock, s.producers))
		}
		k.stock[i] = uint16(s.stock[i])
		k.producers[i] = uint16(s.producers[i])
	}
	return k
}

// ── Engine ──────────────────────────────────────────────────────────

// SearchOptions tunes a single blueprint search.
type SearchOptions struct {
	// MemoLimit caps the memo table. States past the cap are still explored,
	// just not remembered. Zero means unlimited.
	MemoLimit int
	// DisableDemandCap lets the search build any number of producers of a
	// kind. The result is unchanged; only the tree grows.
	DisableDemandCap bool
}

// SearchStats counts the work done by one search.
type SearchStats struct {
	Nodes     int64 `json:"nodes"`
	MemoHits  int64 `json:"memoHits"`
	Pruned    int64 `json:"pruned"`
	Shortcuts int64 `json:"shortcuts"`
	MemoSize  int   `json:"memoSize"`
}

// Result is the outcome of searching one blueprint.
type Result struct {
	Best  int
	Stats SearchStats
}

// searchContext is owned by exactly one blueprint search and never shared.
type searchContext struct {
	bp    *Blueprint
	opts  SearchOptions
	memo  map[stateKey]struct{}
	best  int
	stats SearchStats
}

func newSearchContext(bp *Blueprint, opts SearchOptions) *searchContext {
	return &searchContext{
		bp:   bp,
		opts: opts,
		memo: make(map[stateKey]struct{}),
	}
}

func (c *searchContext) useful(producers Amounts, k ResourceKind) bool {
	return c.opts.DisableDemandCap || c.bp.Useful(producers, k)
}

func (c *searchContext) remember(k stateKey) {
	if c.opts.MemoLimit > 0 && len(c.memo) >= c.opts.MemoLimit {
		return
	}
	c.memo[k] = struct{}{}
}

func (c *searchContext) search(s searchState) {
	c.stats.Nodes++
	terminal := c.bp.Terminal()

	if s.ticks == 0 {
		if s.stock[terminal] > c.best {
			c.best = s.stock[terminal]
		}
		return
	}

	key := s.key()
	if _, ok := c.memo[key]; ok {
		c.stats.MemoHits++
		return
	}

	bound := UpperBound(s.stock[terminal], s.producers[terminal], s.ticks)
	if bound <= c.best {
		c.stats.Pruned++
		return
	}
	if c.bp.SelfSufficient(s.stock, s.producers) {
		c.stats.Shortcuts++
		c.best = bound
		return
	}

	produced := s.stock.plus(s.producers)
	declined := s.declined

	// terminal first: good schedules raise best early and sharpen pruning
	for k := terminal; k >= 0; k-- {
		if s.declined.Has(k) || !c.bp.Affordable(s.stock, k) || !c.useful(s.producers, k) {
			continue
		}
		declined = declined.With(k)
		child := searchState{
			stock:     produced.minus(c.bp.Costs[k]),
			producers: s.producers,
			ticks:     s.ticks - 1,
		}
		child.producers[k]++
		c.search(child)
	}

	c.search(searchState{
		stock:     produced,
		producers: s.producers,
		ticks:     s.ticks - 1,
		declined:  declined,
	})

	c.remember(key)
}

// Search returns the largest terminal stock reachable within horizon ticks,
// starting from one base producer and an empty stock.
func Search(bp Blueprint, horizon int, opts SearchOptions) Result {
	if horizon < 0 || horizon > MaxHorizon {
		panic(fmt.Sprintf("search: horizon %d outside 0..%d", horizon, MaxHorizon))
	}
	c := newSearchContext(&bp, opts)
	root := searchState{ticks: horizon}
	root.producers[0] = 1
	c.search(root)
	c.stats.MemoSize = len(c.memo)
	return Result{Best: c.best, Stats: c.stats}
}

// Solve is Search with default options.
func Solve(bp Blueprint, horizon int) int {
	return Search(bp, horizon, SearchOptions{}).Best
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer searches a batch of blueprints on a bounded worker pool. Each
// blueprint gets its own searchContext, so workers share nothing mutable.
type Optimizer struct {
	blueprints []Blueprint
	cfg        Config
}

// NewOptimizer creates an optimizer for the given blueprints.
func NewOptimizer(blueprints []Blueprint, cfg Config) *Optimizer {
	return &Optimizer{blueprints: blueprints, cfg: cfg}
}

// Optimize solves every blueprint and returns results in input order.
// Cancelling ctx stops scheduling further blueprints; finished results are
// still returned (Solved=true) alongside ctx's error.
func (o *Optimizer) Optimize(ctx context.Context) ([]BlueprintResult, time.Duration, error) {
	start := time.Now()
	workers := o.cfg.workers()
	logger.Info("optimize",
		zap.Int("blueprints", len(o.blueprints)),
		zap.Int("horizon", o.cfg.Horizon),
		zap.Int("workers", workers))

	results := make([]BlueprintResult, len(o.blueprints))
	for i := range o.blueprints {
		results[i].ID = o.blueprints[i].ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range o.blueprints {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runBlueprint(&o.blueprints[i], o.cfg)
			return nil
		})
	}
	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		// cancelled before the loop could schedule the rest
		for _, r := range results {
			if !r.Solved {
				err = ctx.Err()
				break
			}
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("optimize interrupted", zap.Error(err), zap.Duration("elapsed", elapsed))
		return results, elapsed, fmt.Errorf("optimize: %w", err)
	}
	logger.Info("optimize done", zap.Duration("elapsed", elapsed))
	return results, elapsed, nil
}

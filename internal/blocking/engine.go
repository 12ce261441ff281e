// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/tomtom215/blockwise/internal/blocking/pairs"
)

// Engine ties a learner to a set of blocker templates. Train selects the
// blockers to deploy; Evaluate applies them to labeled test data.
// It is safe for concurrent use. Evaluations run one at a time since
// deployed blockers cache per-dataset state between BuildIndex and Release.
type Engine struct {
	// Configuration
	config    *Config
	logger    zerolog.Logger
	learner   Learner
	templates []Template

	// Deployed plan
	mu       sync.RWMutex
	deployed []Blocker
	schema   []Attribute
	lastRun  *LearnerRun
	train    TrainStats

	// Serializes Evaluate over the shared deployed blockers
	evalMu sync.Mutex

	// Random source for sampling (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates an engine. A nil cfg selects DefaultConfig. learner may
// be nil for engines that only evaluate deployed plans.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, learner Learner, templates []Template, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "blocking").Logger(),
		learner:   learner,
		templates: templates,
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for sampling
	}
	if learner != nil {
		e.logger.Info().
			Str("learner", learner.Name()).
			Int("templates", len(templates)).
			Msg("engine created")
	}
	return e, nil
}

// Train learns the blockers to deploy from labeled records.
func (e *Engine) Train(ctx context.Context, ds *Dataset) (*LearnerRun, error) {
	if e.learner == nil {
		return nil, errors.New("engine has no learner")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	train := ds
	if e.config.Sampling.Enabled {
		e.rngMu.Lock()
		train = SampleByClass(ds, e.config.Sampling, e.rng)
		e.rngMu.Unlock()
		e.logger.Info().
			Int("records", ds.Len()).
			Int("sampled", train.Len()).
			Msg("sampled training records by class")
	}
	train = e.prepare(train)

	truth, unlabeled := TruePairs(train)
	if unlabeled > 0 {
		e.logger.Warn().
			Int("unlabeled", unlabeled).
			Msg("records without a label are excluded from true pairs")
	}
	stats := TrainStats{
		TotalPairs:         pairs.Total(train.Len()),
		PotentialDupePairs: uint64(len(truth)),
	}
	stats.PotentialNonDupePairs = stats.TotalPairs - stats.PotentialDupePairs

	e.logger.Info().
		Int("records", train.Len()).
		Uint64("true_pairs", stats.PotentialDupePairs).
		Msg("training started")

	run, err := e.learner.Learn(ctx, e.templates, train)
	if err != nil {
		return nil, errors.Wrapf(err, "learner %s", e.learner.Name())
	}

	if e.config.TrainDiagnostics && len(run.Selected) > 0 {
		ev, err := Evaluate(ctx, run.Selected, train, e.logger)
		if err != nil {
			return nil, errors.Wrap(err, "training diagnostics")
		}
		stats.ActualDupePairs = ev.GoodBlocked
		stats.ActualNonDupePairs = ev.TotalBlocked - ev.GoodBlocked
	}
	stats.Duration = time.Since(start)

	e.mu.Lock()
	e.deployed = run.Selected
	e.schema = train.Attributes
	e.lastRun = run
	e.train = stats
	e.mu.Unlock()

	e.logger.Info().
		Strs("blockers", run.Names()).
		Float64("train_recall", run.Recall).
		Str("stop_reason", string(run.StopReason)).
		Dur("duration", stats.Duration).
		Msg("training complete")
	return run, nil
}

// Deploy replaces the deployed blockers, for example with a stored plan.
// schema is the attribute list the blockers refer to; nil skips the check
// in Evaluate.
func (e *Engine) Deploy(blockers []Blocker, schema []Attribute) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deployed = blockers
	e.schema = schema
	e.lastRun = nil
	e.train = TrainStats{}
}

// Deployed returns the deployed blockers.
func (e *Engine) Deployed() []Blocker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Blocker(nil), e.deployed...)
}

// LastRun returns the most recent training run, or nil.
func (e *Engine) LastRun() *LearnerRun {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastRun
}

// TrainStats returns the training diagnostics of the last run.
func (e *Engine) TrainStats() TrainStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.train
}

// Evaluate applies the deployed blockers to labeled test records.
func (e *Engine) Evaluate(ctx context.Context, ds *Dataset) (*Statistics, *Evaluation, error) {
	e.mu.RLock()
	deployed := e.deployed
	schema := e.schema
	train := e.train
	e.mu.RUnlock()

	if len(deployed) == 0 {
		return nil, nil, ErrNotTrained
	}
	if err := ds.Validate(); err != nil {
		return nil, nil, err
	}
	if schema != nil && !ds.SameSchema(&Dataset{Attributes: schema}) {
		return nil, nil, ErrSchemaMismatch
	}

	e.evalMu.Lock()
	defer e.evalMu.Unlock()

	start := time.Now()
	ev, err := Evaluate(ctx, deployed, e.prepare(ds), e.logger)
	if err != nil {
		return nil, nil, err
	}
	stats := NewStatistics(train, ev, len(deployed), time.Since(start))

	e.logger.Info().
		Float64("recall", stats.Recall).
		Float64("precision", stats.Precision).
		Float64("reduction_ratio", stats.ReductionRatio).
		Uint64("pairs_blocked", stats.TotalPairsBlocked).
		Msg("evaluation complete")
	return &stats, ev, nil
}

// prepare returns the dataset blockers run on.
func (e *Engine) prepare(ds *Dataset) *Dataset {
	if e.config.Normalize {
		return NormalizeDataset(ds)
	}
	return ds
}

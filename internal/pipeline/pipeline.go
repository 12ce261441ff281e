// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

// Package pipeline runs learning and evaluation jobs from configuration,
// records their metrics and keeps their results in the run store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/blockers"
	"github.com/tomtom215/blockwise/internal/blocking/learners"
	"github.com/tomtom215/blockwise/internal/config"
	"github.com/tomtom215/blockwise/internal/logging"
	"github.com/tomtom215/blockwise/internal/metrics"
	"github.com/tomtom215/blockwise/internal/store"
)

// ErrNoStore is returned by operations that need the run store when the
// pipeline has none.
var ErrNoStore = errors.New("no run store configured")

// Result is the outcome of a learning or evaluation job.
type Result struct {
	// Run is the stored form of the job. Its ID is empty when the run was
	// not saved.
	Run *store.Run

	Statistics *blocking.Statistics
	Evaluation *blocking.Evaluation
}

// Pipeline runs jobs with one configuration.
type Pipeline struct {
	cfg   *config.Config
	store *store.Store
}

// New returns a pipeline. st may be nil when runs are never saved or
// loaded.
func New(cfg *config.Config, st *store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, store: st}
}

// Learn trains on train, evaluates the result on test and, when save is
// set, stores the run. A nil test evaluates on train.
func (p *Pipeline) Learn(ctx context.Context, train, test *blocking.Dataset, save bool) (*Result, error) {
	if save && p.store == nil {
		return nil, ErrNoStore
	}
	if test == nil {
		test = train
	}

	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
	logger := logging.CtxWith(ctx).Str("component", "pipeline").Logger()

	learner, err := learners.New(&p.cfg.Learner, logger)
	if err != nil {
		return nil, err
	}
	templates, err := blockers.ParseTemplates(p.cfg.Templates)
	if err != nil {
		return nil, fmt.Errorf("invalid templates: %w", err)
	}
	engine, err := blocking.NewEngine(&p.cfg.Blocking, learner, templates, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	lr, err := engine.Train(ctx, train)
	if err != nil {
		metrics.RecordLearnerRun(learner.Name(), "", 0, 0, time.Since(start), err)
		return nil, fmt.Errorf("training failed: %w", err)
	}
	metrics.RecordLearnerRun(learner.Name(), string(lr.StopReason), lr.CandidatePool, len(lr.Selected), time.Since(start), nil)

	stats, ev, err := evaluate(ctx, engine, test)
	if err != nil {
		return nil, err
	}

	run := &store.Run{
		Dataset:   train.Name,
		Learner:   learner.Name(),
		Config:    p.cfg.Learner,
		Templates: p.cfg.Templates,
		Schema:    train.Attributes,
		Blockers:  blocking.Descriptors(lr.Selected),
		Learning:  lr,
		Train:     engine.TrainStats(),
		Evaluations: []store.Evaluation{{
			At:            time.Now().UTC(),
			Dataset:       test.Name,
			Statistics:    *stats,
			Contributions: ev.Contributions,
		}},
	}
	if save {
		if err := p.store.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info().Str("id", run.ID).Msg("run saved")
	}
	return &Result{Run: run, Statistics: stats, Evaluation: ev}, nil
}

// Evaluate applies the blockers of a stored run to test and appends the
// evaluation to the run.
func (p *Pipeline) Evaluate(ctx context.Context, runID string, test *blocking.Dataset) (*Result, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}
	run, err := p.store.Get(ctx, runID)
	if err != nil {
		return nil, err
	}

	ctx = logging.ContextWithRunID(ctx, run.ID)
	logger := logging.CtxWith(ctx).Str("component", "pipeline").Logger()

	deployed, err := run.Deploy(test)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild blockers of run %s: %w", run.ID, err)
	}
	engine, err := blocking.NewEngine(&p.cfg.Blocking, nil, nil, logger)
	if err != nil {
		return nil, err
	}
	engine.Deploy(deployed, run.Schema)

	stats, ev, err := evaluate(ctx, engine, test)
	if err != nil {
		return nil, err
	}
	// The engine only knows the deployed blockers; restore the training
	// side from the stored run.
	withTrain := blocking.NewStatistics(run.Train, ev, len(deployed), time.Duration(stats.TestTimeSec*float64(time.Second)))
	stats = &withTrain

	evaluation := store.Evaluation{
		At:            time.Now().UTC(),
		Dataset:       test.Name,
		Statistics:    *stats,
		Contributions: ev.Contributions,
	}
	if err := p.store.AddEvaluation(ctx, run.ID, evaluation); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}
	run.Evaluations = append(run.Evaluations, evaluation)
	return &Result{Run: run, Statistics: stats, Evaluation: ev}, nil
}

func evaluate(ctx context.Context, engine *blocking.Engine, test *blocking.Dataset) (*blocking.Statistics, *blocking.Evaluation, error) {
	stats, ev, err := engine.Evaluate(ctx, test)
	if err != nil {
		metrics.RecordEvaluationError()
		return nil, nil, fmt.Errorf("evaluation failed: %w", err)
	}
	metrics.RecordEvaluation(test.Name, stats.Recall, stats.Precision, stats.ReductionRatio, stats.TotalPairsBlocked)
	return stats, ev, nil
}

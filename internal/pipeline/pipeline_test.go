// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/config"
	"github.com/tomtom215/blockwise/internal/dataset"
	"github.com/tomtom215/blockwise/internal/logging"
	"github.com/tomtom215/blockwise/internal/store"
)

func people(t *testing.T) *blocking.Dataset {
	t.Helper()
	header := []string{"name", "city", "entity"}
	rows := [][]string{
		{"Alpha", "oslo", "A"},
		{"alpha", "oslo", "A"},
		{"ALPHA!", "rome", "A"},
		{"Beta", "rome", "B"},
		{"beta ", "rome", "B"},
		{"Beta.", "lima", "B"},
	}
	ds, err := dataset.FromRows("people", header, rows, dataset.Options{LabelColumn: "entity"})
	require.NoError(t, err)
	return ds
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Learner.SetCover.Epsilon = 0
	return cfg
}

func quietContext() context.Context {
	return logging.ContextWithLogger(context.Background(), zerolog.Nop())
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPipeline_LearnAndEvaluate(t *testing.T) {
	t.Parallel()

	st := openStore(t)
	p := New(testConfig(), st)
	ctx := quietContext()

	res, err := p.Learn(ctx, people(t), nil, true)
	require.NoError(t, err)
	require.NotEmpty(t, res.Run.ID)
	assert.Equal(t, []string{"exact_string(name)"}, res.Run.BlockerNames())
	assert.Equal(t, blocking.StopMinRecall, res.Run.Learning.StopReason)
	assert.InDelta(t, 1, res.Statistics.Recall, 1e-9)
	assert.InDelta(t, 1, res.Statistics.Precision, 1e-9)
	assert.Equal(t, uint64(15), res.Statistics.TotalPairsTrain)

	stored, err := st.Get(ctx, res.Run.ID)
	require.NoError(t, err)
	require.Len(t, stored.Evaluations, 1)
	assert.Equal(t, "people", stored.Dataset)

	again, err := p.Evaluate(ctx, res.Run.ID, people(t))
	require.NoError(t, err)
	assert.InDelta(t, 1, again.Statistics.Recall, 1e-9)
	assert.Equal(t, uint64(15), again.Statistics.TotalPairsTrain, "training side comes from the stored run")
	assert.Len(t, again.Run.Evaluations, 2)

	stored, err = st.Get(ctx, res.Run.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Evaluations, 2)
}

func TestPipeline_LearnWithoutSaving(t *testing.T) {
	t.Parallel()

	p := New(testConfig(), nil)
	res, err := p.Learn(quietContext(), people(t), people(t), false)
	require.NoError(t, err)
	assert.Empty(t, res.Run.ID)
	assert.Len(t, res.Evaluation.Contributions, 1)

	_, err = p.Learn(quietContext(), people(t), nil, true)
	require.ErrorIs(t, err, ErrNoStore)
	_, err = p.Evaluate(quietContext(), "any", people(t))
	require.ErrorIs(t, err, ErrNoStore)
}

func TestPipeline_ManualLearner(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Learner.Learner = "manual"
	cfg.Learner.Manual.Blockers = []string{"exact_string(city)"}

	res, err := New(cfg, nil).Learn(quietContext(), people(t), nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"exact_string(city)"}, res.Run.BlockerNames())
	assert.Equal(t, blocking.StopFixed, res.Run.Learning.StopReason)
	// oslo pair, rome triple and nothing for lima: 4 blocked, 2 good.
	assert.Equal(t, uint64(4), res.Statistics.TotalPairsBlocked)
	assert.Equal(t, uint64(2), res.Statistics.GoodPairsBlocked)
}

func TestPipeline_Errors(t *testing.T) {
	t.Parallel()

	st := openStore(t)
	ctx := quietContext()

	_, err := New(testConfig(), st).Evaluate(ctx, "missing", people(t))
	require.ErrorIs(t, err, store.ErrRunNotFound)

	cfg := testConfig()
	cfg.Templates = []string{"exact_numeric"}
	_, err = New(cfg, st).Learn(ctx, people(t), nil, false)
	require.ErrorIs(t, err, blocking.ErrNoCandidates)

	res, err := New(testConfig(), st).Learn(ctx, people(t), nil, true)
	require.NoError(t, err)
	renamed := people(t)
	renamed.Attributes[1].Name = "town"
	_, err = New(testConfig(), st).Evaluate(ctx, res.Run.ID, renamed)
	require.ErrorIs(t, err, blocking.ErrSchemaMismatch)
}

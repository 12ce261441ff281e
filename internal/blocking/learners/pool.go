// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package learners

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/index"
	"github.com/tomtom215/blockwise/internal/metrics"
)

// candidate is a blocker together with its index over the training data.
type candidate struct {
	blocker blocking.Blocker
	idx     *index.Index
}

func (c *candidate) release() {
	if c == nil {
		return
	}
	if c.idx != nil {
		c.idx.Release()
	}
	blocking.Release(c.blocker)
}

func releaseAll(cs []*candidate) {
	for _, c := range cs {
		c.release()
	}
}

// candidateBlockers instantiates every template on every compatible
// attribute, attribute by attribute.
func candidateBlockers(templates []blocking.Template, ds *blocking.Dataset) []blocking.Blocker {
	var out []blocking.Blocker
	for attr := range ds.Attributes {
		for _, t := range templates {
			if b, ok := t.ForAttribute(ds, attr); ok {
				out = append(out, b)
			}
		}
	}
	return out
}

// buildIndices builds the index of every blocker with at most workers
// running at once. Results keep the order of bs.
func buildIndices(ctx context.Context, bs []blocking.Blocker, ds *blocking.Dataset, workers int) ([]*candidate, error) {
	out := make([]*candidate, len(bs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, b := range bs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out[i] = &candidate{blocker: b, idx: b.BuildIndex(ds)}
			metrics.RecordIndexBuild(b.Kind(), time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		releaseAll(out)
		return nil, err
	}
	return out, nil
}

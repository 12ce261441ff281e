// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package store

import (
	"time"

	"github.com/tomtom215/blockwise/internal/blocking"
	"github.com/tomtom215/blockwise/internal/blocking/blockers"
	"github.com/tomtom215/blockwise/internal/blocking/learners"
)

// Run is a stored learning run.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Dataset is the name of the training dataset.
	Dataset string `json:"dataset"`

	Learner   string          `json:"learner"`
	Config    learners.Config `json:"config"`
	Templates []string        `json:"templates"`

	// Schema is the attribute list the blockers were learned on.
	Schema []blocking.Attribute `json:"schema"`

	// Blockers are the deployed blockers in selection order.
	Blockers []blocking.Descriptor `json:"blockers"`

	// Learning holds the learner diagnostics. Its Selected list is not
	// stored; Blockers replaces it.
	Learning *blocking.LearnerRun `json:"learning,omitempty"`
	Train    blocking.TrainStats  `json:"train"`

	Evaluations []Evaluation `json:"evaluations,omitempty"`
}

// Evaluation is one evaluation of a stored run.
type Evaluation struct {
	At            time.Time               `json:"at"`
	Dataset       string                  `json:"dataset"`
	Statistics    blocking.Statistics     `json:"statistics"`
	Contributions []blocking.Contribution `json:"contributions,omitempty"`
}

// Latest returns the most recent evaluation, or nil.
func (r *Run) Latest() *Evaluation {
	if len(r.Evaluations) == 0 {
		return nil
	}
	return &r.Evaluations[len(r.Evaluations)-1]
}

// BlockerNames returns the descriptors in readable form.
func (r *Run) BlockerNames() []string {
	out := make([]string, len(r.Blockers))
	for i, d := range r.Blockers {
		out[i] = d.String()
	}
	return out
}

// Deploy rebuilds the stored blockers against ds.
func (r *Run) Deploy(ds *blocking.Dataset) ([]blocking.Blocker, error) {
	return blockers.NewAll(r.Blockers, ds)
}

// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package blocking

import (
	"time"
)

// Statistics is the evaluation record of one train/test run.
//
// Field order is significant: Values and Header list the fields in
// declaration order for positional CSV output.
type Statistics struct {
	NumInstances   int     `json:"num_instances"`
	Recall         float64 `json:"recall"`
	Precision      float64 `json:"precision"`
	ReductionRatio float64 `json:"reduction_ratio"`
	F1             float64 `json:"f1"`

	TotalPairsTrain            uint64  `json:"total_pairs_train"`
	PotentialDupePairsTrain    uint64  `json:"potential_dupe_pairs_train"`
	ActualDupePairsTrain       uint64  `json:"actual_dupe_pairs_train"`
	PotentialNonDupePairsTrain uint64  `json:"potential_non_dupe_pairs_train"`
	ActualNonDupePairsTrain    uint64  `json:"actual_non_dupe_pairs_train"`
	ActualDupeToNonDupeTrain   float64 `json:"actual_dupe_to_non_dupe_train"`
	PotentialDupeRatioTrain    float64 `json:"potential_dupe_ratio_train"`

	TotalPairsTest            uint64  `json:"total_pairs_test"`
	TruePairs                 uint64  `json:"true_pairs"`
	DupeRatioTest             float64 `json:"dupe_ratio_test"`
	ProportionBadPairsBlocked float64 `json:"proportion_bad_pairs_blocked"`
	GoodPairsBlocked          uint64  `json:"good_pairs_blocked"`
	TotalPairsBlocked         uint64  `json:"total_pairs_blocked"`
	NumBlockers               int     `json:"num_blockers"`

	TrainTimeSec float64 `json:"train_time_sec"`
	TestTimeSec  float64 `json:"test_time_sec"`
}

// TrainStats holds the training-side diagnostics of a run.
type TrainStats struct {
	TotalPairs            uint64        `json:"total_pairs"`
	PotentialDupePairs    uint64        `json:"potential_dupe_pairs"`
	ActualDupePairs       uint64        `json:"actual_dupe_pairs"`
	PotentialNonDupePairs uint64        `json:"potential_non_dupe_pairs"`
	ActualNonDupePairs    uint64        `json:"actual_non_dupe_pairs"`
	Duration              time.Duration `json:"duration"`
}

// PrecisionRecallF1 returns the blocking quality of good true pairs among
// blocked candidate pairs, with truePairs duplicates in total.
func PrecisionRecallF1(good, blocked, truePairs uint64) (precision, recall, f1 float64) {
	precision = ratio(float64(good), float64(blocked))
	recall = ratio(float64(good), float64(truePairs))
	f1 = ratio(2*precision*recall, precision+recall)
	return precision, recall, f1
}

// ReductionRatio returns the share of all pairs not emitted as candidates.
func ReductionRatio(blocked, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return 1 - float64(blocked)/float64(total)
}

// NewStatistics combines training diagnostics and an evaluation.
//
//nolint:gocritic // hugeParam: train passed by value, it is a small snapshot
func NewStatistics(train TrainStats, ev *Evaluation, numBlockers int, testTime time.Duration) Statistics {
	s := Statistics{
		NumInstances: ev.NumInstances,

		TotalPairsTrain:            train.TotalPairs,
		PotentialDupePairsTrain:    train.PotentialDupePairs,
		ActualDupePairsTrain:       train.ActualDupePairs,
		PotentialNonDupePairsTrain: train.PotentialNonDupePairs,
		ActualNonDupePairsTrain:    train.ActualNonDupePairs,
		ActualDupeToNonDupeTrain:   ratio(float64(train.ActualDupePairs), float64(train.ActualNonDupePairs)),
		PotentialDupeRatioTrain:    ratio(float64(train.PotentialDupePairs), float64(train.TotalPairs)),

		TotalPairsTest:    ev.TotalPairs,
		TruePairs:         ev.TruePairs,
		DupeRatioTest:     ratio(float64(ev.TruePairs), float64(ev.TotalPairs)),
		GoodPairsBlocked:  ev.GoodBlocked,
		TotalPairsBlocked: ev.TotalBlocked,
		NumBlockers:       numBlockers,

		TrainTimeSec: train.Duration.Seconds(),
		TestTimeSec:  testTime.Seconds(),
	}
	s.Precision, s.Recall, s.F1 = PrecisionRecallF1(ev.GoodBlocked, ev.TotalBlocked, ev.TruePairs)
	s.ReductionRatio = ReductionRatio(ev.TotalBlocked, ev.TotalPairs)
	if ev.TotalPairs > ev.TruePairs {
		s.ProportionBadPairsBlocked = float64(ev.TotalBlocked-ev.GoodBlocked) / float64(ev.TotalPairs-ev.TruePairs)
	}
	return s
}

var statisticsHeader = []string{
	"num_instances", "recall", "precision", "reduction_ratio", "f1",
	"total_pairs_train", "potential_dupe_pairs_train", "actual_dupe_pairs_train",
	"potential_non_dupe_pairs_train", "actual_non_dupe_pairs_train",
	"actual_dupe_to_non_dupe_train", "potential_dupe_ratio_train",
	"total_pairs_test", "true_pairs", "dupe_ratio_test", "proportion_bad_pairs_blocked",
	"good_pairs_blocked", "total_pairs_blocked", "num_blockers",
	"train_time_sec", "test_time_sec",
}

// Header returns the field names in positional order.
func (s *Statistics) Header() []string {
	return append([]string(nil), statisticsHeader...)
}

// Values returns the fields in positional order.
func (s *Statistics) Values() []float64 {
	return []float64{
		float64(s.NumInstances), s.Recall, s.Precision, s.ReductionRatio, s.F1,
		float64(s.TotalPairsTrain), float64(s.PotentialDupePairsTrain), float64(s.ActualDupePairsTrain),
		float64(s.PotentialNonDupePairsTrain), float64(s.ActualNonDupePairsTrain),
		s.ActualDupeToNonDupeTrain, s.PotentialDupeRatioTrain,
		float64(s.TotalPairsTest), float64(s.TruePairs), s.DupeRatioTest, s.ProportionBadPairsBlocked,
		float64(s.GoodPairsBlocked), float64(s.TotalPairsBlocked), float64(s.NumBlockers),
		s.TrainTimeSec, s.TestTimeSec,
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

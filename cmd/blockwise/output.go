// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"

	"github.com/tomtom215/blockwise/internal/pipeline"
	"github.com/tomtom215/blockwise/internal/store"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult prints the selected blockers followed by the statistics.
func printResult(w io.Writer, res *pipeline.Result) {
	if res.Run.ID != "" {
		fmt.Fprintf(w, "run %s\n", res.Run.ID)
	}
	if res.Run.Learning != nil {
		fmt.Fprintf(w, "learner %s stopped: %s\n", res.Run.Learner, res.Run.Learning.StopReason)
	}

	blockers := tablewriter.NewWriter(w)
	blockers.SetHeader([]string{"#", "Blocker", "Added", "New", "New good"})
	for i, name := range res.Run.BlockerNames() {
		row := []string{strconv.Itoa(i + 1), name, "", "", ""}
		if res.Evaluation != nil && i < len(res.Evaluation.Contributions) {
			c := res.Evaluation.Contributions[i]
			row[2] = strconv.Itoa(c.Added)
			row[3] = strconv.FormatUint(c.New, 10)
			row[4] = strconv.FormatUint(c.NewGood, 10)
		}
		blockers.Append(row)
	}
	blockers.Render()

	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{"Statistic", "Value"})
	values := res.Statistics.Values()
	for i, name := range res.Statistics.Header() {
		stats.Append([]string{name, strconv.FormatFloat(values[i], 'g', 6, 64)})
	}
	stats.Render()
}

func printRuns(w io.Writer, runs []*store.Run) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"ID", "Created", "Dataset", "Learner", "Blockers", "Recall", "RR"})
	for _, r := range runs {
		recall, rr := "", ""
		if ev := r.Latest(); ev != nil {
			recall = strconv.FormatFloat(ev.Statistics.Recall, 'f', 4, 64)
			rr = strconv.FormatFloat(ev.Statistics.ReductionRatio, 'f', 4, 64)
		}
		tbl.Append([]string{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Dataset,
			r.Learner,
			strings.Join(r.BlockerNames(), ", "),
			recall,
			rr,
		})
	}
	tbl.Render()
}

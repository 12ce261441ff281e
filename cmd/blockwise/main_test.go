// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/blockwise/internal/store"
)

const peopleCSV = `name,city,entity
Alpha,oslo,A
alpha,oslo,A
ALPHA!,rome,A
Beta,rome,B
beta,rome,B
Beta.,lima,B
`

// workspace writes the people file and a config pointing the run store
// into a temporary directory.
func workspace(t *testing.T) (cfgPath, dataPath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(peopleCSV), 0o600))

	cfg := fmt.Sprintf(`logging:
  level: disabled
learner:
  setcover:
    epsilon: 0
dataset:
  label_column: entity
store:
  path: %s
`, filepath.Join(dir, "runs"))
	cfgPath = filepath.Join(dir, "blockwise.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath, dataPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLearn_Table(t *testing.T) {
	cfgPath, data := workspace(t)

	out, err := execute(t, "learn", "--config", cfgPath, "--train", data)
	require.NoError(t, err)
	assert.Contains(t, out, "exact_string(name)")
	assert.Contains(t, out, "min_recall_reached")
	assert.Contains(t, out, "reduction_ratio")
	assert.NotContains(t, out, "run ", "unsaved runs have no ID")
}

func TestLearn_SaveEvaluateAndManageRuns(t *testing.T) {
	cfgPath, data := workspace(t)

	out, err := execute(t, "learn", "--config", cfgPath, "--train", data, "--save", "--json")
	require.NoError(t, err)
	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.NotEmpty(t, run.ID)
	assert.Equal(t, "people", run.Dataset)
	assert.Equal(t, []string{"exact_string(name)"}, run.BlockerNames())

	out, err = execute(t, "runs", "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, run.ID)

	out, err = execute(t, "evaluate", "--config", cfgPath, "--run", run.ID, "--test", data)
	require.NoError(t, err)
	assert.Contains(t, out, "run "+run.ID)
	assert.Contains(t, out, "good_pairs_blocked")

	out, err = execute(t, "runs", "show", run.ID, "--config", cfgPath)
	require.NoError(t, err)
	var shown store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Len(t, shown.Evaluations, 2)

	_, err = execute(t, "runs", "delete", run.ID, "--config", cfgPath)
	require.NoError(t, err)
	_, err = execute(t, "runs", "show", run.ID, "--config", cfgPath)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestLearn_FlagOverrides(t *testing.T) {
	cfgPath, data := workspace(t)

	out, err := execute(t, "learn", "--config", cfgPath, "--train", data,
		"--learner", "manual", "--template", "exact_string", "--json")
	require.Error(t, err, "manual learner without blockers is rejected")
	assert.NotContains(t, out, "\"id\"")

	out, err = execute(t, "learn", "--config", cfgPath, "--train", data,
		"--template", "exact_string", "--json")
	require.NoError(t, err)
	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, []string{"exact_string"}, run.Templates)
}

func TestLearn_Errors(t *testing.T) {
	cfgPath, data := workspace(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing train flag", []string{"learn", "--config", cfgPath}},
		{"unknown learner", []string{"learn", "--config", cfgPath, "--train", data, "--learner", "magic"}},
		{"bad template", []string{"learn", "--config", cfgPath, "--train", data, "--template", "nope"}},
		{"missing file", []string{"learn", "--config", cfgPath, "--train", filepath.Join(t.TempDir(), "none.csv")}},
		{"unknown config", []string{"learn", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--train", data}},
		{"evaluate unknown run", []string{"evaluate", "--config", cfgPath, "--run", "nope", "--test", data}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

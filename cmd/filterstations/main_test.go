package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationsJSON = `[
  {"id": "72530", "country": "US", "name": {"en": "Chicago O'Hare"}, "identifiers": {"wmo": "72530"}},
  {"id": "71508", "country": "CA", "name": {"en": "Toronto"}, "identifiers": {"wmo": "71508"}}
]`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stations.json")
	out := filepath.Join(dir, "stations_us.json")
	require.NoError(t, os.WriteFile(in, []byte(stationsJSON), 0o600))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	require.NoError(t, run(in, out, "US", logger))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var kept []map[string]any
	require.NoError(t, json.Unmarshal(data, &kept))
	require.Len(t, kept, 1)
	assert.Equal(t, "72530", kept[0]["id"])
	assert.Contains(t, logs.String(), "kept=1")
	assert.Contains(t, logs.String(), "total=2")
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := run(filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.json"), "US", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.Error(t, err)
}

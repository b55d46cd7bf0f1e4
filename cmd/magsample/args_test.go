package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haricheung/magsample/internal/catalog"
	"github.com/haricheung/magsample/internal/config"
	"github.com/haricheung/magsample/internal/sampler"
	"github.com/haricheung/magsample/internal/types"
)

// ── parseSampleArgs ──────────────────────────────────────────────────────────

func TestParseSampleArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want sampler.Request
	}{
		{"both defaults", []string{"100", "-1", "-1"}, sampler.Request{Samples: 100, MinMag: 10, MaxMag: 500}},
		{"explicit min", []string{"5", "20", "-1"}, sampler.Request{Samples: 5, MinMag: 20, MaxMag: 500}},
		{"explicit max", []string{"5", "-1", "30"}, sampler.Request{Samples: 5, MinMag: 10, MaxMag: 30}},
		{"both explicit", []string{"0", "0", "8"}, sampler.Request{Samples: 0, MinMag: 0, MaxMag: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSampleArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSampleArgs_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"x", "-1", "-1"},
		{"10", "a", "-1"},
		{"-5", "-1", "-1"},
		{"10", "-2", "-1"},
		{"10", "40", "20"},
		{"10", "-1"},
	} {
		_, err := parseSampleArgs(args)
		assert.ErrorIs(t, err, types.ErrInvalidRange, "%v", args)
	}
}

// ── command tree ─────────────────────────────────────────────────────────────

// workspace writes an L=4 config and a 40-row index catalog into a temp dir
// and points the environment at it.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	sim := types.Simulation{L: 4, NReplicas: 8, NSweeps: 500, Beta: 0.5}
	require.NoError(t, config.WriteSimulation(filepath.Join(dir, "cfg.bin"), sim))

	f, err := catalog.Create(filepath.Join(dir, "index.bin"))
	require.NoError(t, err)
	for i := range sim.CatalogLen() {
		require.NoError(t, f.Write(types.Record{
			Slice:         int32(i / 8 * 100),
			Grid:          int32(i % 8),
			Magnetization: int32(-16 + 2*(i%17)),
			CommittorMean: 0.5,
			CommittorStd:  0.1,
		}))
	}
	require.NoError(t, f.Close())

	t.Setenv("MAGSAMPLE_CONFIG", filepath.Join(dir, "cfg.bin"))
	t.Setenv("MAGSAMPLE_INDEX", filepath.Join(dir, "index.bin"))
	t.Setenv("MAGSAMPLE_OUTPUT", filepath.Join(dir, "out.bin"))
	t.Setenv("MAGSAMPLE_LOG_DIR", "")
	t.Setenv("MAGSAMPLE_METRICS_FILE", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestSampleCommand_WritesCatalog(t *testing.T) {
	dir := workspace(t)
	metricsPath := filepath.Join(dir, "run.prom")

	out, err := execute(t, "sample", "1000", "0", "32", "--seed", "42",
		"--log-dir", filepath.Join(dir, "logs"), "--metrics-file", metricsPath)
	require.NoError(t, err)
	// Oversized request over [0, 32) takes all 38 in-range rows
	assert.Contains(t, out, "Total available samples: 38")
	assert.Contains(t, out, "Time taken:")

	got := readSample(t, dir)
	assert.Equal(t, 38, got.Len())
	for i := range got.Len() {
		assert.Equal(t, types.CommittorSentinel, got.CommittorMean[i])
	}

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "*.jsonl"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Contains(t, out, logs[0]+" (")
	assert.Contains(t, out, "38 votes")
	assert.FileExists(t, metricsPath)
}

// readSample loads the sample catalog written into dir.
func readSample(t *testing.T, dir string) *types.Catalog {
	t.Helper()
	c, err := catalog.ReadFile(filepath.Join(dir, "out.bin"))
	require.NoError(t, err)
	return c
}

func TestSampleCommand_DefaultBounds(t *testing.T) {
	// -1 is a positional bound, not a shorthand flag, and each -1 resolves to
	// its own default; the window is clamped to the 33-value L=4 table
	tests := []struct {
		name   string
		args   []string
		lo, hi int // shifted window
		rows   int
	}{
		{"both defaults", []string{"sample", "1000", "-1", "-1", "--seed", "1"}, 10, 33, 25},
		{"explicit min", []string{"sample", "1000", "0", "-1", "--seed", "1"}, 0, 33, 40},
		{"explicit max", []string{"sample", "1000", "-1", "30", "--seed", "1"}, 10, 30, 21},
		{"flags first", []string{"sample", "--seed", "3", "1000", "-1", "-1"}, 10, 33, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := workspace(t)
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.NotContains(t, out, "\033[")

			got := readSample(t, dir)
			assert.Equal(t, tt.rows, got.Len())
			for i := range got.Len() {
				shifted := int(got.Magnetization[i]) + 16
				assert.GreaterOrEqual(t, shifted, tt.lo)
				assert.Less(t, shifted, tt.hi)
			}
		})
	}
}

func TestSampleCommand_TrailingConfigFlag(t *testing.T) {
	// Persistent flags after the positionals still apply
	dir := workspace(t)
	require.NoError(t, os.Rename(filepath.Join(dir, "cfg.bin"), filepath.Join(dir, "moved.bin")))
	_, err := execute(t, "sample", "1000", "-1", "-1", "--config", filepath.Join(dir, "moved.bin"))
	require.NoError(t, err)
	assert.Equal(t, 25, readSample(t, dir).Len())
}

func TestSampleCommand_UnexpectedArgument(t *testing.T) {
	workspace(t)
	_, err := execute(t, "sample", "10", "-1", "-1", "--seed", "1", "extra")
	assert.ErrorIs(t, err, types.ErrInvalidRange)
}

func TestSampleCommand_MissingConfig(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "sample", "10", "-1", "-1", "--config", filepath.Join(dir, "none.bin"))
	assert.ErrorIs(t, err, types.ErrConfigUnavailable)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cfg.bin")
	yml := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("L: 8\nnsweeps: 1000\n"), 0o644))

	_, err := execute(t, "config", "init", "--config", cfg, "--from", yml)
	require.NoError(t, err)

	out, err := execute(t, "config", "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "L: 8")
	assert.Contains(t, out, "nsweeps: 1000")
	assert.Contains(t, out, "nreplicas: 100")
}

func TestHistogramCommand(t *testing.T) {
	workspace(t)
	out, err := execute(t, "histogram", "--bins", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "40 snapshots")
}

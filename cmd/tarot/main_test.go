package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("tarot"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) { t.Fatalf("unexpected exit running %v: %s", args, out.String()) }),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = ctx.Run(&cli)
	return out.String(), err
}

func TestShuffleIsDeterministic(t *testing.T) {
	first, err := run(t, "shuffle", "--seed", "1563159521", "--algo", "riffle")
	require.NoError(t, err)
	second, err := run(t, "shuffle", "--seed", "1563159521", "--algo", "riffle")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	lines := strings.Split(strings.TrimSpace(first), "\n")
	assert.Len(t, lines, 78)

	other, err := run(t, "shuffle", "--seed", "8675309", "--algo", "riffle")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestShuffleWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.json")
	_, err := run(t, "shuffle", "--seed", "42", "--algo", "spin", "--out", out)
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var result ShuffleResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.Equal(t, "spin", result.Algorithm)
	assert.Equal(t, int64(42), result.Seed)
	require.Len(t, result.Cards, 78)
	assert.Equal(t, "The Fool", result.Cards[0].Name, "spinning keeps the order")
	assert.Equal(t, "maj00.jpg", result.Cards[0].Image)
	assert.Equal(t, 78, result.Cards[77].Position)
}

func TestShuffleRejectsUnknownAlgorithm(t *testing.T) {
	_, err := run(t, "shuffle", "--seed", "1", "--algo", "mash")
	require.Error(t, err)
}

func TestAnalyzeReportsEveryAlgorithm(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	text, err := run(t, "analyze", "--algo", "riffle,spin", "--samples", "20", "--workers", "2", "--out", out)
	require.NoError(t, err)

	assert.Contains(t, text, "riffle")
	assert.Contains(t, text, "spin")
	assert.NotContains(t, text, "overhand")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var reports []map[string]any
	require.NoError(t, json.Unmarshal(raw, &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "riffle", reports[0]["algorithm"])
	assert.EqualValues(t, 20, reports[0]["samples"])
}

func TestAnalyzeRejectsUnknownAlgorithm(t *testing.T) {
	_, err := run(t, "analyze", "--algo", "mash", "--samples", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mash")
}

func TestSeedPrintsSeeds(t *testing.T) {
	text, err := run(t, "seed", "--moves", "10", "--clicks", "2", "--hover", "300", "--count", "3", "--samples", "50")
	require.NoError(t, err)

	assert.Contains(t, text, "moves=10 clicks=2 hover=300ms")
	assert.Contains(t, text, "seed 3:")
	assert.NotContains(t, text, "seed 4:")
	assert.Contains(t, text, "repeat rate over 50 requests: 0.0000")
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tarot.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  port      = 9090
  log_level = "warn"
}
`), 0o644))

	cli := CLI{Config: path}
	cfg, err := cli.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Server.LogLevel)

	cli.LogLevel = "debug"
	cfg, err = cli.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	cli.LogLevel = "loud"
	_, err = cli.loadConfig()
	assert.Error(t, err)

	missing := CLI{Config: filepath.Join(dir, "missing.hcl")}
	cfg, err = missing.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vqc"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	require.NoError(t, Execute(), out.String())
	return out.String()
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VQC_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("VQC_LOG_LEVEL", "error")

	samples := make([]uint16, 0, 1001)
	for i := 0; i < 1001; i++ {
		samples = append(samples, uint16((i%4)*1000))
	}

	input := filepath.Join(dir, "plane.u16")
	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, vqc.WriteSamples(f, samples))
	require.NoError(t, f.Close())

	out := run(t, "train", "--input", input, "--dims", "4", "--size", "4", "--seed", "1")
	assert.Contains(t, out, "plane(4d,4)")
	assert.Contains(t, out, "cached:     false")

	out = run(t, "train", "--input", input, "--dims", "4", "--size", "4")
	assert.Contains(t, out, "cached:     true")

	stream := filepath.Join(dir, "plane.vqs")
	out = run(t, "encode", "--input", input, "--dims", "4", "--size", "4", "--output", stream)
	assert.Contains(t, out, "encoded 1001 samples")

	output := filepath.Join(dir, "out.u16")
	run(t, "decode", "--input", stream, "--name", "plane", "--dims", "4", "--size", "4",
		"--samples", "1001", "--output", output)

	f, err = os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	got, err := vqc.ReadSamples(f)
	require.NoError(t, err)
	assert.Equal(t, samples, got)

	out = run(t, "inspect", "--name", "plane", "--dims", "4", "--size", "4", "--json")
	var cb codebookJSON
	require.NoError(t, json.Unmarshal([]byte(out), &cb))
	assert.Equal(t, 4, cb.CodebookSize)
	assert.Len(t, cb.Codewords, 4)

	codebookName = ""
	out = run(t, "inspect")
	assert.Contains(t, out, "plane(4d,4)")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VQC_S3_BUCKET=from-file\nVQC_WORKERS=3\n"), 0o600))

	t.Setenv("VQC_WORKERS", "5")
	t.Cleanup(func() { _ = os.Unsetenv("VQC_S3_BUCKET") })

	cfg, err := loadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.S3Bucket)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, ".vqc", cfg.CacheDir)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.True(t, cfg.remote())
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, cfg.remote())
}

func TestConfigLogLevel(t *testing.T) {
	_, err := Config{LogLevel: "debug"}.slogLevel()
	require.NoError(t, err)

	_, err = Config{LogLevel: "loud"}.slogLevel()
	assert.Error(t, err)
}

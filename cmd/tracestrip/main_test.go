package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/tracestrip/cmd/tracestrip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against the database at dbPath.
func run(t *testing.T, dbPath, stdin string, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath
	m.Stdin = strings.NewReader(stdin)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_CleanFromStdin(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	stdout, _, err := run(t, dbPath, "<p data-start=\"1\" data-llm-id=\"x42\">Hello\u200bWorld</p>", "clean")

	require.NoError(t, err)
	assert.Equal(t, "<p>HelloWorld</p>", stdout)
}

func TestMain_Run_ImportScanAndLog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<p data-start="1">Hello</p>`), 0o600))

	// Import with auto-clean disabled so the scan has work to do.
	_, _, err := run(t, dbPath, "", "config", "set", "auto-clean", "false")
	require.NoError(t, err)

	stdout, _, err := run(t, dbPath, "", "import", page)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Imported "page"`)
	assert.Contains(t, stdout, "not cleaned")

	stdout, _, err = run(t, dbPath, "", "docs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dirty  page")

	stdout, _, err = run(t, dbPath, "", "scan")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleaned 1 of 1 documents (1 removed, 0 skipped, 0 failed)")

	stdout, _, err = run(t, dbPath, "", "docs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "clean  page")

	stdout, _, err = run(t, dbPath, "", "log")
	require.NoError(t, err)
	assert.Contains(t, stdout, "scan")
	assert.Contains(t, stdout, "data-start=1")

	stdout, _, err = run(t, dbPath, "", "scan")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleaned 0 of 1 documents (0 removed, 1 skipped, 0 failed)")
}

func TestMain_Run_ImportAutoCleans(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	page := filepath.Join(dir, "chat.html")
	require.NoError(t, os.WriteFile(page, []byte(`<div id="model-response-message-contentr_1">Answer</div>`), 0o600))

	stdout, _, err := run(t, dbPath, "", "import", page)
	require.NoError(t, err)
	assert.Contains(t, stdout, ", cleaned)")

	stdout, _, err = run(t, dbPath, "", "log", "--source", "auto")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id(model-response-message-contentr_*)=1")
}

func TestMain_Run_ConfigFileOverridesForOneRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("extra_attributes: [data-testid]\n"), 0o600))

	stdout, _, err := run(t, dbPath, `<p data-testid="x">y</p>`, "--config", configPath, "clean")
	require.NoError(t, err)
	assert.Equal(t, "<p>y</p>", stdout)

	stdout, _, err = run(t, dbPath, `<p data-testid="x">y</p>`, "clean")
	require.NoError(t, err)
	assert.Equal(t, `<p data-testid="x">y</p>`, stdout)
}

func TestMain_Run_MissingConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := run(t, filepath.Join(dir, "test.db"), "", "--config", filepath.Join(dir, "missing.yaml"), "docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

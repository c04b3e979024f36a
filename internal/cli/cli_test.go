package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imgajeed76/ivy/internal/config"
	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args in an isolated config and state
// directory and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("IVY_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv("IVY_NO_COLOR", "1")
	return runIn(t, args...)
}

// runIn is run without resetting the environment, for multi-step tests.
func runIn(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	closeLog()
	return buf.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewCreatesTimesheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.csv")

	stdout, err := run(t, "new", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	doc, err := store.NewFileBackend(path).Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"Day", "Began", "Ended", "Shift", "Total", "Description"}, doc.Headers())
	require.Len(t, doc.Rows, 1)
	assert.NotEmpty(t, doc.Rows[0][0])

	_, err = runIn(t, "new", path)
	assert.ErrorIs(t, err, util.ErrAlreadyExists)
}

func TestExportRecalculatesTimesheet(t *testing.T) {
	path := writeFile(t, "hours.csv",
		"Day,Began,Ended,Shift,Total,Description\n"+
			"19,09:00 AM,12:00 PM,,,morning\n"+
			"19,01:00 PM,03:30 PM,,,afternoon\n")

	outPath := filepath.Join(t.TempDir(), "hours.json")
	stdout, err := run(t, "export", path, "--format", "json", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2 rows")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[0]["Shift"])
	assert.Equal(t, "5.5", rows[0]["Total"])
	assert.Equal(t, "2.5", rows[1]["Shift"])
	assert.Equal(t, "", rows[1]["Total"])
}

func TestExportUnknownFormat(t *testing.T) {
	path := writeFile(t, "a.csv", "x\n1\n")
	_, err := run(t, "export", path, "--format", "ods", "-o", filepath.Join(t.TempDir(), "a.ods"))

	var ivyErr *util.IvyError
	require.True(t, errors.As(err, &ivyErr))
	assert.ErrorIs(t, err, util.ErrUnknownFormat)
}

func TestDiffFiles(t *testing.T) {
	a := writeFile(t, "a.csv", "Name,Qty\napple,1\npear,2\n")
	b := writeFile(t, "b.csv", "Name,Qty\napple,1\npear,3\n")

	stdout, err := run(t, "diff", a, b, "-U", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "-pear | 2")
	assert.Contains(t, stdout, "+pear | 3")
	assert.NotContains(t, stdout, "apple")
}

func TestConfigGetSet(t *testing.T) {
	_, err := run(t, "config", "editor.page_size", "12")
	require.NoError(t, err)

	stdout, err := runIn(t, "config", "editor.page_size")
	require.NoError(t, err)
	assert.Equal(t, "12\n", stdout)

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Editor.PageSize)

	_, err = runIn(t, "config", "editor.pagesiz")
	var ivyErr *util.IvyError
	require.True(t, errors.As(err, &ivyErr))
	assert.Contains(t, ivyErr.Message, "editor.page_size")
}

func TestRemoteAddRemove(t *testing.T) {
	_, err := run(t, "remote", "add", "office", "postgres://u@db/ivy")
	require.NoError(t, err)

	stdout, err := runIn(t, "remote")
	require.NoError(t, err)
	assert.Equal(t, "office\n", stdout)

	_, err = runIn(t, "remote", "add", "office", "postgres://other")
	assert.ErrorIs(t, err, util.ErrRemoteExists)

	_, err = runIn(t, "remote", "rm", "office")
	require.NoError(t, err)
	_, err = runIn(t, "remote", "rm", "office")
	assert.ErrorIs(t, err, util.ErrRemoteNotFound)
}

func TestDoctorWithoutRemotes(t *testing.T) {
	stdout, err := run(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Checking key bindings... OK")
	assert.Contains(t, stdout, "Checking remotes... NONE")
	assert.Contains(t, stdout, "All checks passed!")
}

func TestShowPlain(t *testing.T) {
	path := writeFile(t, "a.csv", "Name,Qty\napple,1\n")

	// stdout is not a terminal under go test, so show prints a table
	r, w, err := os.Pipe()
	require.NoError(t, err)
	prev := os.Stdout
	os.Stdout = w
	_, runErr := run(t, "show", path)
	os.Stdout = prev
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	require.NoError(t, runErr)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Name   Qty", lines[0])
	assert.Equal(t, "apple  1", lines[2])
	assert.Contains(t, buf.String(), "(1 rows)")
}

func TestPrepareDocument(t *testing.T) {
	cfg = config.DefaultConfig()
	t.Cleanup(func() { cfg = nil })

	plain := store.NewDocument("p", []string{"a", "b", "c", "d"}, [][]string{{"1", "2", "3", "4"}})
	require.NoError(t, prepareDocument(plain))
	assert.True(t, plain.Columns[0].ReadOnly)
	assert.False(t, plain.Columns[1].ReadOnly)
	assert.True(t, plain.Columns[3].ReadOnly)

	ts := store.NewDocument("t", []string{"day", "began", "ended", "shift", "total", "description"}, nil)
	require.NoError(t, prepareDocument(ts))
	assert.True(t, ts.Columns[3].Computed)
	assert.False(t, ts.Columns[3].ReadOnly)

	cfg.Sheet.Timesheet = false
	ts = store.NewDocument("t", []string{"Day", "Began", "Ended", "Shift", "Total", "Description"}, nil)
	require.NoError(t, prepareDocument(ts))
	assert.False(t, ts.Columns[3].Computed, "timesheet rules are off")
	assert.True(t, ts.Columns[3].ReadOnly, "configured columns apply instead")
}

func TestNewEngineView(t *testing.T) {
	cfg = config.DefaultConfig()
	t.Cleanup(func() { cfg = nil })

	doc := store.NewDocument("p", []string{"a", "b"}, [][]string{{"1", "2"}})
	e, err := newEngine(doc, true)
	require.NoError(t, err)
	assert.False(t, e.SetCellValue(0, 1, "x"))
	assert.False(t, e.Dirty())

	doc = store.NewDocument("p", []string{"a", "b"}, [][]string{{"1", "2"}})
	e, err = newEngine(doc, false)
	require.NoError(t, err)
	assert.True(t, e.SetCellValue(0, 1, "x"))
	assert.False(t, e.SetCellValue(0, 0, "x"), "column 0 is read-only by default")
}

func TestMain(m *testing.M) {
	styles.SetNoColor(true)
	os.Exit(m.Run())
}

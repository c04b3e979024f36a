package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/ivy/internal/input"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
[editor]
page_size = 10
autosave_seconds = 0

[sheet]
timesheet = false

[log]
level = "debug"

[remote.office]
url = "postgres://u@db/ivy"

[keys.navigate]
undo = ["ctrl+u"]
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Editor.PageSize)
	assert.Equal(t, 1000, cfg.Editor.UndoLevels, "unset values keep defaults")
	assert.Equal(t, time.Duration(0), cfg.Autosave(), "zero autosave is kept")
	assert.Equal(t, 400*time.Millisecond, cfg.DoubleClick())
	assert.False(t, cfg.Sheet.Timesheet)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, []string{"ctrl+u"}, cfg.Keys.Navigate["undo"])

	url, err := cfg.ResolveURL("office")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u@db/ivy", url)
}

func TestLoadFile_Invalid(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "[editor\npage_size = "))
	assert.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Theme.ActiveColor = "#000000"
	cfg.SetRemote("home", "postgres://localhost/ivy")
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#000000", loaded.Theme.ActiveColor)
	assert.Equal(t, []string{"home"}, loaded.RemoteNames())
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultConfig()

	v, ok := cfg.GetValue("editor.page_size")
	require.True(t, ok)
	assert.Equal(t, "30", v)

	require.NoError(t, cfg.SetValue("editor.pagesize", "12"))
	assert.Equal(t, 12, cfg.Editor.PageSize)

	require.NoError(t, cfg.SetValue("sheet.timesheet", "false"))
	v, _ = cfg.GetValue("sheet.timesheet")
	assert.Equal(t, "false", v)

	require.NoError(t, cfg.SetValue("log.level", "warn"))
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())

	assert.Error(t, cfg.SetValue("editor.page_size", "zero"))
	assert.Error(t, cfg.SetValue("editor.page_size", "0"))
	assert.Error(t, cfg.SetValue("editor.undo_levels", "1000000"))
	assert.Error(t, cfg.SetValue("sheet.timesheet", "maybe"))
}

func TestSetValue_UnknownKeySuggests(t *testing.T) {
	err := DefaultConfig().SetValue("editor.pagesiz", "3")

	var ivyErr *util.IvyError
	require.True(t, errors.As(err, &ivyErr))
	assert.Contains(t, ivyErr.Message, "editor.page_size")
}

func TestListKeys(t *testing.T) {
	keys := ListKeys()
	assert.Contains(t, keys, "editor.page_size")
	assert.Contains(t, keys, "theme.readonly_color")
	assert.NotContains(t, keys, "keys.navigate")
	assert.True(t, IsKnownKey("Editor.Page_Size"))
	assert.Contains(t, GenerateHelpText(), "editor.autosave_seconds")
}

func TestReadOnlyColumns(t *testing.T) {
	cfg := DefaultConfig()
	cols, err := cfg.ReadOnlyColumns()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4}, cols)

	cfg.Sheet.ReadOnlyColumns = " 2 , ,5"
	cols, err = cfg.ReadOnlyColumns()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, cols)

	cfg.Sheet.ReadOnlyColumns = "1,x"
	_, err = cfg.ReadOnlyColumns()
	assert.ErrorIs(t, err, util.ErrInvalidColumnID)
}

func TestLogLevelFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestResolveURL(t *testing.T) {
	cfg := DefaultConfig()
	url, err := cfg.ResolveURL("postgres://x/y")
	require.NoError(t, err)
	assert.Equal(t, "postgres://x/y", url)

	_, err = cfg.ResolveURL("nowhere")
	assert.Error(t, err)

	cfg.SetRemote("a", "postgres://a")
	assert.True(t, cfg.RemoveRemote("a"))
	assert.False(t, cfg.RemoveRemote("a"))
}

func TestKeymaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keys.Navigate = map[string][]string{"undo": {"ctrl+u"}}
	cfg.Keys.Edit = map[string][]string{"editCancel": {"ctrl+g"}}

	km, err := cfg.Keymaps()
	require.NoError(t, err)

	op, ok := km.Navigate.Lookup(tea.KeyMsg{Type: tea.KeyCtrlU})
	require.True(t, ok)
	assert.Equal(t, input.OpUndo, op)
	_, ok = km.Navigate.Lookup(tea.KeyMsg{Type: tea.KeyCtrlZ})
	assert.False(t, ok, "the default key is replaced")

	op, ok = km.Edit.Lookup(tea.KeyMsg{Type: tea.KeyCtrlG})
	require.True(t, ok)
	assert.Equal(t, input.OpEditCancel, op)
}

func TestKeymaps_UnknownOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keys.Navigate = map[string][]string{"undoo": {"ctrl+u"}}

	_, err := cfg.Keymaps()
	assert.ErrorIs(t, err, util.ErrUnknownOp)
}

func TestSyncLedger_MissingFileIsEmpty(t *testing.T) {
	l, err := LoadSyncLedgerFile(filepath.Join(t.TempDir(), "sync.toml"))
	require.NoError(t, err)
	_, ok := l.Get("postgres://db/ivy", "march")
	assert.False(t, ok)
}

func TestSyncLedger_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sync.toml")
	at := time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)

	l, err := LoadSyncLedgerFile(path)
	require.NoError(t, err)
	l.Record("postgres://u:secret@db/ivy", "march", "h1", SyncPush, at)
	require.NoError(t, l.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	l, err = LoadSyncLedgerFile(path)
	require.NoError(t, err)
	e, ok := l.Get("postgres://u:secret@db/ivy", "march")
	require.True(t, ok)
	assert.Equal(t, "h1", e.Hash)
	assert.Equal(t, SyncPush, e.Direction)
	assert.True(t, at.Equal(e.SyncedAt))

	assert.True(t, l.Synced("postgres://u:secret@db/ivy", "march", "h1"))
	assert.False(t, l.Synced("postgres://u:secret@db/ivy", "april", "h1"))
	assert.False(t, l.Synced("postgres://other/ivy", "march", "h1"))
}

// Each machine judges the remote against its own last sync, so a push from
// one client makes another client's stale copy diverge.
func TestSyncLedger_ClientsAreIndependent(t *testing.T) {
	const url = "postgres://db/ivy"
	now := time.Now()

	a, err := LoadSyncLedgerFile(filepath.Join(t.TempDir(), "a.toml"))
	require.NoError(t, err)
	b, err := LoadSyncLedgerFile(filepath.Join(t.TempDir(), "b.toml"))
	require.NoError(t, err)

	a.Record(url, "march", "h0", SyncPull, now)
	b.Record(url, "march", "h0", SyncPull, now)

	// a pushes h1; the remote now holds h1
	require.True(t, a.Synced(url, "march", "h0"))
	a.Record(url, "march", "h1", SyncPush, now)

	assert.True(t, a.Synced(url, "march", "h1"))
	assert.False(t, b.Synced(url, "march", "h1"), "b must not overwrite a's push")
}

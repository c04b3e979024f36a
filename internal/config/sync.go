package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/imgajeed76/ivy/internal/util"
)

// Sync directions
const (
	SyncPush = "push"
	SyncPull = "pull"
)

// SyncEntry records the last transfer of a sheet between this machine and a
// remote. Hash is the content both sides held right after that transfer.
type SyncEntry struct {
	Sheet     string    `toml:"sheet"`
	Hash      string    `toml:"hash"`
	Direction string    `toml:"direction"`
	SyncedAt  time.Time `toml:"synced_at"`
}

// SyncLedger is the local record of what each (remote, sheet) pair looked
// like when this machine last pushed or pulled it. It lives next to the log
// file, never on the remote, so every client judges divergence against its
// own last sync.
type SyncLedger struct {
	Entries map[string]SyncEntry `toml:"sync"`

	path string
}

// SyncLedgerPath returns where the ledger is kept.
func SyncLedgerPath() string {
	return filepath.Join(util.StateDir(), util.SyncFile)
}

// LoadSyncLedger reads the ledger from its default location.
func LoadSyncLedger() (*SyncLedger, error) {
	return LoadSyncLedgerFile(SyncLedgerPath())
}

// LoadSyncLedgerFile reads the ledger at path. A missing file is an empty ledger.
func LoadSyncLedgerFile(path string) (*SyncLedger, error) {
	l := &SyncLedger{Entries: make(map[string]SyncEntry), path: path}
	if _, err := os.Stat(path); err != nil {
		return l, nil
	}
	if _, err := toml.DecodeFile(path, l); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if l.Entries == nil {
		l.Entries = make(map[string]SyncEntry)
	}
	return l, nil
}

// syncKey identifies a sheet on a remote. The URL is hashed so credentials
// never land in the state file.
func syncKey(remoteURL, sheet string) string {
	return util.HashBytes([]byte(remoteURL))[:16] + "/" + sheet
}

// Get returns the last sync of sheet on the remote at remoteURL.
func (l *SyncLedger) Get(remoteURL, sheet string) (SyncEntry, bool) {
	e, ok := l.Entries[syncKey(remoteURL, sheet)]
	return e, ok
}

// Synced reports whether hash is what this machine last transferred for sheet.
func (l *SyncLedger) Synced(remoteURL, sheet, hash string) bool {
	e, ok := l.Get(remoteURL, sheet)
	return ok && e.Hash == hash
}

// Record notes a completed transfer. Call Save to persist it.
func (l *SyncLedger) Record(remoteURL, sheet, hash, direction string, at time.Time) {
	l.Entries[syncKey(remoteURL, sheet)] = SyncEntry{
		Sheet:     sheet,
		Hash:      hash,
		Direction: direction,
		SyncedAt:  at.UTC(),
	}
}

// Save writes the ledger back to the file it was loaded from.
func (l *SyncLedger) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(l)
}

// Package state persists build state in SQLite: the compiled output of
// every source file, keyed by its content and the settings it was compiled
// with, and the history of transform runs.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry is the cached compilation of one source file.
type Entry struct {
	Path string
	// Key identifies the source content and compiler settings the code was
	// produced from. A lookup only hits when keys match.
	Key  string
	Code string

	States    int
	Mutations int
	Wrapped   int
	Effects   int
	Memos     int

	UpdatedAt time.Time
}

// RunStatus is the outcome of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one invocation of a command that compiled files.
type Run struct {
	ID          string
	Command     string
	Status      RunStatus
	Files       int
	Cached      int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// Store is the build state API used by the compiler and the CLI.
type Store interface {
	GetEntry(path string) (*Entry, error)
	PutEntry(e *Entry) error
	DeleteEntry(path string) error
	ClearEntries() (int64, error)
	CountEntries() (int64, error)

	CreateRun(command string) (*Run, error)
	CompleteRun(id string, status RunStatus, files, cached int, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	Close() error
}

// Key derives an entry key from source content and a fingerprint of the
// settings that shape the output.
func Key(content []byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Package calendar persists scheduled posts as a JSONL file under the
// state directory. Every mutation holds an exclusive file lock so the CLI,
// the MCP server, and the scheduler daemon can share the store safely.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"socialmcp/internal/social"
)

// RootDir is the state directory for socialmcp storage.
const RootDir = ".socialmcp"

// CalendarFile is the path of the scheduled post store within the state root.
const CalendarFile = ".socialmcp/calendar.jsonl"

// ErrNotFound is returned when an entry ID does not exist in the store.
var ErrNotFound = errors.New("calendar entry not found")

// Status values for a calendar entry.
const (
	StatusPending   = "pending"
	StatusPosted    = "posted"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Entry represents one scheduled post for one platform.
type Entry struct {
	ID            string          `json:"id"`             // Short unique identifier (8 chars, base62)
	Post          social.Post     `json:"post"`           // The post to publish
	Platform      social.Platform `json:"platform"`       // Target platform
	ScheduledTime time.Time       `json:"scheduled_time"` // When to publish
	Status        string          `json:"status"`         // pending, posted, failed, cancelled
	LastError     string          `json:"last_error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// EnsureStateDir creates the .socialmcp/ directory if it doesn't exist.
func EnsureStateDir(stateRoot string) error {
	return os.MkdirAll(filepath.Join(stateRoot, RootDir), 0750)
}

// calendarPath returns the full path of the calendar file.
func calendarPath(stateRoot string) string {
	return filepath.Join(stateRoot, CalendarFile)
}

// Append adds an entry to the calendar file with file locking.
func Append(stateRoot string, entry Entry) error {
	if err := EnsureStateDir(stateRoot); err != nil {
		return err
	}

	filePath := calendarPath(stateRoot) // #nosec G304 - CalendarFile is a constant, not user input

	// Open file for appending (create if not exists)
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // #nosec G304 G302 - constant path, restricted permissions
	if err != nil {
		return err
	}

	// Acquire exclusive lock on the file
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		_ = file.Close()
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return err
	}

	// Write JSON line (append newline)
	_, err = file.Write(append(data, '\n'))

	// Unlock before close (correct order)
	_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN) // G104: unlock errors don't affect the write result
	_ = file.Close()                                   // G104: close errors don't affect the write result
	return err
}

// parseEntries decodes JSONL data into entries, skipping blank lines.
func parseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadAll reads all entries from the calendar file.
// A missing file reads as an empty calendar.
func ReadAll(stateRoot string) ([]Entry, error) {
	filePath := calendarPath(stateRoot)

	file, err := os.Open(filePath) // #nosec G304 - constant path
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	// Acquire shared lock
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_SH); err != nil {
		return nil, err
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)

	data, err := os.ReadFile(filePath) // #nosec G304 - constant path
	if err != nil {
		return nil, err
	}

	return parseEntries(data)
}

// writeAllLocked writes all entries to an already-locked file.
// The caller is responsible for locking and unlocking.
func writeAllLocked(file *os.File, entries []Entry) error {
	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return err
		}
	}

	return nil
}

// updateEntries performs an atomic read-modify-write on the calendar file.
// The modify function receives the current entries and returns the new set.
func updateEntries(stateRoot string, modify func([]Entry) ([]Entry, error)) error {
	if err := EnsureStateDir(stateRoot); err != nil {
		return err
	}

	filePath := calendarPath(stateRoot)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR, 0600) // #nosec G304 G302 - constant path, restricted permissions
	if err != nil {
		return err
	}

	// Acquire exclusive lock for atomic read-modify-write
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		_ = file.Close()
		return err
	}

	data, err := os.ReadFile(filePath) // #nosec G304 - constant path
	if err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return err
	}

	entries, err := parseEntries(data)
	if err == nil {
		entries, err = modify(entries)
	}
	if err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return err
	}

	// Write back while still holding lock
	writeErr := writeAllLocked(file, entries)

	// Unlock before close (correct order)
	_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN) // G104: unlock errors don't affect the write result
	_ = file.Close()                                   // G104: close errors don't affect the write result
	return writeErr
}

// UpdateStatus sets the status (and optional error text) of an entry.
func UpdateStatus(stateRoot, entryID, status, errMsg string) error {
	return updateEntries(stateRoot, func(entries []Entry) ([]Entry, error) {
		for i := range entries {
			if entries[i].ID == entryID {
				entries[i].Status = status
				entries[i].LastError = errMsg
				entries[i].UpdatedAt = time.Now().UTC()
				return entries, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	})
}

// Reschedule moves an entry to a new time and resets it to pending.
func Reschedule(stateRoot, entryID string, newTime time.Time) error {
	return updateEntries(stateRoot, func(entries []Entry) ([]Entry, error) {
		for i := range entries {
			if entries[i].ID == entryID {
				entries[i].ScheduledTime = newTime.UTC()
				entries[i].Status = StatusPending
				entries[i].LastError = ""
				entries[i].UpdatedAt = time.Now().UTC()
				return entries, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	})
}

// Remove deletes an entry from the calendar.
func Remove(stateRoot, entryID string) error {
	return updateEntries(stateRoot, func(entries []Entry) ([]Entry, error) {
		for i := range entries {
			if entries[i].ID == entryID {
				return append(entries[:i], entries[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	})
}

// FindDue returns all pending entries whose scheduled time is at or before
// now, ordered oldest first.
func FindDue(stateRoot string, now time.Time) ([]Entry, error) {
	entries, err := ReadAll(stateRoot)
	if err != nil {
		return nil, err
	}

	var due []Entry
	for _, entry := range entries {
		if entry.Status != StatusPending {
			continue
		}
		if entry.ScheduledTime.After(now) {
			continue
		}
		due = append(due, entry)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ScheduledTime.Before(due[j].ScheduledTime)
	})
	return due, nil
}

// FilterRange returns the entries scheduled within [start, end] inclusive.
func FilterRange(entries []Entry, start, end time.Time) []Entry {
	var out []Entry
	for _, entry := range entries {
		if entry.ScheduledTime.Before(start) || entry.ScheduledTime.After(end) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

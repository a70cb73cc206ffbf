// Package daemon runs the background scheduler process that publishes
// calendar entries when they come due. It handles PID file management and
// daemon startup/shutdown.
package daemon

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"socialmcp/internal/calendar"
)

// PIDFile is the scheduler PID filename within .socialmcp/
const PIDFile = "scheduler.pid"

// childEnv marks a process spawned as the background scheduler child.
const childEnv = "SOCIALMCP_DAEMON_CHILD"

// PIDFilePath returns the full path to the PID file for a given state root.
func PIDFilePath(stateRoot string) string {
	return filepath.Join(stateRoot, calendar.RootDir, PIDFile)
}

// ReadPID reads the PID from the scheduler.pid file.
// Returns 0 if the file doesn't exist (not an error).
// Returns an error if the file exists but contains invalid content.
func ReadPID(stateRoot string) (int, error) {
	content, err := os.ReadFile(PIDFilePath(stateRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file content: %w", err)
	}
	return pid, nil
}

// WritePID writes the given PID to the scheduler.pid file.
// Creates the file if it doesn't exist, overwrites if it does.
func WritePID(stateRoot string, pid int) error {
	if err := calendar.EnsureStateDir(stateRoot); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	content := fmt.Sprintf("%d\n", pid)
	if err := os.WriteFile(PIDFilePath(stateRoot), []byte(content), 0644); err != nil { // #nosec G306 - PID file is not sensitive
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// DeletePID removes the scheduler.pid file.
// No error is returned if the file doesn't exist.
func DeletePID(stateRoot string) error {
	if err := os.Remove(PIDFilePath(stateRoot)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete PID file: %w", err)
	}
	return nil
}

// IsRunning checks if a process with the given PID is running.
// Returns false for PID 0 or if the process doesn't exist.
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 doesn't send anything, just checks if the process exists
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// StartDaemon starts the scheduler daemon.
// If daemonize is false, runs in foreground mode and writes the PID file.
// If daemonize is true, forks to background and the parent exits immediately;
// a non-zero interval is forwarded to the child so the background loop runs
// at the requested tick.
// Returns exit code: 0 on success, 2 if the scheduler is already running.
func StartDaemon(stateRoot string, daemonize bool, interval time.Duration, stdout, stderr io.Writer) int {
	existingPID, err := ReadPID(stateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read PID file: %v\n", err)
		return 1
	}

	if existingPID > 0 && IsRunning(existingPID) {
		fmt.Fprintf(stderr, "error: scheduler already running (PID: %d)\n", existingPID)
		return 2
	}

	// Either no PID file or a stale PID, safe to start

	if daemonize {
		return startBackground(stateRoot, interval, stdout, stderr)
	}
	return runForeground(stateRoot, stdout, stderr)
}

// runForeground writes the PID file for the current process.
func runForeground(stateRoot string, stdout, stderr io.Writer) int {
	currentPID := os.Getpid()

	if err := WritePID(stateRoot, currentPID); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Scheduler started (PID: %d)\n", currentPID)
	return 0
}

// backgroundArgs builds the argv for the re-exec'd scheduler child.
// The interval flag sits before the action so the flag parser sees it.
func backgroundArgs(executable string, interval time.Duration) []string {
	args := []string{executable, "scheduler"}
	if interval > 0 {
		args = append(args, "--interval", interval.String())
	}
	return append(args, "start")
}

// startBackground forks the scheduler to background.
// Parent process outputs a message and exits, the child continues.
func startBackground(stateRoot string, interval time.Duration, stdout, stderr io.Writer) int {
	executable, err := os.Executable()
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to get executable path: %v\n", err)
		return 1
	}

	// The child detects childEnv and runs in foreground mode
	attr := &os.ProcAttr{
		Dir: stateRoot,
		Env: append(os.Environ(), childEnv+"=1"),
		Files: []*os.File{
			nil, // stdin - no input
			nil, // stdout - detached
			nil, // stderr - detached
		},
	}

	process, err := os.StartProcess(executable, backgroundArgs(executable, interval), attr)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to start scheduler process: %v\n", err)
		return 1
	}

	// Release the process so it's not a zombie
	if err := process.Release(); err != nil {
		fmt.Fprintf(stderr, "error: failed to release scheduler process: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Scheduler started in background (PID: %d)\n", process.Pid)
	return 0
}

// IsDaemonChild returns true if this process was spawned as a daemon child.
func IsDaemonChild() bool {
	return os.Getenv(childEnv) == "1"
}

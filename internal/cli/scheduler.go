package cli

import (
	"context"
	"fmt"
	"io"
	"syscall"
	"time"

	"socialmcp/internal/daemon"
	"socialmcp/internal/platform"
)

// SchedulerOptions configures the Scheduler command behavior.
// Used for testing to mock file system operations.
type SchedulerOptions struct {
	Daemonize bool          // Run in background (--daemon flag)
	Interval  time.Duration // Dispatch loop interval (--interval)

	Registry   *platform.Registry // Mock registry (for testing)
	StateRoot  string             // State root override (for testing)
	NoLoop     bool               // Skip the dispatch loop after startup (for testing)
	ForceChild bool               // Treat this process as a daemon child (for testing)
}

// Scheduler implements the socialmcp scheduler command.
// The first argument selects the action: start (default), stop, or status.
//
// Exit codes:
// - 0: Success
// - 1: Error
// - 2: Scheduler already running (start) or not running (stop)
func Scheduler(args []string, stdout, stderr io.Writer, opts SchedulerOptions) int {
	action := "start"
	if len(args) > 0 {
		action = args[0]
	}

	stateRoot, err := resolveStateRoot(opts.StateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	switch action {
	case "start":
		return startScheduler(stateRoot, stdout, stderr, opts)
	case "stop":
		return stopScheduler(stateRoot, stdout, stderr)
	case "status":
		return schedulerStatus(stateRoot, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "error: unknown action: %s (valid: start, stop, status)\n", action)
		return 1
	}
}

// startScheduler starts the scheduler daemon and, in foreground mode, runs
// the dispatch loop with file watching until interrupted.
func startScheduler(stateRoot string, stdout, stderr io.Writer, opts SchedulerOptions) int {
	daemonize := opts.Daemonize

	// A daemon child runs in foreground mode regardless of --daemon
	if daemon.IsDaemonChild() || opts.ForceChild {
		daemonize = false
	}

	code := daemon.StartDaemon(stateRoot, daemonize, opts.Interval, stdout, stderr)
	if code != 0 || daemonize {
		return code
	}

	defer func() {
		_ = daemon.DeletePID(stateRoot) // G104: best-effort cleanup on exit
	}()

	if opts.NoLoop {
		return 0
	}

	registry := resolveRegistry(opts.Registry, stateRoot)
	loopOpts := daemon.LoopOptions{
		StateRoot: stateRoot,
		Registry:  registry,
		Interval:  opts.Interval,
		StopChan:  make(chan struct{}),
	}

	ctx := context.Background()

	watcher, err := daemon.NewFileWatcher(stateRoot)
	if err != nil {
		// No watcher available, poll only
		fmt.Fprintf(stderr, "warning: file watching unavailable, polling only: %v\n", err)
		daemon.RunLoop(ctx, loopOpts)
		return 0
	}
	defer watcher.Close()
	watcher.SetLogger(stderr)

	if err := watcher.AddWatches(); err != nil {
		fmt.Fprintf(stderr, "warning: file watching unavailable, polling only: %v\n", err)
		daemon.RunLoop(ctx, loopOpts)
		return 0
	}

	go func() {
		_ = watcher.Run(func() { // G104: watcher errors fall back to the poll loop
			_ = daemon.DispatchDue(ctx, loopOpts)
		})
	}()

	daemon.RunLoop(ctx, loopOpts)
	return 0
}

// stopScheduler signals a running scheduler and removes its PID file.
func stopScheduler(stateRoot string, stdout, stderr io.Writer) int {
	pid, err := daemon.ReadPID(stateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read PID file: %v\n", err)
		return 1
	}

	if pid == 0 || !daemon.IsRunning(pid) {
		fmt.Fprintln(stderr, "error: scheduler is not running")
		// Clean up a stale PID file if one was left behind
		_ = daemon.DeletePID(stateRoot) // G104: best-effort cleanup
		return 2
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		fmt.Fprintf(stderr, "error: failed to stop scheduler (PID: %d): %v\n", pid, err)
		return 1
	}

	if err := daemon.DeletePID(stateRoot); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Scheduler stopped (PID: %d)\n", pid)
	return 0
}

// schedulerStatus reports whether the scheduler is running.
func schedulerStatus(stateRoot string, stdout, stderr io.Writer) int {
	pid, err := daemon.ReadPID(stateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read PID file: %v\n", err)
		return 1
	}

	if pid > 0 && daemon.IsRunning(pid) {
		fmt.Fprintf(stdout, "Scheduler running (PID: %d)\n", pid)
		return 0
	}

	fmt.Fprintln(stdout, "Scheduler not running")
	return 0
}

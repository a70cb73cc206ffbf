package cli

import (
	"fmt"
	"io"
	"time"

	"socialmcp/internal/calendar"
)

// CalendarOptions configures the Calendar command behavior.
type CalendarOptions struct {
	From      string   // Start date filter, YYYY-MM-DD (--from)
	To        string   // End date filter, YYYY-MM-DD (--to)
	IDs       []string // Entry IDs for mutating actions (--id)
	NewTime   string   // RFC 3339 time for reschedule (--new-time)
	StateRoot string   // State root override (for testing)
}

// Calendar implements the socialmcp calendar command.
// The first argument selects the action: view (default), reschedule,
// cancel, or delete.
//
// Exit codes:
// - 0: Success
// - 1: Error
func Calendar(args []string, stdout, stderr io.Writer, opts CalendarOptions) int {
	action := "view"
	if len(args) > 0 {
		action = args[0]
	}

	stateRoot, err := resolveStateRoot(opts.StateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	switch action {
	case "view":
		return viewEntries(stateRoot, stdout, stderr, opts)
	case "reschedule":
		if opts.NewTime == "" {
			fmt.Fprintln(stderr, "error: --new-time is required for reschedule")
			return 1
		}
		newTime, err := time.Parse(time.RFC3339, opts.NewTime)
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid new time: %v\n", err)
			return 1
		}
		return mutateEntries(action, "rescheduled", stdout, stderr, opts, func(id string) error {
			return calendar.Reschedule(stateRoot, id, newTime)
		})
	case "cancel":
		return mutateEntries(action, "cancelled", stdout, stderr, opts, func(id string) error {
			return calendar.UpdateStatus(stateRoot, id, calendar.StatusCancelled, "")
		})
	case "delete":
		return mutateEntries(action, "deleted", stdout, stderr, opts, func(id string) error {
			return calendar.Remove(stateRoot, id)
		})
	default:
		fmt.Fprintf(stderr, "error: unknown action: %s (valid: view, reschedule, cancel, delete)\n", action)
		return 1
	}
}

// viewEntries prints the calendar, optionally filtered to a date range.
func viewEntries(stateRoot string, stdout, stderr io.Writer, opts CalendarOptions) int {
	entries, err := calendar.ReadAll(stateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read calendar: %v\n", err)
		return 1
	}

	if opts.From != "" && opts.To != "" {
		start, err := time.Parse("2006-01-02", opts.From)
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid --from date: %v\n", err)
			return 1
		}
		end, err := time.Parse("2006-01-02", opts.To)
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid --to date: %v\n", err)
			return 1
		}
		entries = calendar.FilterRange(entries, start, end.Add(24*time.Hour-time.Second))
	}

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No scheduled posts")
		return 0
	}

	for _, entry := range entries {
		preview := entry.Post.Text
		if runes := []rune(preview); len(runes) > 60 {
			preview = string(runes[:60]) + "..."
		}
		line := fmt.Sprintf("#%s  %s  %-9s  %-9s  %s",
			entry.ID,
			entry.ScheduledTime.Format("2006-01-02 15:04"),
			entry.Platform,
			entry.Status,
			preview)
		if entry.LastError != "" {
			line += fmt.Sprintf("  (%s)", entry.LastError)
		}
		fmt.Fprintln(stdout, line)
	}
	return 0
}

// mutateEntries applies an action to every requested entry ID.
func mutateEntries(action, done string, stdout, stderr io.Writer, opts CalendarOptions, apply func(id string) error) int {
	if len(opts.IDs) == 0 {
		fmt.Fprintf(stderr, "error: --id is required for %s\n", action)
		return 1
	}

	for _, id := range opts.IDs {
		if err := apply(id); err != nil {
			fmt.Fprintf(stderr, "error: entry %s: %v\n", id, err)
			return 1
		}
		fmt.Fprintf(stdout, "#%s %s\n", id, done)
	}
	return 0
}

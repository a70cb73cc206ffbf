package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"socialmcp/internal/calendar"
	"socialmcp/internal/media"
	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// PostOptions configures the Post command behavior.
type PostOptions struct {
	Platforms      []string // Target platform names (--platforms)
	MediaPaths     []string // Media files to attach (--media)
	Hashtags       []string // Hashtags without # (--hashtags)
	Mentions       []string // Handles to mention (--mentions)
	Schedule       string   // RFC 3339 publish time (--schedule)
	OptimizeTiming bool     // Pick the next best hour (--optimize-timing)

	Registry    *platform.Registry // Mock registry (for testing)
	StateRoot   string             // State root override (for testing)
	Now         func() time.Time   // Clock override (for testing)
	StdinIsPipe bool               // Mock stdin pipe detection (for testing)
}

// Post implements the socialmcp post command.
// Content comes from stdin when piped, otherwise from the first argument.
// With --schedule or --optimize-timing the post goes to the calendar;
// otherwise it publishes immediately to every requested platform.
//
// Exit codes:
// - 0: Success
// - 1: Validation error or any platform failure
func Post(args []string, stdin io.Reader, stdout, stderr io.Writer, opts PostOptions) int {
	isPipe := opts.StdinIsPipe
	if !isPipe {
		isPipe = IsStdinPipe()
	}

	content, err := readContent(args, stdin, isPipe)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read stdin: %v\n", err)
		return 1
	}
	if content == "" {
		fmt.Fprintln(stderr, "error: no content provided")
		fmt.Fprintln(stderr, "usage: socialmcp post --platforms <names> <content>")
		return 1
	}

	if len(opts.Platforms) == 0 {
		fmt.Fprintln(stderr, "error: no platforms specified")
		return 1
	}
	platforms := make([]social.Platform, 0, len(opts.Platforms))
	for _, name := range opts.Platforms {
		p := social.Platform(name)
		if !social.Known(p) {
			fmt.Fprintf(stderr, "error: unknown platform: %s\n", name)
			return 1
		}
		platforms = append(platforms, p)
	}

	for _, p := range platforms {
		warning, err := social.ValidateContent(content, p)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s: %v\n", p, err)
			return 1
		}
		if warning != "" {
			fmt.Fprintf(stderr, "warning: %s: %s\n", p, warning)
		}
	}

	var assets []social.MediaAsset
	for _, path := range opts.MediaPaths {
		mediaType, err := media.DetectType(path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		assets = append(assets, social.MediaAsset{Type: mediaType, Path: path})
	}

	post := social.Post{
		ID:        social.NewPostID(),
		Text:      content,
		Media:     assets,
		Hashtags:  opts.Hashtags,
		Mentions:  opts.Mentions,
		Platforms: platforms,
	}

	var scheduleTime time.Time
	if opts.Schedule != "" {
		scheduleTime, err = time.Parse(time.RFC3339, opts.Schedule)
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid schedule time: %v\n", err)
			return 1
		}
	} else if opts.OptimizeTiming {
		scheduleTime = social.NextBestTime(platforms, nowOr(opts.Now))
	}

	if !scheduleTime.IsZero() {
		return schedulePost(post, platforms, scheduleTime, stdout, stderr, opts)
	}

	stateRoot, err := resolveStateRoot(opts.StateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	registry := resolveRegistry(opts.Registry, stateRoot)

	results := registry.Publish(context.Background(), post, platforms)
	exitCode := 0
	for _, result := range results {
		if result.Success {
			fmt.Fprintf(stdout, "%s: posted %s\n", result.Platform, result.URL)
		} else {
			fmt.Fprintf(stderr, "%s: failed: %s\n", result.Platform, result.Error)
			exitCode = 1
		}
	}
	return exitCode
}

// schedulePost writes one calendar entry per platform.
func schedulePost(post social.Post, platforms []social.Platform, when time.Time, stdout, stderr io.Writer, opts PostOptions) int {
	stateRoot, err := resolveStateRoot(opts.StateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	for _, p := range platforms {
		id, err := social.GenerateEntryID()
		if err != nil {
			fmt.Fprintf(stderr, "error: failed to generate entry ID: %v\n", err)
			return 1
		}
		entry := calendar.Entry{
			ID:            id,
			Post:          post,
			Platform:      p,
			ScheduledTime: when,
			Status:        calendar.StatusPending,
			CreatedAt:     nowOr(opts.Now),
		}
		if err := calendar.Append(stateRoot, entry); err != nil {
			fmt.Fprintf(stderr, "error: failed to write calendar entry: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s: scheduled #%s for %s\n", p, id, when.Format(time.RFC3339))
	}
	return 0
}

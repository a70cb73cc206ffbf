package cli

import (
	"context"
	"fmt"
	"io"

	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// TrendingOptions configures the Trending command behavior.
type TrendingOptions struct {
	Platforms []string // Platforms to query (--platforms, defaults to configured)
	Category  string   // Category filter (--category)
	Location  string   // Location filter (--location)

	Registry  *platform.Registry // Mock registry (for testing)
	StateRoot string             // State root override (for testing)
}

// Trending implements the socialmcp trending command.
//
// Exit codes:
// - 0: Success
// - 1: Error
func Trending(stdout, stderr io.Writer, opts TrendingOptions) int {
	stateRoot, err := resolveStateRoot(opts.StateRoot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	registry := resolveRegistry(opts.Registry, stateRoot)

	var platforms []social.Platform
	if len(opts.Platforms) == 0 {
		platforms = registry.Configured()
	} else {
		for _, name := range opts.Platforms {
			p := social.Platform(name)
			if !social.Known(p) {
				fmt.Fprintf(stderr, "error: unknown platform: %s\n", name)
				return 1
			}
			platforms = append(platforms, p)
		}
	}
	if len(platforms) == 0 {
		fmt.Fprintln(stderr, "error: no platforms configured")
		return 1
	}

	query := platform.TrendQuery{Category: opts.Category, Location: opts.Location}
	for _, p := range platforms {
		client, ok := registry.Client(p)
		if !ok {
			fmt.Fprintf(stderr, "%s: not configured\n", p)
			continue
		}
		topics, err := client.GetTrending(context.Background(), query)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", p, err)
			continue
		}
		if len(topics) == 0 {
			fmt.Fprintf(stdout, "%s: no trending data\n", p)
			continue
		}
		fmt.Fprintf(stdout, "%s:\n", p)
		for _, topic := range topics {
			line := fmt.Sprintf("  %s", topic.Hashtag)
			if topic.Volume > 0 {
				line += fmt.Sprintf(" (%d)", topic.Volume)
			}
			fmt.Fprintln(stdout, line)
		}
	}
	return 0
}

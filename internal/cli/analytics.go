package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// AnalyticsOptions configures the Analytics command behavior.
type AnalyticsOptions struct {
	Platforms []string // Platforms to query (--platforms, defaults to configured)
	Metric    string   // Primary metric of interest (--metric)
	From      string   // Start date, YYYY-MM-DD (--from)
	To        string   // End date, YYYY-MM-DD (--to)
	PostIDs   []string // Specific post IDs (--post-id)

	Registry  *platform.Registry // Mock registry (for testing)
	StateRoot string             // State root override (for testing)
}

// Analytics implements the socialmcp analytics command.
// Prints per-platform metrics plus cross-platform totals and the overall
// engagement rate (engagement divided by impressions).
//
// Exit codes:
// - 0: Success
// - 1: Error
func Analytics(stdout, stderr io.Writer, opts AnalyticsOptions) int {
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

	query := platform.AnalyticsQuery{
		MetricType: social.MetricType(opts.Metric),
		PostIDs:    opts.PostIDs,
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
		query.DateRange = &social.DateRange{Start: start, End: end.Add(24*time.Hour - time.Second)}
	}

	totals := make(map[social.MetricType]int)
	for _, p := range platforms {
		client, ok := registry.Client(p)
		if !ok {
			fmt.Fprintf(stderr, "%s: not configured\n", p)
			continue
		}
		analytics, err := client.GetAnalytics(context.Background(), query)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", p, err)
			continue
		}
		fmt.Fprintf(stdout, "%s:\n", p)
		for _, metric := range sortedMetrics(analytics.Metrics) {
			fmt.Fprintf(stdout, "  %-12s %d\n", metric, analytics.Metrics[metric])
			totals[metric] += analytics.Metrics[metric]
		}
	}

	if len(totals) > 0 {
		fmt.Fprintln(stdout, "total:")
		for _, metric := range sortedMetrics(totals) {
			fmt.Fprintf(stdout, "  %-12s %d\n", metric, totals[metric])
		}
		if impressions := totals[social.MetricImpressions]; impressions > 0 {
			rate := float64(totals[social.MetricEngagement]) / float64(impressions)
			fmt.Fprintf(stdout, "  %-12s %.4f\n", "rate", rate)
		}
	}
	return 0
}

// sortedMetrics returns metric names in alphabetical order for stable output.
func sortedMetrics(metrics map[social.MetricType]int) []social.MetricType {
	out := make([]social.MetricType, 0, len(metrics))
	for metric := range metrics {
		out = append(out, metric)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"socialmcp/internal/cli"
	"socialmcp/internal/mcp"

	"github.com/peterbourgon/ff/v3/ffcli"
)

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func main() {
	// Root command
	rootFlagSet := flag.NewFlagSet("socialmcp", flag.ContinueOnError)

	// Post command flags
	postFlagSet := flag.NewFlagSet("socialmcp post", flag.ContinueOnError)
	var (
		postPlatforms      string
		postMedia          string
		postHashtags       string
		postMentions       string
		postSchedule       string
		postOptimizeTiming bool
	)
	postFlagSet.StringVar(&postPlatforms, "platforms", "", "comma-separated target platforms")
	postFlagSet.StringVar(&postPlatforms, "p", "", "comma-separated target platforms (shorthand)")
	postFlagSet.StringVar(&postMedia, "media", "", "comma-separated media file paths")
	postFlagSet.StringVar(&postHashtags, "hashtags", "", "comma-separated hashtags without #")
	postFlagSet.StringVar(&postMentions, "mentions", "", "comma-separated handles to mention")
	postFlagSet.StringVar(&postSchedule, "schedule", "", "RFC 3339 publish time")
	postFlagSet.BoolVar(&postOptimizeTiming, "optimize-timing", false, "schedule at the next best posting hour")

	postCmd := &ffcli.Command{
		Name:       "post",
		ShortUsage: "socialmcp post --platforms <names> [flags] [<content>]",
		ShortHelp:  "Publish or schedule a post",
		LongHelp: `Publish a post to one or more platforms, or schedule it.

Content comes from the first positional argument, or from stdin when piped.
With --schedule or --optimize-timing the post goes to the content calendar
and the scheduler publishes it when due; otherwise it publishes immediately.

Examples:
  socialmcp post -p twitter "Hello world"
  socialmcp post -p twitter,linkedin --hashtags golang,opensource "Release day"
  echo "Hello" | socialmcp post -p twitter
  socialmcp post -p twitter --schedule 2025-07-01T15:00:00Z "Launch"
  socialmcp post -p instagram --optimize-timing "Best hour post"`,
		FlagSet: postFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Post(args, os.Stdin, os.Stdout, os.Stderr, cli.PostOptions{
				Platforms:      splitList(postPlatforms),
				MediaPaths:     splitList(postMedia),
				Hashtags:       splitList(postHashtags),
				Mentions:       splitList(postMentions),
				Schedule:       postSchedule,
				OptimizeTiming: postOptimizeTiming,
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Calendar command flags
	calendarFlagSet := flag.NewFlagSet("socialmcp calendar", flag.ContinueOnError)
	var (
		calendarFrom    string
		calendarTo      string
		calendarIDs     string
		calendarNewTime string
	)
	calendarFlagSet.StringVar(&calendarFrom, "from", "", "start date filter (YYYY-MM-DD)")
	calendarFlagSet.StringVar(&calendarTo, "to", "", "end date filter (YYYY-MM-DD)")
	calendarFlagSet.StringVar(&calendarIDs, "id", "", "comma-separated entry IDs")
	calendarFlagSet.StringVar(&calendarNewTime, "new-time", "", "RFC 3339 time for reschedule")

	calendarCmd := &ffcli.Command{
		Name:       "calendar",
		ShortUsage: "socialmcp calendar [view|reschedule|cancel|delete] [flags]",
		ShortHelp:  "View and manage the content calendar",
		LongHelp: `View and manage scheduled posts in the content calendar.

Actions:
  view        List scheduled posts (default)
  reschedule  Move entries to a new time (--id, --new-time)
  cancel      Cancel entries without removing them (--id)
  delete      Remove entries from the calendar (--id)

Examples:
  socialmcp calendar
  socialmcp calendar view --from 2025-07-01 --to 2025-07-31
  socialmcp calendar reschedule --id abc12345 --new-time 2025-07-02T14:00:00Z
  socialmcp calendar cancel --id abc12345
  socialmcp calendar delete --id abc12345,def67890`,
		FlagSet: calendarFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Calendar(args, os.Stdout, os.Stderr, cli.CalendarOptions{
				From:    calendarFrom,
				To:      calendarTo,
				IDs:     splitList(calendarIDs),
				NewTime: calendarNewTime,
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Hashtags command flags
	hashtagsFlagSet := flag.NewFlagSet("socialmcp hashtags", flag.ContinueOnError)
	var (
		hashtagsPlatform string
		hashtagsMax      int
	)
	hashtagsFlagSet.StringVar(&hashtagsPlatform, "platform", "twitter", "platform whose conventions apply")
	hashtagsFlagSet.IntVar(&hashtagsMax, "max", 0, "maximum number of suggestions")

	hashtagsCmd := &ffcli.Command{
		Name:       "hashtags",
		ShortUsage: "socialmcp hashtags [--platform <name>] [--max <n>] [<content>]",
		ShortHelp:  "Suggest hashtags for post content",
		LongHelp: `Suggest scored hashtags for post content.

Content comes from the first positional argument, or from stdin when piped.
Suggestions respect the platform's best-practice hashtag count.

Examples:
  socialmcp hashtags "Exploring Go concurrency patterns"
  socialmcp hashtags --platform instagram --max 15 "Sunset timelapse"
  cat draft.txt | socialmcp hashtags --platform linkedin`,
		FlagSet: hashtagsFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Hashtags(args, os.Stdin, os.Stdout, os.Stderr, cli.HashtagsOptions{
				Platform: hashtagsPlatform,
				Max:      hashtagsMax,
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Optimize command flags
	optimizeFlagSet := flag.NewFlagSet("socialmcp optimize", flag.ContinueOnError)
	var optimizePlatforms string
	optimizeFlagSet.StringVar(&optimizePlatforms, "platforms", "", "comma-separated platforms whose limits apply")

	optimizeCmd := &ffcli.Command{
		Name:       "optimize",
		ShortUsage: "socialmcp optimize [--platforms <names>] <path>",
		ShortHelp:  "Optimize a media file for platform limits",
		LongHelp: `Optimize an image or video for the given platforms.

Images are resized to the strictest platform dimensions and re-encoded as
JPEG under the size limit. Videos are transcoded with ffmpeg (H.264/AAC)
and trimmed to the platform's maximum duration.

The optimized copy is written next to the input file.

Examples:
  socialmcp optimize photo.png
  socialmcp optimize --platforms instagram,twitter video.mov`,
		FlagSet: optimizeFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Optimize(args, os.Stdout, os.Stderr, cli.OptimizeOptions{
				Platforms: splitList(optimizePlatforms),
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Trending command flags
	trendingFlagSet := flag.NewFlagSet("socialmcp trending", flag.ContinueOnError)
	var (
		trendingPlatforms string
		trendingCategory  string
		trendingLocation  string
	)
	trendingFlagSet.StringVar(&trendingPlatforms, "platforms", "", "comma-separated platforms to query")
	trendingFlagSet.StringVar(&trendingCategory, "category", "", "industry or category filter")
	trendingFlagSet.StringVar(&trendingLocation, "location", "", "geographic location")

	trendingCmd := &ffcli.Command{
		Name:       "trending",
		ShortUsage: "socialmcp trending [flags]",
		ShortHelp:  "Show trending topics and hashtags",
		LongHelp: `Show trending topics and hashtags from the configured platforms.

Defaults to every configured platform when --platforms is not given.

Examples:
  socialmcp trending
  socialmcp trending --platforms twitter --location "United States"
  socialmcp trending --category technology`,
		FlagSet: trendingFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Trending(os.Stdout, os.Stderr, cli.TrendingOptions{
				Platforms: splitList(trendingPlatforms),
				Category:  trendingCategory,
				Location:  trendingLocation,
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Analytics command flags
	analyticsFlagSet := flag.NewFlagSet("socialmcp analytics", flag.ContinueOnError)
	var (
		analyticsPlatforms string
		analyticsMetric    string
		analyticsFrom      string
		analyticsTo        string
		analyticsPostIDs   string
	)
	analyticsFlagSet.StringVar(&analyticsPlatforms, "platforms", "", "comma-separated platforms to query")
	analyticsFlagSet.StringVar(&analyticsMetric, "metric", "engagement", "primary metric of interest")
	analyticsFlagSet.StringVar(&analyticsFrom, "from", "", "start date (YYYY-MM-DD)")
	analyticsFlagSet.StringVar(&analyticsTo, "to", "", "end date (YYYY-MM-DD)")
	analyticsFlagSet.StringVar(&analyticsPostIDs, "post-id", "", "comma-separated post IDs")

	analyticsCmd := &ffcli.Command{
		Name:       "analytics",
		ShortUsage: "socialmcp analytics [flags]",
		ShortHelp:  "Show engagement metrics",
		LongHelp: `Show per-platform engagement metrics with cross-platform totals.

The overall engagement rate is engagement divided by impressions across
all queried platforms.

Examples:
  socialmcp analytics
  socialmcp analytics --platforms twitter,linkedin --from 2025-07-01 --to 2025-07-31
  socialmcp analytics --post-id 1234567890`,
		FlagSet: analyticsFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Analytics(os.Stdout, os.Stderr, cli.AnalyticsOptions{
				Platforms: splitList(analyticsPlatforms),
				Metric:    analyticsMetric,
				From:      analyticsFrom,
				To:        analyticsTo,
				PostIDs:   splitList(analyticsPostIDs),
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Scheduler command flags
	schedulerFlagSet := flag.NewFlagSet("socialmcp scheduler", flag.ContinueOnError)
	var (
		schedulerDaemon   bool
		schedulerInterval time.Duration
	)
	schedulerFlagSet.BoolVar(&schedulerDaemon, "daemon", false, "run in background (daemonize)")
	schedulerFlagSet.DurationVar(&schedulerInterval, "interval", 0, "dispatch loop interval (default 30s)")

	schedulerCmd := &ffcli.Command{
		Name:       "scheduler",
		ShortUsage: "socialmcp scheduler [start|stop|status] [--daemon]",
		ShortHelp:  "Control the scheduler daemon",
		LongHelp: `Control the scheduler daemon that publishes calendar entries when due.

Actions:
  start   Start the scheduler (default)
  stop    Stop a running scheduler
  status  Report whether the scheduler is running

In foreground mode the scheduler watches .socialmcp/ for calendar changes
and also polls on the loop interval as a fallback.

Exit codes:
  0  Success
  2  Scheduler already running (start) or not running (stop)

Examples:
  socialmcp scheduler start            # Run in foreground
  socialmcp scheduler start --daemon   # Run in background
  socialmcp scheduler stop
  socialmcp scheduler status`,
		FlagSet: schedulerFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Scheduler(args, os.Stdout, os.Stderr, cli.SchedulerOptions{
				Daemonize: schedulerDaemon,
				Interval:  schedulerInterval,
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// Platforms command (no flags)
	platformsFlagSet := flag.NewFlagSet("socialmcp platforms", flag.ContinueOnError)

	platformsCmd := &ffcli.Command{
		Name:       "platforms",
		ShortUsage: "socialmcp platforms",
		ShortHelp:  "List supported platforms and credential status",
		LongHelp: `List every supported platform, whether credentials are configured,
and the platform's character limit.

Credentials come from environment variables or .socialmcp/config.yaml.

Examples:
  socialmcp platforms`,
		FlagSet: platformsFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			exitCode := cli.Platforms(os.Stdout, os.Stderr, cli.PlatformsOptions{})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	// MCP command (no flags)
	mcpFlagSet := flag.NewFlagSet("socialmcp mcp", flag.ContinueOnError)

	mcpCmd := &ffcli.Command{
		Name:       "mcp",
		ShortUsage: "socialmcp mcp",
		ShortHelp:  "Start MCP server (STDIO transport)",
		LongHelp: `Start the Model Context Protocol (MCP) server for AI agent integration.

The MCP server exposes seven tools:
  create_post        Create and publish or schedule a post
  get_analytics      Fetch engagement metrics
  schedule_posts     Batch-schedule posts with optimal spacing
  generate_hashtags  Suggest scored hashtags for content
  optimize_media     Optimize images and videos for platform limits
  get_trending       Fetch trending topics and hashtags
  manage_calendar    View and manage the content calendar

The server uses STDIO transport and communicates via JSON-RPC 2.0.

Examples:
  socialmcp mcp`,
		FlagSet: mcpFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			server := mcp.NewServer()
			mcp.RegisterTools(server)

			// Run the server (blocks until shutdown)
			if err := server.Run(ctx); err != nil {
				// Context cancellation is normal shutdown
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return nil
		},
	}

	// Version command (no flags)
	versionFlagSet := flag.NewFlagSet("socialmcp version", flag.ContinueOnError)

	versionCmd := &ffcli.Command{
		Name:       "version",
		ShortUsage: "socialmcp version",
		ShortHelp:  "Print the socialmcp version",
		FlagSet:    versionFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			fmt.Fprintln(os.Stdout, mcp.Version)
			return nil
		},
	}

	// Root command help text
	rootHelp := `socialmcp - Social media management for AI agents and the command line

Publish, schedule, and analyze posts across Twitter, LinkedIn, Instagram,
and Facebook. Scheduled posts live in a file-based content calendar under
.socialmcp/ and are dispatched by the scheduler daemon.

Commands:
  post        Publish or schedule a post
  calendar    View and manage the content calendar
  hashtags    Suggest hashtags for post content
  optimize    Optimize a media file for platform limits
  trending    Show trending topics and hashtags
  analytics   Show engagement metrics
  scheduler   Control the scheduler daemon
  platforms   List supported platforms and credential status
  mcp         Start MCP server (STDIO transport)
  version     Print the socialmcp version

Use "socialmcp <command> --help" for more information about a command.`

	// Root command
	root := &ffcli.Command{
		ShortUsage:  "socialmcp <command> [flags] [arguments]",
		ShortHelp:   "Social media management for AI agents and the command line",
		LongHelp:    rootHelp,
		FlagSet:     rootFlagSet,
		Subcommands: []*ffcli.Command{postCmd, calendarCmd, hashtagsCmd, optimizeCmd, trendingCmd, analyticsCmd, schedulerCmd, platformsCmd, mcpCmd, versionCmd},
		Exec: func(ctx context.Context, args []string) error {
			// No subcommand provided, show help
			fmt.Fprintln(os.Stderr, rootHelp)
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Run 'socialmcp <command> --help' for usage.")
			os.Exit(1)
			return nil
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

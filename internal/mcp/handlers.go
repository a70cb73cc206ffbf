package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"socialmcp/internal/calendar"
	"socialmcp/internal/config"
	"socialmcp/internal/media"
	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// previewLength is how much post text the calendar view shows per entry.
const previewLength = 100

// HandlerOptions configures handler behavior for testing.
type HandlerOptions struct {
	// Registry is the platform client registry (defaults to env credentials).
	Registry *platform.Registry
	// StateRoot is the calendar state root (defaults to the discovered root).
	StateRoot string
	// Now is the clock (defaults to time.Now).
	Now func() time.Time
}

// getRegistry returns the platform registry.
func (opts *HandlerOptions) getRegistry() *platform.Registry {
	if opts.Registry != nil {
		return opts.Registry
	}

	root, err := opts.getStateRoot()
	if err != nil {
		return platform.FromEnv(os.Getenv)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return platform.FromEnv(os.Getenv)
	}
	return platform.FromEnv(cfg.Lookup())
}

// getStateRoot returns the calendar state root.
func (opts *HandlerOptions) getStateRoot() (string, error) {
	if opts.StateRoot != "" {
		return opts.StateRoot, nil
	}
	return calendar.FindStateRoot()
}

// getNow returns the current time.
func (opts *HandlerOptions) getNow() time.Time {
	if opts.Now != nil {
		return opts.Now()
	}
	return time.Now().UTC()
}

// handlerOptions holds the current handler options.
// Set via SetHandlerOptions for testing, nil for production.
// Protected by handlerOptionsMu for thread-safe access.
var (
	handlerOptions   *HandlerOptions
	handlerOptionsMu sync.RWMutex
)

// SetHandlerOptions sets the handler options for testing.
// Pass nil to reset to production behavior.
func SetHandlerOptions(opts *HandlerOptions) {
	handlerOptionsMu.Lock()
	defer handlerOptionsMu.Unlock()
	handlerOptions = opts
}

// getHandlerOptions returns the current handler options in a thread-safe manner.
func getHandlerOptions() *HandlerOptions {
	handlerOptionsMu.RLock()
	defer handlerOptionsMu.RUnlock()
	opts := handlerOptions
	if opts == nil {
		opts = &HandlerOptions{}
	}
	return opts
}

// errorResult builds an IsError tool result. Tool failures are results,
// not protocol errors, so the model can read and react to them.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

// jsonResult encodes a response value as a JSON text content result.
func jsonResult(response any) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode response: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}
}

// unmarshalArgs decodes request arguments into params.
func unmarshalArgs(req *mcp.CallToolRequest, params any) error {
	if req.Params == nil || req.Params.Arguments == nil {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, params); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

// parsePlatforms validates and converts platform names. An empty list
// falls back to the registry's configured platforms when allowEmpty is set.
func parsePlatforms(names []string, registry *platform.Registry, allowEmpty bool) ([]social.Platform, error) {
	if len(names) == 0 {
		if allowEmpty {
			return registry.Configured(), nil
		}
		return nil, fmt.Errorf("no platforms specified")
	}

	platforms := make([]social.Platform, 0, len(names))
	for _, name := range names {
		p := social.Platform(name)
		if !social.Known(p) {
			return nil, fmt.Errorf("unknown platform: %s", name)
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

// mediaAssets optimizes each local media file for the target platforms and
// attaches the optimized copy. Remote URLs are attached as-is; the platform
// client passes them through to the API.
func mediaAssets(ctx context.Context, paths []string, platforms []social.Platform) ([]social.MediaAsset, error) {
	var assets []social.MediaAsset
	for _, path := range paths {
		mediaType, err := media.DetectType(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			assets = append(assets, social.MediaAsset{Type: mediaType, Path: path})
			continue
		}
		result, err := media.Optimize(ctx, path, platforms)
		if err != nil {
			return nil, fmt.Errorf("optimize %s: %w", path, err)
		}
		assets = append(assets, social.MediaAsset{Type: result.MediaType, Path: result.OutputPath})
	}
	return assets, nil
}

// createPostParams holds the unmarshaled parameters for the create_post tool.
type createPostParams struct {
	Content        string   `json:"content"`
	Platforms      []string `json:"platforms"`
	MediaPaths     []string `json:"media_paths"`
	Hashtags       []string `json:"hashtags"`
	Mentions       []string `json:"mentions"`
	Schedule       string   `json:"schedule"`
	OptimizeTiming bool     `json:"optimize_timing"`
}

// ContentSummary describes the composed post as it went out.
type ContentSummary struct {
	Text       string   `json:"text"`
	Hashtags   []string `json:"hashtags,omitempty"`
	MediaCount int      `json:"media_count"`
}

// summarize builds the content summary for a composed post.
func summarize(post social.Post) ContentSummary {
	return ContentSummary{
		Text:       post.Text,
		Hashtags:   post.Hashtags,
		MediaCount: len(post.Media),
	}
}

// CreatePostResponse is the create_post response for an immediate publish.
type CreatePostResponse struct {
	Results  []social.PostResult `json:"results"`
	Content  ContentSummary      `json:"content"`
	Warnings []string            `json:"warnings,omitempty"`
}

// ScheduledPostResponse is the create_post response for a scheduled publish.
type ScheduledPostResponse struct {
	Scheduled     bool           `json:"scheduled"`
	ScheduledTime string         `json:"scheduled_time"`
	EntryIDs      []string       `json:"entry_ids"`
	Content       ContentSummary `json:"content"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// doCreatePost implements the create_post handler logic.
// A schedule (or optimize_timing) routes the post to the calendar; otherwise
// it publishes to every requested platform immediately.
func doCreatePost(ctx context.Context, params createPostParams) (any, error) {
	opts := getHandlerOptions()
	registry := opts.getRegistry()

	platforms, err := parsePlatforms(params.Platforms, registry, false)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, p := range platforms {
		warning, err := social.ValidateContent(params.Content, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if warning != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", p, warning))
		}
	}

	assets, err := mediaAssets(ctx, params.MediaPaths, platforms)
	if err != nil {
		return nil, err
	}

	hashtags := params.Hashtags
	if len(hashtags) == 0 {
		// Derive hashtags from the content using the first platform's limits
		hashtags = social.GenerateHashtags(params.Content, platforms[0], social.DefaultMaxHashtags)
	}

	post := social.Post{
		ID:        social.NewPostID(),
		Text:      params.Content,
		Media:     assets,
		Hashtags:  hashtags,
		Mentions:  params.Mentions,
		Platforms: platforms,
	}

	var scheduleTime time.Time
	if params.Schedule != "" {
		scheduleTime, err = time.Parse(time.RFC3339, params.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule time: %w", err)
		}
	} else if params.OptimizeTiming {
		scheduleTime = social.NextBestTime(platforms, opts.getNow())
	}

	if !scheduleTime.IsZero() {
		entryIDs, err := scheduleForPlatforms(opts, post, platforms, scheduleTime)
		if err != nil {
			return nil, err
		}
		return ScheduledPostResponse{
			Scheduled:     true,
			ScheduledTime: scheduleTime.Format(time.RFC3339),
			EntryIDs:      entryIDs,
			Content:       summarize(post),
			Warnings:      warnings,
		}, nil
	}

	results := registry.Publish(ctx, post, platforms)
	return CreatePostResponse{Results: results, Content: summarize(post), Warnings: warnings}, nil
}

// scheduleForPlatforms appends one calendar entry per target platform.
func scheduleForPlatforms(opts *HandlerOptions, post social.Post, platforms []social.Platform, when time.Time) ([]string, error) {
	stateRoot, err := opts.getStateRoot()
	if err != nil {
		return nil, err
	}

	entryIDs := make([]string, 0, len(platforms))
	for _, p := range platforms {
		id, err := social.GenerateEntryID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate entry ID: %w", err)
		}
		entry := calendar.Entry{
			ID:            id,
			Post:          post,
			Platform:      p,
			ScheduledTime: when,
			Status:        calendar.StatusPending,
			CreatedAt:     opts.getNow(),
		}
		if err := calendar.Append(stateRoot, entry); err != nil {
			return nil, fmt.Errorf("failed to write calendar entry: %w", err)
		}
		entryIDs = append(entryIDs, id)
	}
	return entryIDs, nil
}

// handleCreatePost is the MCP handler function for the create_post tool.
func handleCreatePost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params createPostParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doCreatePost(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

// analyticsParams holds the unmarshaled parameters for the get_analytics tool.
type analyticsParams struct {
	Platforms  []string `json:"platforms"`
	MetricType string   `json:"metric_type"`
	DateRange  *struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"date_range"`
	PostIDs []string `json:"post_ids"`
}

// AnalyticsResponse aggregates metrics across platforms.
type AnalyticsResponse struct {
	Platforms      map[social.Platform]social.Analytics `json:"platforms"`
	Totals         map[social.MetricType]int            `json:"totals"`
	EngagementRate float64                              `json:"engagement_rate"`
	Errors         map[social.Platform]string           `json:"errors,omitempty"`
}

// doGetAnalytics implements the get_analytics handler logic.
// It queries each requested platform and sums the metrics into totals.
// Engagement rate is engagement over impressions, 0 when there are none.
func doGetAnalytics(ctx context.Context, params analyticsParams) (any, error) {
	opts := getHandlerOptions()
	registry := opts.getRegistry()

	platforms, err := parsePlatforms(params.Platforms, registry, true)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platforms configured")
	}

	query := platform.AnalyticsQuery{
		MetricType: social.MetricType(params.MetricType),
		PostIDs:    params.PostIDs,
	}
	if params.DateRange != nil {
		start, err := time.Parse("2006-01-02", params.DateRange.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		end, err := time.Parse("2006-01-02", params.DateRange.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		query.DateRange = &social.DateRange{Start: start, End: end.Add(24*time.Hour - time.Second)}
	}

	response := AnalyticsResponse{
		Platforms: map[social.Platform]social.Analytics{},
		Totals:    map[social.MetricType]int{},
	}

	for _, p := range platforms {
		client, ok := registry.Client(p)
		if !ok {
			continue
		}
		analytics, err := client.GetAnalytics(ctx, query)
		if err != nil {
			if response.Errors == nil {
				response.Errors = map[social.Platform]string{}
			}
			response.Errors[p] = err.Error()
			continue
		}
		response.Platforms[p] = analytics
		for metric, value := range analytics.Metrics {
			response.Totals[metric] += value
		}
	}

	if impressions := response.Totals[social.MetricImpressions]; impressions > 0 {
		response.EngagementRate = float64(response.Totals[social.MetricEngagement]) / float64(impressions)
	}

	return response, nil
}

// handleGetAnalytics is the MCP handler function for the get_analytics tool.
func handleGetAnalytics(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params analyticsParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doGetAnalytics(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

// schedulePostsParams holds the unmarshaled parameters for the
// schedule_posts tool.
type schedulePostsParams struct {
	Posts           []createPostParams `json:"posts"`
	OptimizeSpacing bool               `json:"optimize_spacing"`
	SpacingStrategy string             `json:"spacing_strategy"`
}

// SchedulePostsResponse reports the created calendar entries per post.
type SchedulePostsResponse struct {
	ScheduledCount int                  `json:"scheduled_count"`
	Posts          []ScheduledPostEntry `json:"posts"`
}

// ScheduledPostEntry is one post's scheduling outcome.
type ScheduledPostEntry struct {
	Content       string   `json:"content"`
	ScheduledTime string   `json:"scheduled_time"`
	EntryIDs      []string `json:"entry_ids"`
}

// doSchedulePosts implements the schedule_posts handler logic.
// Posts without explicit schedules get spaced times; optimize_spacing
// overrides any explicit times with the computed spacing.
func doSchedulePosts(ctx context.Context, params schedulePostsParams) (any, error) {
	opts := getHandlerOptions()
	registry := opts.getRegistry()

	if len(params.Posts) == 0 {
		return nil, fmt.Errorf("no posts provided")
	}

	strategy := social.SpacingStrategy(params.SpacingStrategy)
	spaced := social.SpacePosts(len(params.Posts), opts.getNow(), strategy)

	response := SchedulePostsResponse{}
	for i, postParams := range params.Posts {
		platforms, err := parsePlatforms(postParams.Platforms, registry, false)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i+1, err)
		}
		for _, p := range platforms {
			if _, err := social.ValidateContent(postParams.Content, p); err != nil {
				return nil, fmt.Errorf("post %d: %s: %w", i+1, p, err)
			}
		}

		assets, err := mediaAssets(ctx, postParams.MediaPaths, platforms)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i+1, err)
		}

		when := spaced[i]
		if !params.OptimizeSpacing && postParams.Schedule != "" {
			when, err = time.Parse(time.RFC3339, postParams.Schedule)
			if err != nil {
				return nil, fmt.Errorf("post %d: invalid schedule time: %w", i+1, err)
			}
		}

		post := social.Post{
			ID:        social.NewPostID(),
			Text:      postParams.Content,
			Media:     assets,
			Hashtags:  postParams.Hashtags,
			Mentions:  postParams.Mentions,
			Platforms: platforms,
		}

		entryIDs, err := scheduleForPlatforms(opts, post, platforms, when)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i+1, err)
		}

		response.ScheduledCount += len(entryIDs)
		response.Posts = append(response.Posts, ScheduledPostEntry{
			Content:       postParams.Content,
			ScheduledTime: when.Format(time.RFC3339),
			EntryIDs:      entryIDs,
		})
	}

	return response, nil
}

// handleSchedulePosts is the MCP handler function for the schedule_posts tool.
func handleSchedulePosts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params schedulePostsParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doSchedulePosts(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

// hashtagsParams holds the unmarshaled parameters for the generate_hashtags
// tool.
type hashtagsParams struct {
	Content         string `json:"content"`
	Platform        string `json:"platform"`
	MaxHashtags     int    `json:"max_hashtags"`
	IncludeTrending bool   `json:"include_trending"`
}

// HashtagsResponse is the generate_hashtags response.
type HashtagsResponse struct {
	Platform social.Platform       `json:"platform"`
	Hashtags []social.HashtagScore `json:"hashtags"`
}

// doGenerateHashtags implements the generate_hashtags handler logic.
// With include_trending set, hashtags that currently trend on the platform
// are flagged in the scores.
func doGenerateHashtags(ctx context.Context, params hashtagsParams) (any, error) {
	opts := getHandlerOptions()

	if params.Content == "" {
		return nil, fmt.Errorf("no content provided")
	}
	p := social.Platform(params.Platform)
	if !social.Known(p) {
		return nil, fmt.Errorf("unknown platform: %s", params.Platform)
	}

	hashtags := social.GenerateHashtags(params.Content, p, params.MaxHashtags)
	scores := social.ScoreHashtags(hashtags, p)

	if params.IncludeTrending {
		if client, ok := opts.getRegistry().Client(p); ok {
			topics, err := client.GetTrending(ctx, platform.TrendQuery{})
			if err == nil {
				markTrending(scores, topics)
			}
		}
	}

	return HashtagsResponse{Platform: p, Hashtags: scores}, nil
}

// markTrending flags scored hashtags that appear in the trending topics.
func markTrending(scores []social.HashtagScore, topics []social.TrendingTopic) {
	trending := make(map[string]bool, len(topics))
	for _, topic := range topics {
		trending["#"+topic.Topic] = true
		trending[topic.Hashtag] = true
	}
	for i := range scores {
		if trending["#"+scores[i].Hashtag] {
			scores[i].Trending = true
		}
	}
}

// handleGenerateHashtags is the MCP handler function for the
// generate_hashtags tool.
func handleGenerateHashtags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params hashtagsParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doGenerateHashtags(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

// optimizeMediaParams holds the unmarshaled parameters for the
// optimize_media tool.
type optimizeMediaParams struct {
	MediaPath string   `json:"media_path"`
	Platforms []string `json:"platforms"`
}

// doOptimizeMedia implements the optimize_media handler logic.
func doOptimizeMedia(ctx context.Context, params optimizeMediaParams) (any, error) {
	opts := getHandlerOptions()

	if params.MediaPath == "" {
		return nil, fmt.Errorf("no media path provided")
	}
	platforms, err := parsePlatforms(params.Platforms, opts.getRegistry(), true)
	if err != nil {
		return nil, err
	}

	result, err := media.Optimize(ctx, params.MediaPath, platforms)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// handleOptimizeMedia is the MCP handler function for the optimize_media tool.
func handleOptimizeMedia(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params optimizeMediaParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doOptimizeMedia(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

// trendingParams holds the unmarshaled parameters for the get_trending tool.
type trendingParams struct {
	Platforms []string `json:"platforms"`
	Category  string   `json:"category"`
	Location  string   `json:"location"`
}

// TrendingResponse maps platforms to their current trending topics.
type TrendingResponse struct {
	Topics    map[social.Platform][]social.TrendingTopic `json:"topics"`
	Errors    map[social.Platform]string                 `json:"errors,omitempty"`
	FetchedAt string                                     `json:"fetched_at"`
}

// doGetTrending implements the get_trending handler logic.
func doGetTrending(ctx context.Context, params trendingParams) (any, error) {
	opts := getHandlerOptions()
	registry := opts.getRegistry()

	platforms, err := parsePlatforms(params.Platforms, registry, true)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platforms configured")
	}

	query := platform.TrendQuery{Category: params.Category, Location: params.Location}
	response := TrendingResponse{
		Topics:    map[social.Platform][]social.TrendingTopic{},
		FetchedAt: opts.getNow().Format(time.RFC3339),
	}

	for _, p := range platforms {
		client, ok := registry.Client(p)
		if !ok {
			continue
		}
		topics, err := client.GetTrending(ctx, query)
		if err != nil {
			if response.Errors == nil {
				response.Errors = map[social.Platform]string{}
			}
			response.Errors[p] = err.Error()
			continue
		}
		response.Topics[p] = topics
	}

	return response, nil
}

// handleGetTrending is the MCP handler function for the get_trending tool.
func handleGetTrending(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params trendingParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doGetTrending(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

// calendarParams holds the unmarshaled parameters for the manage_calendar
// tool.
type calendarParams struct {
	Action    string `json:"action"`
	DateRange *struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"date_range"`
	PostIDs []string `json:"post_ids"`
	NewTime string   `json:"new_time"`
}

// CalendarViewResponse lists calendar entries.
type CalendarViewResponse struct {
	Entries []CalendarEntryView `json:"entries"`
	Count   int                 `json:"count"`
}

// CalendarEntryView is a single calendar entry as shown to the model.
type CalendarEntryView struct {
	ID             string          `json:"id"`
	Platform       social.Platform `json:"platform"`
	ContentPreview string          `json:"content_preview"`
	ScheduledTime  string          `json:"scheduled_time"`
	Status         string          `json:"status"`
	LastError      string          `json:"last_error,omitempty"`
}

// CalendarActionResponse reports the outcome of a mutating calendar action.
type CalendarActionResponse struct {
	Action   string   `json:"action"`
	Affected []string `json:"affected"`
}

// doManageCalendar implements the manage_calendar handler logic.
func doManageCalendar(ctx context.Context, params calendarParams) (any, error) {
	opts := getHandlerOptions()

	stateRoot, err := opts.getStateRoot()
	if err != nil {
		return nil, err
	}

	switch params.Action {
	case "view":
		return viewCalendar(stateRoot, params)
	case "reschedule", "update":
		if params.NewTime == "" {
			return nil, fmt.Errorf("new_time is required for %s", params.Action)
		}
		newTime, err := time.Parse(time.RFC3339, params.NewTime)
		if err != nil {
			return nil, fmt.Errorf("invalid new_time: %w", err)
		}
		return applyCalendarAction(params, func(id string) error {
			return calendar.Reschedule(stateRoot, id, newTime)
		})
	case "delete":
		return applyCalendarAction(params, func(id string) error {
			return calendar.Remove(stateRoot, id)
		})
	case "cancel":
		return applyCalendarAction(params, func(id string) error {
			return calendar.UpdateStatus(stateRoot, id, calendar.StatusCancelled, "")
		})
	default:
		return nil, fmt.Errorf("unknown action: %s. Valid: view, update, delete, reschedule, cancel", params.Action)
	}
}

// viewCalendar lists entries, optionally filtered to a date range.
func viewCalendar(stateRoot string, params calendarParams) (any, error) {
	entries, err := calendar.ReadAll(stateRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}

	if params.DateRange != nil {
		start, err := time.Parse("2006-01-02", params.DateRange.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		end, err := time.Parse("2006-01-02", params.DateRange.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		entries = calendar.FilterRange(entries, start, end.Add(24*time.Hour-time.Second))
	}

	response := CalendarViewResponse{Count: len(entries)}
	for _, entry := range entries {
		preview := entry.Post.Text
		// Truncate on a rune boundary so multi-byte text is never split.
		if runes := []rune(preview); len(runes) > previewLength {
			preview = string(runes[:previewLength]) + "..."
		}
		response.Entries = append(response.Entries, CalendarEntryView{
			ID:             entry.ID,
			Platform:       entry.Platform,
			ContentPreview: preview,
			ScheduledTime:  entry.ScheduledTime.Format(time.RFC3339),
			Status:         entry.Status,
			LastError:      entry.LastError,
		})
	}
	return response, nil
}

// applyCalendarAction runs a mutation for every requested entry ID.
func applyCalendarAction(params calendarParams, apply func(id string) error) (any, error) {
	if len(params.PostIDs) == 0 {
		return nil, fmt.Errorf("post_ids is required for %s", params.Action)
	}

	affected := make([]string, 0, len(params.PostIDs))
	for _, id := range params.PostIDs {
		if err := apply(id); err != nil {
			return nil, fmt.Errorf("entry %s: %w", id, err)
		}
		affected = append(affected, id)
	}
	return CalendarActionResponse{Action: params.Action, Affected: affected}, nil
}

// handleManageCalendar is the MCP handler function for the manage_calendar
// tool.
func handleManageCalendar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params calendarParams
	if err := unmarshalArgs(req, &params); err != nil {
		return errorResult(err.Error()), nil
	}

	response, err := doManageCalendar(ctx, params)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(response), nil
}

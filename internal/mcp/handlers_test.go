package mcp

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"socialmcp/internal/calendar"
	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// fakeClient records CreatePost calls and returns canned responses.
type fakeClient struct {
	mu        sync.Mutex
	posts     []social.Post
	result    social.PostResult
	analytics social.Analytics
	trends    []social.TrendingTopic
	trendErr  error
}

func (c *fakeClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = append(c.posts, post)
	return c.result
}

func (c *fakeClient) GetAnalytics(ctx context.Context, q platform.AnalyticsQuery) (social.Analytics, error) {
	return c.analytics, nil
}

func (c *fakeClient) GetTrending(ctx context.Context, q platform.TrendQuery) ([]social.TrendingTopic, error) {
	return c.trends, c.trendErr
}

func (c *fakeClient) lastPost(t *testing.T) social.Post {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.posts) == 0 {
		t.Fatal("No posts were published")
	}
	return c.posts[len(c.posts)-1]
}

// testClock is a fixed Tuesday 08:00 UTC.
var testClock = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

// setupHandlers installs handler options with a stub registry and temp state
// root, returning the twitter stub for inspection.
func setupHandlers(t *testing.T) (*fakeClient, string) {
	t.Helper()

	twitter := &fakeClient{
		result: social.PostResult{Success: true, Platform: social.Twitter, PostID: "t1"},
	}
	registry := platform.NewRegistry()
	registry.Register(social.Twitter, twitter)

	root := t.TempDir()
	SetHandlerOptions(&HandlerOptions{
		Registry:  registry,
		StateRoot: root,
		Now:       func() time.Time { return testClock },
	})
	t.Cleanup(func() { SetHandlerOptions(nil) })

	return twitter, root
}

// makeRequest builds a CallToolRequest with JSON-encoded arguments.
func makeRequest(t *testing.T, tool string, args any) *mcp.CallToolRequest {
	t.Helper()
	encoded, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("Failed to encode arguments: %v", err)
	}
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      tool,
			Arguments: encoded,
		},
	}
}

// decodeResult unmarshals a non-error tool result into out.
func decodeResult(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	if result.IsError {
		t.Fatalf("Handler returned error result: %v", result.Content)
	}
	if len(result.Content) == 0 {
		t.Fatal("Handler returned empty content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Content is not TextContent, got %T", result.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), out); err != nil {
		t.Fatalf("Failed to parse response JSON: %v", err)
	}
}

// errorText returns the text of an IsError result.
func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if !result.IsError {
		t.Fatal("Expected an error result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Content is not TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestCreatePost_PublishesImmediately(t *testing.T) {
	twitter, _ := setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   "shipping a new release today",
		"platforms": []string{"twitter"},
		"hashtags":  []string{"release"},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	var response CreatePostResponse
	decodeResult(t, result, &response)

	if len(response.Results) != 1 || !response.Results[0].Success {
		t.Fatalf("Results = %+v, want one success", response.Results)
	}
	if response.Results[0].PostID != "t1" {
		t.Errorf("PostID = %s, want t1", response.Results[0].PostID)
	}

	post := twitter.lastPost(t)
	if post.Text != "shipping a new release today" {
		t.Errorf("Published text = %q", post.Text)
	}
	if len(post.Hashtags) != 1 || post.Hashtags[0] != "release" {
		t.Errorf("Hashtags = %v, want [release]", post.Hashtags)
	}
}

func TestCreatePost_AutoGeneratesHashtags(t *testing.T) {
	twitter, _ := setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   "kubernetes deployment pipeline improvements for kubernetes teams",
		"platforms": []string{"twitter"},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	var response CreatePostResponse
	decodeResult(t, result, &response)

	post := twitter.lastPost(t)
	if len(post.Hashtags) == 0 {
		t.Error("Hashtags should be generated when omitted")
	}
}

func TestCreatePost_ResponseIncludesContentSummary(t *testing.T) {
	setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   "release notes are out",
		"platforms": []string{"twitter"},
		"hashtags":  []string{"release", "golang"},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	var response CreatePostResponse
	decodeResult(t, result, &response)

	if response.Content.Text != "release notes are out" {
		t.Errorf("Content.Text = %q", response.Content.Text)
	}
	if len(response.Content.Hashtags) != 2 {
		t.Errorf("Content.Hashtags = %v, want 2 tags", response.Content.Hashtags)
	}
	if response.Content.MediaCount != 0 {
		t.Errorf("Content.MediaCount = %d, want 0", response.Content.MediaCount)
	}
}

// writeTestPNG renders a small PNG to disk for media optimization tests.
func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 5), B: 96, A: 255})
		}
	}

	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func TestCreatePost_OptimizesMediaBeforePublish(t *testing.T) {
	twitter, _ := setupHandlers(t)
	path := writeTestPNG(t, t.TempDir())

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":     "with a picture",
		"platforms":   []string{"twitter"},
		"media_paths": []string{path},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	var response CreatePostResponse
	decodeResult(t, result, &response)

	post := twitter.lastPost(t)
	if len(post.Media) != 1 {
		t.Fatalf("Media = %+v, want one asset", post.Media)
	}
	if !strings.HasSuffix(post.Media[0].Path, "_optimized.jpg") {
		t.Errorf("Media path = %q, want the optimized copy", post.Media[0].Path)
	}
	if _, err := os.Stat(post.Media[0].Path); err != nil {
		t.Errorf("Optimized file missing: %v", err)
	}
	if response.Content.MediaCount != 1 {
		t.Errorf("Content.MediaCount = %d, want 1", response.Content.MediaCount)
	}
}

func TestCreatePost_RemoteMediaAttachedAsIs(t *testing.T) {
	twitter, _ := setupHandlers(t)

	url := "https://example.com/banner.jpg"
	_, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":     "remote image",
		"platforms":   []string{"twitter"},
		"media_paths": []string{url},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	post := twitter.lastPost(t)
	if len(post.Media) != 1 || post.Media[0].Path != url {
		t.Errorf("Media = %+v, want the URL untouched", post.Media)
	}
}

func TestCreatePost_EmptyContent(t *testing.T) {
	setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   "",
		"platforms": []string{"twitter"},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Empty content should produce an error result")
	}
}

func TestCreatePost_UnknownPlatform(t *testing.T) {
	setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   "hello",
		"platforms": []string{"myspace"},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}
	if got := errorText(t, result); !strings.Contains(got, "unknown platform") {
		t.Errorf("Error = %q, want unknown platform", got)
	}
}

func TestCreatePost_OverCharacterLimit(t *testing.T) {
	setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   strings.Repeat("x", 300),
		"platforms": []string{"twitter"},
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}
	if !result.IsError {
		t.Error("281+ chars should fail twitter validation")
	}
}

func TestCreatePost_ScheduleWritesCalendar(t *testing.T) {
	twitter, root := setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":   "scheduled announcement",
		"platforms": []string{"twitter"},
		"schedule":  "2025-06-11T15:00:00Z",
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	var response ScheduledPostResponse
	decodeResult(t, result, &response)

	if !response.Scheduled || len(response.EntryIDs) != 1 {
		t.Fatalf("Response = %+v, want one scheduled entry", response)
	}

	entries, err := calendar.ReadAll(root)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Calendar has %d entries, want 1", len(entries))
	}
	if entries[0].Status != calendar.StatusPending {
		t.Errorf("Status = %s, want pending", entries[0].Status)
	}
	if !entries[0].ScheduledTime.Equal(time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("ScheduledTime = %v", entries[0].ScheduledTime)
	}

	// Scheduled posts must not publish immediately
	twitter.mu.Lock()
	published := len(twitter.posts)
	twitter.mu.Unlock()
	if published != 0 {
		t.Errorf("Post was published immediately despite schedule")
	}
}

func TestCreatePost_OptimizeTimingUsesBestHour(t *testing.T) {
	_, root := setupHandlers(t)

	result, err := handleCreatePost(context.Background(), makeRequest(t, ToolCreatePost, map[string]any{
		"content":         "timed post",
		"platforms":       []string{"twitter"},
		"optimize_timing": true,
	}))
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}

	var response ScheduledPostResponse
	decodeResult(t, result, &response)

	// Clock is 08:00 UTC; twitter's next best hour is 09:00 the same day
	entries, err := calendar.ReadAll(root)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	want := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	if !entries[0].ScheduledTime.Equal(want) {
		t.Errorf("ScheduledTime = %v, want %v", entries[0].ScheduledTime, want)
	}
}

func TestCreatePost_MalformedArguments(t *testing.T) {
	setupHandlers(t)

	result, err := handleCreatePost(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      ToolCreatePost,
			Arguments: json.RawMessage(`{"content": 42}`),
		},
	})
	if err != nil {
		t.Fatalf("handleCreatePost returned error: %v", err)
	}
	if got := errorText(t, result); !strings.Contains(got, "failed to parse arguments") {
		t.Errorf("Error = %q, want parse failure", got)
	}
}

func TestGetAnalytics_AggregatesAndComputesRate(t *testing.T) {
	twitter, _ := setupHandlers(t)
	twitter.analytics = social.Analytics{
		Platform: social.Twitter,
		Metrics: map[social.MetricType]int{
			social.MetricImpressions: 1000,
			social.MetricEngagement:  50,
		},
	}

	result, err := handleGetAnalytics(context.Background(), makeRequest(t, ToolGetAnalytics, map[string]any{
		"platforms": []string{"twitter"},
	}))
	if err != nil {
		t.Fatalf("handleGetAnalytics returned error: %v", err)
	}

	var response AnalyticsResponse
	decodeResult(t, result, &response)

	if response.Totals[social.MetricImpressions] != 1000 {
		t.Errorf("Total impressions = %d, want 1000", response.Totals[social.MetricImpressions])
	}
	if response.EngagementRate != 0.05 {
		t.Errorf("EngagementRate = %v, want 0.05", response.EngagementRate)
	}
}

func TestGetAnalytics_ZeroImpressionsZeroRate(t *testing.T) {
	twitter, _ := setupHandlers(t)
	twitter.analytics = social.Analytics{
		Platform: social.Twitter,
		Metrics:  map[social.MetricType]int{},
	}

	result, err := handleGetAnalytics(context.Background(), makeRequest(t, ToolGetAnalytics, map[string]any{}))
	if err != nil {
		t.Fatalf("handleGetAnalytics returned error: %v", err)
	}

	var response AnalyticsResponse
	decodeResult(t, result, &response)
	if response.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0 without impressions", response.EngagementRate)
	}
}

func TestGetAnalytics_InvalidDateRange(t *testing.T) {
	setupHandlers(t)

	result, err := handleGetAnalytics(context.Background(), makeRequest(t, ToolGetAnalytics, map[string]any{
		"date_range": map[string]string{"start_date": "june 1st", "end_date": "2025-06-30"},
	}))
	if err != nil {
		t.Fatalf("handleGetAnalytics returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Bad start_date should produce an error result")
	}
}

func TestSchedulePosts_SpacesEntries(t *testing.T) {
	_, root := setupHandlers(t)

	result, err := handleSchedulePosts(context.Background(), makeRequest(t, ToolSchedulePosts, map[string]any{
		"posts": []map[string]any{
			{"content": "first post", "platforms": []string{"twitter"}},
			{"content": "second post", "platforms": []string{"twitter"}},
			{"content": "third post", "platforms": []string{"twitter"}},
		},
		"optimize_spacing": true,
		"spacing_strategy": "even_spacing",
	}))
	if err != nil {
		t.Fatalf("handleSchedulePosts returned error: %v", err)
	}

	var response SchedulePostsResponse
	decodeResult(t, result, &response)

	if response.ScheduledCount != 3 {
		t.Errorf("ScheduledCount = %d, want 3", response.ScheduledCount)
	}

	entries, err := calendar.ReadAll(root)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Calendar has %d entries, want 3", len(entries))
	}

	// Even spacing divides the 9:00-20:00 window; with the 08:00 clock the
	// three posts land at 9, 12, and 16 the same day. The 4h fallback would
	// put the first at 08:00, so exact slots matter here.
	wantTimes := []time.Time{
		time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC),
	}
	for i, entry := range entries {
		if !entry.ScheduledTime.Equal(wantTimes[i]) {
			t.Errorf("entries[%d].ScheduledTime = %v, want %v", i, entry.ScheduledTime, wantTimes[i])
		}
	}
}

func TestSchedulePosts_ExplicitScheduleHonored(t *testing.T) {
	_, root := setupHandlers(t)

	result, err := handleSchedulePosts(context.Background(), makeRequest(t, ToolSchedulePosts, map[string]any{
		"posts": []map[string]any{
			{"content": "pinned time", "platforms": []string{"twitter"}, "schedule": "2025-06-20T10:00:00Z"},
		},
	}))
	if err != nil {
		t.Fatalf("handleSchedulePosts returned error: %v", err)
	}

	var response SchedulePostsResponse
	decodeResult(t, result, &response)

	entries, err := calendar.ReadAll(root)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	want := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	if !entries[0].ScheduledTime.Equal(want) {
		t.Errorf("ScheduledTime = %v, want %v", entries[0].ScheduledTime, want)
	}
}

func TestSchedulePosts_EmptyList(t *testing.T) {
	setupHandlers(t)

	result, err := handleSchedulePosts(context.Background(), makeRequest(t, ToolSchedulePosts, map[string]any{
		"posts": []map[string]any{},
	}))
	if err != nil {
		t.Fatalf("handleSchedulePosts returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Empty post list should produce an error result")
	}
}

func TestGenerateHashtags_ScoredAndCapped(t *testing.T) {
	setupHandlers(t)

	result, err := handleGenerateHashtags(context.Background(), makeRequest(t, ToolGenerateHashtags, map[string]any{
		"content":  "Observability matters. #monitoring improves observability outcomes",
		"platform": "twitter",
	}))
	if err != nil {
		t.Fatalf("handleGenerateHashtags returned error: %v", err)
	}

	var response HashtagsResponse
	decodeResult(t, result, &response)

	if len(response.Hashtags) == 0 {
		t.Fatal("Expected hashtag suggestions")
	}
	if len(response.Hashtags) > 3 {
		t.Errorf("Twitter suggestions = %d, want <= 3", len(response.Hashtags))
	}
	for _, score := range response.Hashtags {
		if score.Relevance <= 0 || score.Relevance > 1 {
			t.Errorf("Relevance %v out of (0, 1]", score.Relevance)
		}
	}
}

func TestGenerateHashtags_MarksTrending(t *testing.T) {
	twitter, _ := setupHandlers(t)
	twitter.trends = []social.TrendingTopic{
		{Topic: "monitoring", Hashtag: "#monitoring", Platform: social.Twitter},
	}

	result, err := handleGenerateHashtags(context.Background(), makeRequest(t, ToolGenerateHashtags, map[string]any{
		"content":          "all about #monitoring today",
		"platform":         "twitter",
		"include_trending": true,
	}))
	if err != nil {
		t.Fatalf("handleGenerateHashtags returned error: %v", err)
	}

	var response HashtagsResponse
	decodeResult(t, result, &response)

	found := false
	for _, score := range response.Hashtags {
		if score.Hashtag == "monitoring" && score.Trending {
			found = true
		}
	}
	if !found {
		t.Errorf("monitoring should be flagged trending: %+v", response.Hashtags)
	}
}

func TestGenerateHashtags_UnknownPlatform(t *testing.T) {
	setupHandlers(t)

	result, err := handleGenerateHashtags(context.Background(), makeRequest(t, ToolGenerateHashtags, map[string]any{
		"content":  "hello",
		"platform": "friendster",
	}))
	if err != nil {
		t.Fatalf("handleGenerateHashtags returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Unknown platform should produce an error result")
	}
}

func TestGetTrending_ReturnsTopicsPerPlatform(t *testing.T) {
	twitter, _ := setupHandlers(t)
	twitter.trends = []social.TrendingTopic{
		{Topic: "golang", Hashtag: "#golang", Volume: 12000, Platform: social.Twitter},
	}

	result, err := handleGetTrending(context.Background(), makeRequest(t, ToolGetTrending, map[string]any{
		"platforms": []string{"twitter"},
	}))
	if err != nil {
		t.Fatalf("handleGetTrending returned error: %v", err)
	}

	var response TrendingResponse
	decodeResult(t, result, &response)

	topics := response.Topics[social.Twitter]
	if len(topics) != 1 || topics[0].Topic != "golang" {
		t.Errorf("Topics = %+v, want golang", topics)
	}
	if response.FetchedAt == "" {
		t.Error("FetchedAt should be set")
	}
}

func TestManageCalendar_ViewTruncatesPreview(t *testing.T) {
	_, root := setupHandlers(t)

	longText := strings.Repeat("a", 150)
	entry := calendar.Entry{
		ID:            "view0001",
		Post:          social.Post{Text: longText},
		Platform:      social.Twitter,
		ScheduledTime: testClock.Add(time.Hour),
		Status:        calendar.StatusPending,
		CreatedAt:     testClock,
	}
	if err := calendar.Append(root, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	result, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action": "view",
	}))
	if err != nil {
		t.Fatalf("handleManageCalendar returned error: %v", err)
	}

	var response CalendarViewResponse
	decodeResult(t, result, &response)

	if response.Count != 1 {
		t.Fatalf("Count = %d, want 1", response.Count)
	}
	preview := response.Entries[0].ContentPreview
	if len(preview) != previewLength+3 || !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview length = %d, want %d plus ellipsis", len(preview), previewLength+3)
	}
}

func TestManageCalendar_ViewPreviewKeepsRunesIntact(t *testing.T) {
	_, root := setupHandlers(t)

	// 150 three-byte runes; a byte-index cut would split one mid-sequence
	longText := strings.Repeat("日", 150)
	entry := calendar.Entry{
		ID:            "view0002",
		Post:          social.Post{Text: longText},
		Platform:      social.Twitter,
		ScheduledTime: testClock.Add(time.Hour),
		Status:        calendar.StatusPending,
		CreatedAt:     testClock,
	}
	if err := calendar.Append(root, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	result, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action": "view",
	}))
	if err != nil {
		t.Fatalf("handleManageCalendar returned error: %v", err)
	}

	var response CalendarViewResponse
	decodeResult(t, result, &response)

	if response.Count != 1 {
		t.Fatalf("Count = %d, want 1", response.Count)
	}
	preview := response.Entries[0].ContentPreview
	if !utf8.ValidString(preview) {
		t.Errorf("Preview is not valid UTF-8: %q", preview)
	}
	if got := utf8.RuneCountInString(preview); got != previewLength+3 {
		t.Errorf("Preview rune count = %d, want %d plus ellipsis", got, previewLength+3)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview = %q, want ellipsis suffix", preview)
	}
}

func TestManageCalendar_ViewFiltersDateRange(t *testing.T) {
	_, root := setupHandlers(t)

	inRange := calendar.Entry{
		ID: "inrange1", Post: social.Post{Text: "in"}, Platform: social.Twitter,
		ScheduledTime: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:        calendar.StatusPending, CreatedAt: testClock,
	}
	outRange := calendar.Entry{
		ID: "outrang1", Post: social.Post{Text: "out"}, Platform: social.Twitter,
		ScheduledTime: time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC),
		Status:        calendar.StatusPending, CreatedAt: testClock,
	}
	for _, entry := range []calendar.Entry{inRange, outRange} {
		if err := calendar.Append(root, entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	result, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action":     "view",
		"date_range": map[string]string{"start_date": "2025-06-01", "end_date": "2025-06-30"},
	}))
	if err != nil {
		t.Fatalf("handleManageCalendar returned error: %v", err)
	}

	var response CalendarViewResponse
	decodeResult(t, result, &response)
	if response.Count != 1 || response.Entries[0].ID != "inrange1" {
		t.Errorf("Response = %+v, want only inrange1", response)
	}
}

func TestManageCalendar_Reschedule(t *testing.T) {
	_, root := setupHandlers(t)

	entry := calendar.Entry{
		ID: "resched1", Post: social.Post{Text: "move me"}, Platform: social.Twitter,
		ScheduledTime: testClock.Add(time.Hour),
		Status:        calendar.StatusFailed, LastError: "boom", CreatedAt: testClock,
	}
	if err := calendar.Append(root, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	result, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action":   "reschedule",
		"post_ids": []string{"resched1"},
		"new_time": "2025-06-12T09:00:00Z",
	}))
	if err != nil {
		t.Fatalf("handleManageCalendar returned error: %v", err)
	}

	var response CalendarActionResponse
	decodeResult(t, result, &response)
	if len(response.Affected) != 1 {
		t.Fatalf("Affected = %v, want one entry", response.Affected)
	}

	entries, err := calendar.ReadAll(root)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if entries[0].Status != calendar.StatusPending || entries[0].LastError != "" {
		t.Errorf("Reschedule should reset to pending and clear error: %+v", entries[0])
	}
}

func TestManageCalendar_CancelAndDelete(t *testing.T) {
	_, root := setupHandlers(t)

	for _, id := range []string{"cancel01", "delete01"} {
		entry := calendar.Entry{
			ID: id, Post: social.Post{Text: id}, Platform: social.Twitter,
			ScheduledTime: testClock.Add(time.Hour),
			Status:        calendar.StatusPending, CreatedAt: testClock,
		}
		if err := calendar.Append(root, entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if _, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action":   "cancel",
		"post_ids": []string{"cancel01"},
	})); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action":   "delete",
		"post_ids": []string{"delete01"},
	})); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	entries, err := calendar.ReadAll(root)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Calendar has %d entries after delete, want 1", len(entries))
	}
	if entries[0].ID != "cancel01" || entries[0].Status != calendar.StatusCancelled {
		t.Errorf("Entry = %+v, want cancelled cancel01", entries[0])
	}
}

func TestManageCalendar_UnknownEntry(t *testing.T) {
	setupHandlers(t)

	result, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action":   "delete",
		"post_ids": []string{"missing1"},
	}))
	if err != nil {
		t.Fatalf("handleManageCalendar returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Deleting a missing entry should produce an error result")
	}
}

func TestManageCalendar_UnknownAction(t *testing.T) {
	setupHandlers(t)

	result, err := handleManageCalendar(context.Background(), makeRequest(t, ToolManageCalendar, map[string]any{
		"action": "archive",
	}))
	if err != nil {
		t.Fatalf("handleManageCalendar returned error: %v", err)
	}
	if got := errorText(t, result); !strings.Contains(got, "unknown action") {
		t.Errorf("Error = %q, want unknown action", got)
	}
}

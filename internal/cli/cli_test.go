package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	"socialmcp/internal/calendar"
	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// fakeClient is a platform.Client test double that records posts and
// returns canned analytics and trending data.
type fakeClient struct {
	mu       sync.Mutex
	platform social.Platform
	posts    []social.Post

	failPost  bool
	analytics social.Analytics
	trends    []social.TrendingTopic
	trendErr  error
}

func (f *fakeClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, post)

	if f.failPost {
		return social.PostResult{
			Success:   false,
			Platform:  f.platform,
			Error:     "rate limited",
			Timestamp: time.Now().UTC(),
		}
	}
	return social.PostResult{
		Success:   true,
		Platform:  f.platform,
		PostID:    "fake-123",
		URL:       "https://example.com/fake-123",
		Timestamp: time.Now().UTC(),
	}
}

func (f *fakeClient) GetAnalytics(ctx context.Context, q platform.AnalyticsQuery) (social.Analytics, error) {
	return f.analytics, nil
}

func (f *fakeClient) GetTrending(ctx context.Context, q platform.TrendQuery) ([]social.TrendingTopic, error) {
	if f.trendErr != nil {
		return nil, f.trendErr
	}
	return f.trends, nil
}

func (f *fakeClient) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

// newTestRegistry builds a registry with a fakeClient on the given platform.
func newTestRegistry(p social.Platform) (*platform.Registry, *fakeClient) {
	client := &fakeClient{platform: p}
	registry := platform.NewRegistry()
	registry.Register(p, client)
	return registry, client
}

// newEmptyRegistry builds a registry with no configured clients.
func newEmptyRegistry() *platform.Registry {
	return platform.NewRegistry()
}

// addEntry writes a calendar entry into the state root.
func addEntry(t *testing.T, stateRoot, id string, p social.Platform, text string, when time.Time) {
	t.Helper()
	entry := calendar.Entry{
		ID:            id,
		Post:          social.Post{ID: social.NewPostID(), Text: text},
		Platform:      p,
		ScheduledTime: when,
		Status:        calendar.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := calendar.Append(stateRoot, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
}

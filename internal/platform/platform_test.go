package platform

import (
	"context"
	"testing"
	"time"

	"socialmcp/internal/social"
)

// stubClient is a Client returning canned results, for registry tests.
type stubClient struct {
	result    social.PostResult
	analytics social.Analytics
	trends    []social.TrendingTopic
	delay     time.Duration
}

func (s *stubClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.result
}

func (s *stubClient) GetAnalytics(ctx context.Context, q AnalyticsQuery) (social.Analytics, error) {
	return s.analytics, nil
}

func (s *stubClient) GetTrending(ctx context.Context, q TrendQuery) ([]social.TrendingTopic, error) {
	return s.trends, nil
}

func TestRegistry_Configured_StableOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(social.Facebook, &stubClient{})
	r.Register(social.Twitter, &stubClient{})

	got := r.Configured()
	if len(got) != 2 {
		t.Fatalf("Expected 2 configured platforms, got %d", len(got))
	}
	if got[0] != social.Twitter || got[1] != social.Facebook {
		t.Errorf("Configured order = %v, want [twitter facebook]", got)
	}
}

func TestRegistry_Client_Unconfigured(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Client(social.Twitter); ok {
		t.Error("Client should report unconfigured platform")
	}
}

func TestPublish_ResultsInRequestOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(social.Twitter, &stubClient{
		result: social.PostResult{Success: true, Platform: social.Twitter, PostID: "t1"},
		delay:  20 * time.Millisecond, // Slower client must not reorder results
	})
	r.Register(social.LinkedIn, &stubClient{
		result: social.PostResult{Success: true, Platform: social.LinkedIn, PostID: "l1"},
	})

	results := r.Publish(context.Background(), social.Post{Text: "hi"},
		[]social.Platform{social.Twitter, social.LinkedIn})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Platform != social.Twitter || results[1].Platform != social.LinkedIn {
		t.Errorf("Results out of request order: %v", results)
	}
	if !results[0].Success || !results[1].Success {
		t.Error("Expected both publishes to succeed")
	}
}

func TestPublish_UnconfiguredPlatformFails(t *testing.T) {
	r := NewRegistry()
	r.Register(social.Twitter, &stubClient{
		result: social.PostResult{Success: true, Platform: social.Twitter},
	})

	results := r.Publish(context.Background(), social.Post{Text: "hi"},
		[]social.Platform{social.Twitter, social.Instagram})

	if !results[0].Success {
		t.Error("Configured platform should succeed")
	}
	if results[1].Success {
		t.Error("Unconfigured platform should fail")
	}
	if results[1].Error != ErrNotConfigured.Error() {
		t.Errorf("Error = %q, want %q", results[1].Error, ErrNotConfigured.Error())
	}
	if results[1].Platform != social.Instagram {
		t.Errorf("Failed result platform = %s, want instagram", results[1].Platform)
	}
}

func TestFromEnv_AllCredentials(t *testing.T) {
	env := map[string]string{
		EnvTwitterAPIKey:       "k",
		EnvTwitterAPISecret:    "s",
		EnvTwitterAccessToken:  "t",
		EnvTwitterAccessSecret: "ts",
		EnvLinkedInAccessToken: "lt",
		EnvInstagramToken:      "it",
		EnvInstagramBusinessID: "big",
		EnvFacebookToken:       "ft",
		EnvFacebookPageID:      "pid",
	}
	r := FromEnv(func(key string) string { return env[key] })

	configured := r.Configured()
	if len(configured) != 4 {
		t.Errorf("Expected all 4 platforms configured, got %v", configured)
	}
}

func TestFromEnv_PartialTwitterCredentialsSkipped(t *testing.T) {
	env := map[string]string{
		EnvTwitterAPIKey:    "k",
		EnvTwitterAPISecret: "s",
		// Access token pair missing
		EnvLinkedInAccessToken: "lt",
	}
	r := FromEnv(func(key string) string { return env[key] })

	if _, ok := r.Client(social.Twitter); ok {
		t.Error("Twitter should not be configured with partial credentials")
	}
	if _, ok := r.Client(social.LinkedIn); !ok {
		t.Error("LinkedIn should be configured")
	}
}

func TestFromEnv_Empty(t *testing.T) {
	r := FromEnv(func(string) string { return "" })
	if len(r.Configured()) != 0 {
		t.Errorf("Expected no configured platforms, got %v", r.Configured())
	}
}

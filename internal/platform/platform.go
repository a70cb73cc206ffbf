// Package platform adapts the uniform posting, analytics, and trending
// operations onto each social network's API. One client per platform; a
// Registry holds the configured clients and fans posts out to them.
package platform

import (
	"context"
	"errors"
	"time"

	"socialmcp/internal/social"

	"golang.org/x/sync/errgroup"
)

// ErrNotConfigured is returned when a platform has no configured client.
var ErrNotConfigured = errors.New("platform not configured")

// AnalyticsQuery selects which metrics to fetch.
type AnalyticsQuery struct {
	MetricType social.MetricType // Primary metric of interest
	DateRange  *social.DateRange // Optional time bounds
	PostIDs    []string          // Specific posts; empty means account-level
}

// TrendQuery filters trending topic lookups.
type TrendQuery struct {
	Category string // Industry or category filter
	Location string // Geographic location
}

// Client is the adapter interface each platform implements.
// CreatePost reports failures inside the PostResult rather than as an
// error, so a multi-platform publish can report partial success.
type Client interface {
	CreatePost(ctx context.Context, post social.Post) social.PostResult
	GetAnalytics(ctx context.Context, q AnalyticsQuery) (social.Analytics, error)
	GetTrending(ctx context.Context, q TrendQuery) ([]social.TrendingTopic, error)
}

// Registry maps platforms to their configured clients.
type Registry struct {
	clients map[social.Platform]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[social.Platform]Client)}
}

// Register adds or replaces the client for a platform.
func (r *Registry) Register(p social.Platform, c Client) {
	r.clients[p] = c
}

// Client returns the client for a platform, if configured.
func (r *Registry) Client(p social.Platform) (Client, bool) {
	c, ok := r.clients[p]
	return c, ok
}

// Configured returns the configured platforms in stable order.
func (r *Registry) Configured() []social.Platform {
	var out []social.Platform
	for _, p := range social.AllPlatforms {
		if _, ok := r.clients[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// failedResult builds a PostResult describing a publish failure.
func failedResult(p social.Platform, msg string) social.PostResult {
	return social.PostResult{
		Success:   false,
		Platform:  p,
		Error:     msg,
		Timestamp: time.Now().UTC(),
	}
}

// Publish posts to every requested platform concurrently and returns one
// result per platform, in request order. Unconfigured platforms yield a
// failed result rather than aborting the others.
func (r *Registry) Publish(ctx context.Context, post social.Post, platforms []social.Platform) []social.PostResult {
	results := make([]social.PostResult, len(platforms))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range platforms {
		i, p := i, p
		client, ok := r.clients[p]
		if !ok {
			results[i] = failedResult(p, ErrNotConfigured.Error())
			continue
		}
		g.Go(func() error {
			results[i] = client.CreatePost(gctx, post)
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	return results
}

// Environment variable names for platform credentials.
const (
	EnvTwitterAPIKey       = "TWITTER_API_KEY"
	EnvTwitterAPISecret    = "TWITTER_API_SECRET"
	EnvTwitterAccessToken  = "TWITTER_ACCESS_TOKEN"
	EnvTwitterAccessSecret = "TWITTER_ACCESS_SECRET"
	EnvLinkedInAccessToken = "LINKEDIN_ACCESS_TOKEN"
	EnvInstagramToken      = "INSTAGRAM_ACCESS_TOKEN"
	EnvInstagramBusinessID = "INSTAGRAM_BUSINESS_ID"
	EnvFacebookToken       = "FACEBOOK_ACCESS_TOKEN"
	EnvFacebookPageID      = "FACEBOOK_PAGE_ID"
)

// FromEnv builds a registry holding a client for every platform whose
// credentials are fully present. lookup resolves credential names;
// pass os.Getenv (or a config-backed lookup) in production.
func FromEnv(lookup func(string) string) *Registry {
	r := NewRegistry()

	apiKey := lookup(EnvTwitterAPIKey)
	apiSecret := lookup(EnvTwitterAPISecret)
	accessToken := lookup(EnvTwitterAccessToken)
	accessSecret := lookup(EnvTwitterAccessSecret)
	if apiKey != "" && apiSecret != "" && accessToken != "" && accessSecret != "" {
		r.Register(social.Twitter, NewTwitterClient(apiKey, apiSecret, accessToken, accessSecret))
	}

	if token := lookup(EnvLinkedInAccessToken); token != "" {
		r.Register(social.LinkedIn, NewLinkedInClient(token))
	}

	if token := lookup(EnvInstagramToken); token != "" {
		r.Register(social.Instagram, NewInstagramClient(token, lookup(EnvInstagramBusinessID)))
	}

	if token := lookup(EnvFacebookToken); token != "" {
		r.Register(social.Facebook, NewFacebookClient(token, lookup(EnvFacebookPageID)))
	}

	return r
}

// Package social defines the domain model shared by the MCP server, the
// CLI, and the scheduler: posts, per-platform results, analytics, and the
// content helpers (validation, hashtags, posting-time tables) that operate
// on them.
package social

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Platform identifies a supported social network.
type Platform string

// Supported platforms.
const (
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
)

// AllPlatforms lists every supported platform in stable order.
var AllPlatforms = []Platform{Twitter, LinkedIn, Instagram, Facebook}

// Known reports whether p is a supported platform.
func Known(p Platform) bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// MediaType identifies the kind of a media asset.
type MediaType string

// Supported media types.
const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MetricType identifies an analytics metric.
type MetricType string

// Analytics metric names shared across platforms.
const (
	MetricImpressions MetricType = "impressions"
	MetricEngagement  MetricType = "engagement"
	MetricReach       MetricType = "reach"
	MetricClicks      MetricType = "clicks"
	MetricConversions MetricType = "conversions"
	MetricShares      MetricType = "shares"
	MetricLikes       MetricType = "likes"
	MetricComments    MetricType = "comments"
)

// MediaAsset represents one attachment of a post.
type MediaAsset struct {
	Type    MediaType `json:"type"`
	Path    string    `json:"path"`               // Local path or publicly reachable URL
	AltText string    `json:"alt_text,omitempty"` // Accessibility description
}

// Post represents a social media post targeted at one or more platforms.
type Post struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Media         []MediaAsset `json:"media,omitempty"`
	Hashtags      []string     `json:"hashtags,omitempty"`
	Mentions      []string     `json:"mentions,omitempty"`
	Platforms     []Platform   `json:"platforms,omitempty"`
	ScheduledTime *time.Time   `json:"scheduled_time,omitempty"`
}

// PostResult is the outcome of publishing a post to one platform.
// Failures are carried in the result rather than as an error so that a
// multi-platform publish can report partial success.
type PostResult struct {
	Success   bool      `json:"success"`
	Platform  Platform  `json:"platform"`
	PostID    string    `json:"post_id,omitempty"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Analytics holds metric values for a platform over an optional date range.
type Analytics struct {
	Platform  Platform           `json:"platform"`
	Metrics   map[MetricType]int `json:"metrics"`
	DateRange *DateRange         `json:"date_range,omitempty"`
	PostIDs   []string           `json:"post_ids,omitempty"`
}

// DateRange bounds a query in time. Both ends are inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// TrendingTopic is a trending topic or hashtag reported by a platform.
type TrendingTopic struct {
	Topic    string   `json:"topic"`
	Hashtag  string   `json:"hashtag,omitempty"`
	Volume   int      `json:"volume,omitempty"`
	Platform Platform `json:"platform"`
	Location string   `json:"location,omitempty"`
}

// HashtagScore is a hashtag with a relevance score in [0, 1].
type HashtagScore struct {
	Hashtag     string  `json:"hashtag"`
	Relevance   float64 `json:"relevance_score"`
	Competition string  `json:"competition_level"` // low, medium, high
	Trending    bool    `json:"trending"`
}

// NewPostID returns a fresh unique post identifier.
func NewPostID() string {
	return uuid.NewString()
}

// base62 character set for calendar entry ID generation.
const base62Chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateEntryID creates a unique 8-character base62 identifier, short
// enough to be typed in calendar CLI commands.
func GenerateEntryID() (string, error) {
	const idLength = 8
	result := make([]byte, idLength)
	charsetLen := big.NewInt(int64(len(base62Chars)))

	for i := 0; i < idLength; i++ {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		result[i] = base62Chars[num.Int64()]
	}

	return string(result), nil
}

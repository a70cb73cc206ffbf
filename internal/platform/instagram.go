package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"socialmcp/internal/social"
)

// defaultGraphBase is the Meta Graph API root shared by Instagram and
// Facebook.
const defaultGraphBase = "https://graph.facebook.com/v18.0"

// InstagramClient publishes posts through the Instagram Graph API using a
// business account.
type InstagramClient struct {
	accessToken       string
	businessAccountID string
	baseURL           string
	httpClient        *http.Client
}

// NewInstagramClient creates an Instagram client for a business account.
func NewInstagramClient(accessToken, businessAccountID string) *InstagramClient {
	return &InstagramClient{
		accessToken:       accessToken,
		businessAccountID: businessAccountID,
		baseURL:           defaultGraphBase,
		httpClient:        http.DefaultClient,
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *InstagramClient) SetBaseURL(base string) {
	c.baseURL = base
}

// postForm performs a form POST and decodes the JSON response into out.
func (c *InstagramClient) postForm(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("instagram API error: %s", readErrorBody(resp))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreatePost publishes an image post via the container/publish flow.
// Instagram requires media; the image must be a publicly reachable URL.
func (c *InstagramClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	if len(post.Media) == 0 {
		return failedResult(social.Instagram, "instagram posts require at least one image or video")
	}

	media := post.Media[0] // Single-media posts only; carousels need a different flow
	if media.Type != social.MediaImage {
		return failedResult(social.Instagram, "instagram video publishing is not supported")
	}

	caption := social.ComposeText(post.Text, post.Hashtags, post.Mentions, social.Instagram)

	// Step 1: create the media container.
	containerParams := url.Values{
		"image_url":    {media.Path},
		"caption":      {caption},
		"access_token": {c.accessToken},
	}
	var container struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/media", c.baseURL, c.businessAccountID)
	if err := c.postForm(ctx, endpoint, containerParams, &container); err != nil {
		return failedResult(social.Instagram, err.Error())
	}

	// Step 2: publish the container.
	publishParams := url.Values{
		"creation_id":  {container.ID},
		"access_token": {c.accessToken},
	}
	var published struct {
		ID string `json:"id"`
	}
	endpoint = fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.businessAccountID)
	if err := c.postForm(ctx, endpoint, publishParams, &published); err != nil {
		return failedResult(social.Instagram, err.Error())
	}

	return social.PostResult{
		Success:   true,
		Platform:  social.Instagram,
		PostID:    published.ID,
		URL:       fmt.Sprintf("https://www.instagram.com/p/%s", published.ID),
		Timestamp: time.Now().UTC(),
	}
}

// GetAnalytics reads per-post insights (impressions, reach, engagement).
func (c *InstagramClient) GetAnalytics(ctx context.Context, q AnalyticsQuery) (social.Analytics, error) {
	metrics := map[social.MetricType]int{}

	for _, id := range q.PostIDs {
		endpoint := fmt.Sprintf("%s/%s/insights?metric=impressions,reach,engagement&access_token=%s",
			c.baseURL, id, url.QueryEscape(c.accessToken))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return social.Analytics{}, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return social.Analytics{}, err
		}

		if resp.StatusCode == http.StatusOK {
			var insights struct {
				Data []struct {
					Name   string `json:"name"`
					Values []struct {
						Value int `json:"value"`
					} `json:"values"`
				} `json:"data"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&insights); err != nil {
				_ = resp.Body.Close()
				return social.Analytics{}, err
			}
			for _, insight := range insights.Data {
				if len(insight.Values) == 0 {
					continue
				}
				value := insight.Values[0].Value
				switch insight.Name {
				case "impressions":
					metrics[social.MetricImpressions] += value
				case "reach":
					metrics[social.MetricReach] += value
				case "engagement":
					metrics[social.MetricEngagement] += value
				}
			}
		}
		_ = resp.Body.Close()
	}

	return social.Analytics{
		Platform:  social.Instagram,
		Metrics:   metrics,
		DateRange: q.DateRange,
		PostIDs:   q.PostIDs,
	}, nil
}

// GetTrending returns no topics; Instagram exposes no trending hashtag API.
func (c *InstagramClient) GetTrending(ctx context.Context, q TrendQuery) ([]social.TrendingTopic, error) {
	return nil, nil
}

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

// FacebookClient publishes page posts through the Facebook Graph API.
type FacebookClient struct {
	accessToken string
	pageID      string
	baseURL     string
	httpClient  *http.Client
}

// NewFacebookClient creates a Facebook client for a page.
func NewFacebookClient(accessToken, pageID string) *FacebookClient {
	return &FacebookClient{
		accessToken: accessToken,
		pageID:      pageID,
		baseURL:     defaultGraphBase,
		httpClient:  http.DefaultClient,
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *FacebookClient) SetBaseURL(base string) {
	c.baseURL = base
}

// CreatePost publishes to the page feed, or to /photos and /videos when
// media is attached.
func (c *FacebookClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	message := social.ComposeText(post.Text, post.Hashtags, post.Mentions, social.Facebook)

	params := url.Values{
		"message":      {message},
		"access_token": {c.accessToken},
	}

	endpoint := fmt.Sprintf("%s/%s/feed", c.baseURL, c.pageID)
	if len(post.Media) > 0 {
		media := post.Media[0]
		switch media.Type {
		case social.MediaImage:
			endpoint = fmt.Sprintf("%s/%s/photos", c.baseURL, c.pageID)
			params.Set("url", media.Path) // Must be publicly reachable
		case social.MediaVideo:
			endpoint = fmt.Sprintf("%s/%s/videos", c.baseURL, c.pageID)
			params.Set("file_url", media.Path)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return failedResult(social.Facebook, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failedResult(social.Facebook, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failedResult(social.Facebook, fmt.Sprintf("facebook API error: %s", readErrorBody(resp)))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return failedResult(social.Facebook, err.Error())
	}

	return social.PostResult{
		Success:   true,
		Platform:  social.Facebook,
		PostID:    created.ID,
		URL:       fmt.Sprintf("https://www.facebook.com/%s", created.ID),
		Timestamp: time.Now().UTC(),
	}
}

// GetAnalytics reads per-post insights (impressions, engaged users, clicks).
func (c *FacebookClient) GetAnalytics(ctx context.Context, q AnalyticsQuery) (social.Analytics, error) {
	metrics := map[social.MetricType]int{}

	for _, id := range q.PostIDs {
		endpoint := fmt.Sprintf("%s/%s/insights?metric=post_impressions,post_engaged_users,post_clicks&access_token=%s",
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
				case "post_impressions":
					metrics[social.MetricImpressions] += value
				case "post_engaged_users":
					metrics[social.MetricEngagement] += value
				case "post_clicks":
					metrics[social.MetricClicks] += value
				}
			}
		}
		_ = resp.Body.Close()
	}

	return social.Analytics{
		Platform:  social.Facebook,
		Metrics:   metrics,
		DateRange: q.DateRange,
		PostIDs:   q.PostIDs,
	}, nil
}

// GetTrending returns no topics; Facebook retired its trending API.
func (c *FacebookClient) GetTrending(ctx context.Context, q TrendQuery) ([]social.TrendingTopic, error) {
	return nil, nil
}

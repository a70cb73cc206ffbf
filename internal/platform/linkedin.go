package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"socialmcp/internal/social"
)

// defaultLinkedInBase is the LinkedIn REST API root.
const defaultLinkedInBase = "https://api.linkedin.com/v2"

// LinkedInClient posts UGC shares through the LinkedIn v2 API using a
// member access token.
type LinkedInClient struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// NewLinkedInClient creates a LinkedIn client from an OAuth2 access token.
func NewLinkedInClient(accessToken string) *LinkedInClient {
	return &LinkedInClient{
		accessToken: accessToken,
		baseURL:     defaultLinkedInBase,
		httpClient:  http.DefaultClient,
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *LinkedInClient) SetBaseURL(base string) {
	c.baseURL = base
}

// doJSON performs an authenticated request with an optional JSON body.
func (c *LinkedInClient) doJSON(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

// authorURN fetches the member profile and returns the author URN for
// post creation.
func (c *LinkedInClient) authorURN(ctx context.Context) (string, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("linkedin profile lookup failed: %s", readErrorBody(resp))
	}

	var profile struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", err
	}
	return "urn:li:person:" + profile.ID, nil
}

// CreatePost publishes a UGC share.
func (c *LinkedInClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	author, err := c.authorURN(ctx)
	if err != nil {
		return failedResult(social.LinkedIn, err.Error())
	}

	text := social.ComposeText(post.Text, post.Hashtags, post.Mentions, social.LinkedIn)

	mediaCategory := "NONE"
	if len(post.Media) > 0 {
		// The full media upload flow needs a registered asset; shares
		// with media reference the category only.
		mediaCategory = "IMAGE"
	}

	body := map[string]any{
		"author":         author,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": mediaCategory,
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	resp, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/ugcPosts", body)
	if err != nil {
		return failedResult(social.LinkedIn, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return failedResult(social.LinkedIn, fmt.Sprintf("linkedin API error: %s", readErrorBody(resp)))
	}

	postID := resp.Header.Get("X-LinkedIn-Id")
	return social.PostResult{
		Success:   true,
		Platform:  social.LinkedIn,
		PostID:    postID,
		URL:       fmt.Sprintf("https://www.linkedin.com/feed/update/%s", postID),
		Timestamp: time.Now().UTC(),
	}
}

// GetAnalytics reads social action summaries for the requested posts.
func (c *LinkedInClient) GetAnalytics(ctx context.Context, q AnalyticsQuery) (social.Analytics, error) {
	metrics := map[social.MetricType]int{
		social.MetricImpressions: 0,
		social.MetricEngagement:  0,
		social.MetricClicks:      0,
	}

	for _, id := range q.PostIDs {
		resp, err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/socialActions/"+id, nil)
		if err != nil {
			return social.Analytics{}, err
		}

		if resp.StatusCode == http.StatusOK {
			var actions struct {
				LikesSummary struct {
					TotalLikes int `json:"totalLikes"`
				} `json:"likesSummary"`
				CommentsSummary struct {
					AggregatedTotalComments int `json:"aggregatedTotalComments"`
				} `json:"commentsSummary"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&actions); err != nil {
				_ = resp.Body.Close()
				return social.Analytics{}, err
			}
			metrics[social.MetricLikes] += actions.LikesSummary.TotalLikes
			metrics[social.MetricComments] += actions.CommentsSummary.AggregatedTotalComments
			metrics[social.MetricEngagement] += actions.LikesSummary.TotalLikes + actions.CommentsSummary.AggregatedTotalComments
		}
		_ = resp.Body.Close()
	}

	return social.Analytics{
		Platform:  social.LinkedIn,
		Metrics:   metrics,
		DateRange: q.DateRange,
		PostIDs:   q.PostIDs,
	}, nil
}

// GetTrending returns no topics; LinkedIn has no public trending API.
func (c *LinkedInClient) GetTrending(ctx context.Context, q TrendQuery) ([]social.TrendingTopic, error) {
	return nil, nil
}

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"socialmcp/internal/social"

	"github.com/dghubble/oauth1"
)

// Twitter API endpoints. Separate hosts because media upload still lives
// on the v1.1 upload domain while tweet creation is v2.
const (
	defaultTwitterAPIBase    = "https://api.twitter.com"
	defaultTwitterUploadBase = "https://upload.twitter.com"
)

// maxTrends caps the number of trends returned per lookup.
const maxTrends = 20

// TwitterClient posts tweets and reads metrics through the Twitter API,
// signing every request with OAuth 1.0a user context.
type TwitterClient struct {
	httpClient *http.Client
	apiBase    string
	uploadBase string
}

// NewTwitterClient creates a Twitter client from OAuth 1.0a credentials.
func NewTwitterClient(apiKey, apiSecret, accessToken, accessSecret string) *TwitterClient {
	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)

	return &TwitterClient{
		httpClient: config.Client(oauth1.NoContext, token),
		apiBase:    defaultTwitterAPIBase,
		uploadBase: defaultTwitterUploadBase,
	}
}

// SetBaseURLs overrides the API endpoints (for testing).
func (c *TwitterClient) SetBaseURLs(apiBase, uploadBase string) {
	c.apiBase = apiBase
	c.uploadBase = uploadBase
}

// SetHTTPClient overrides the signed HTTP client (for testing).
func (c *TwitterClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// uploadMedia uploads one media file via the v1.1 chunked-upload endpoint
// and returns the media ID to attach to a tweet.
func (c *TwitterClient) uploadMedia(ctx context.Context, asset social.MediaAsset) (string, error) {
	file, err := os.Open(asset.Path) // #nosec G304 - caller-supplied media path
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", filepath.Base(asset.Path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if asset.Type == social.MediaVideo {
		if err := writer.WriteField("media_category", "tweet_video"); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBase+"/1.1/media/upload.json", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("media upload failed: %s", readErrorBody(resp))
	}

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", err
	}
	return uploaded.MediaIDString, nil
}

// CreatePost publishes a tweet, uploading any attached media first.
func (c *TwitterClient) CreatePost(ctx context.Context, post social.Post) social.PostResult {
	text := social.ComposeText(post.Text, post.Hashtags, post.Mentions, social.Twitter)

	var mediaIDs []string
	for _, asset := range post.Media {
		id, err := c.uploadMedia(ctx, asset)
		if err != nil {
			return failedResult(social.Twitter, err.Error())
		}
		mediaIDs = append(mediaIDs, id)
	}

	tweet := map[string]any{"text": text}
	if len(mediaIDs) > 0 {
		tweet["media"] = map[string]any{"media_ids": mediaIDs}
	}

	payload, err := json.Marshal(tweet)
	if err != nil {
		return failedResult(social.Twitter, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return failedResult(social.Twitter, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failedResult(social.Twitter, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failedResult(social.Twitter, fmt.Sprintf("twitter API error: %s", readErrorBody(resp)))
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return failedResult(social.Twitter, err.Error())
	}

	return social.PostResult{
		Success:   true,
		Platform:  social.Twitter,
		PostID:    created.Data.ID,
		URL:       fmt.Sprintf("https://twitter.com/user/status/%s", created.Data.ID),
		Timestamp: time.Now().UTC(),
	}
}

// GetAnalytics sums public metrics across the requested tweets. Without
// post IDs only zero account-level metrics are available; the account
// analytics API needs elevated access.
func (c *TwitterClient) GetAnalytics(ctx context.Context, q AnalyticsQuery) (social.Analytics, error) {
	metrics := map[social.MetricType]int{}

	if len(q.PostIDs) == 0 {
		metrics[social.MetricImpressions] = 0
		metrics[social.MetricEngagement] = 0
		return social.Analytics{Platform: social.Twitter, Metrics: metrics, DateRange: q.DateRange}, nil
	}

	for _, id := range q.PostIDs {
		url := fmt.Sprintf("%s/2/tweets/%s?tweet.fields=public_metrics", c.apiBase, id)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return social.Analytics{}, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return social.Analytics{}, err
		}

		var tweet struct {
			Data struct {
				PublicMetrics struct {
					ImpressionCount int `json:"impression_count"`
					LikeCount       int `json:"like_count"`
					RetweetCount    int `json:"retweet_count"`
					ReplyCount      int `json:"reply_count"`
				} `json:"public_metrics"`
			} `json:"data"`
		}
		err = json.NewDecoder(resp.Body).Decode(&tweet)
		_ = resp.Body.Close()
		if err != nil {
			return social.Analytics{}, err
		}

		pm := tweet.Data.PublicMetrics
		metrics[social.MetricImpressions] += pm.ImpressionCount
		metrics[social.MetricLikes] += pm.LikeCount
		metrics[social.MetricShares] += pm.RetweetCount
		metrics[social.MetricComments] += pm.ReplyCount
	}

	return social.Analytics{
		Platform:  social.Twitter,
		Metrics:   metrics,
		DateRange: q.DateRange,
		PostIDs:   q.PostIDs,
	}, nil
}

// GetTrending fetches worldwide trends (WOEID 1) from the v1.1 trends API.
func (c *TwitterClient) GetTrending(ctx context.Context, q TrendQuery) ([]social.TrendingTopic, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/1.1/trends/place.json?id=1", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter trends failed: %s", readErrorBody(resp))
	}

	var places []struct {
		Trends []struct {
			Name        string `json:"name"`
			TweetVolume int    `json:"tweet_volume"`
		} `json:"trends"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}

	var topics []social.TrendingTopic
	for i, trend := range places[0].Trends {
		if i >= maxTrends {
			break
		}
		hashtag := trend.Name
		if hashtag != "" && hashtag[0] != '#' {
			hashtag = "#" + hashtag
		}
		topics = append(topics, social.TrendingTopic{
			Topic:    trend.Name,
			Hashtag:  hashtag,
			Volume:   trend.TweetVolume,
			Platform: social.Twitter,
			Location: q.Location,
		})
	}
	return topics, nil
}

// readErrorBody returns a short excerpt of an error response body.
func readErrorBody(resp *http.Response) string {
	const maxExcerpt = 512
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxExcerpt))
	if len(body) == 0 {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, body)
}

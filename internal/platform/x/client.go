package x

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/postguard/postguard/internal/moderation"
)

const (
	httpTimeout = 10 * time.Second
	maxRetries  = 3
	retryStep   = 300 * time.Millisecond
)

// Client talks to the X API v2 with app bearer auth. It implements
// the reply fetching and user blocking the scan loop needs.
type Client struct {
	baseURL     string
	bearerToken string
	botUserID   string
	httpClient  *http.Client
	logger      *log.Entry
}

func NewClient(baseURL, bearerToken, botUserID string) *Client {
	return &Client{
		baseURL:     baseURL,
		bearerToken: bearerToken,
		botUserID:   botUserID,
		httpClient:  &http.Client{Timeout: httpTimeout},
		logger:      log.WithField("object", "XClient"),
	}
}

type userMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
}

type user struct {
	ID            string      `json:"id"`
	Username      string      `json:"username"`
	Description   string      `json:"description"`
	CreatedAt     string      `json:"created_at"`
	PublicMetrics userMetrics `json:"public_metrics"`
}

type tweet struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

type searchResponse struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Users []user `json:"users"`
	} `json:"includes"`
}

// GetReplies fetches up to maxResults replies in a post's
// conversation, with author profiles expanded.
func (c *Client) GetReplies(ctx context.Context, postID string, maxResults int) ([]moderation.Reply, error) {
	query := url.Values{}
	query.Set("query", "conversation_id:"+postID)
	query.Set("expansions", "author_id")
	query.Set("user.fields", "username,description,created_at,public_metrics")
	query.Set("max_results", strconv.Itoa(maxResults))

	body, err := c.getWithRetry(ctx, c.baseURL+"/tweets/search/recent?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	authors := make(map[string]user, len(parsed.Includes.Users))
	for _, u := range parsed.Includes.Users {
		authors[u.ID] = u
	}

	replies := make([]moderation.Reply, 0, len(parsed.Data))
	for _, t := range parsed.Data {
		author := authors[t.AuthorID]
		replies = append(replies, moderation.Reply{
			ID:       t.ID,
			AuthorID: t.AuthorID,
			Text:     t.Text,
			Author: moderation.Author{
				ID:             t.AuthorID,
				Username:       author.Username,
				FollowersCount: author.PublicMetrics.FollowersCount,
				FollowingCount: author.PublicMetrics.FollowingCount,
				TweetCount:     author.PublicMetrics.TweetCount,
				Description:    author.Description,
				CreatedAt:      author.CreatedAt,
			},
		})
	}
	return replies, nil
}

// BlockUser blocks the target on behalf of the bot account. The
// boolean reports whether the platform confirmed the block.
func (c *Client) BlockUser(ctx context.Context, userID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/users/%s/blocking", c.baseURL, c.botUserID)
	return c.postAction(ctx, endpoint, userID, "blocking")
}

// MuteUser mutes the target, the fallback when blocking is denied.
func (c *Client) MuteUser(ctx context.Context, userID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/users/%s/muting", c.baseURL, c.botUserID)
	return c.postAction(ctx, endpoint, userID, "muting")
}

func (c *Client) postAction(ctx context.Context, endpoint, targetUserID, field string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"target_user_id": targetUserID})
	if err != nil {
		return false, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var parsed struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}
	return parsed.Data[field], nil
}

func (c *Client) getWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := range maxRetries {
		body, err := c.get(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == maxRetries-1 {
			break
		}

		backoff := time.Duration(attempt+1) * retryStep
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("fetch %s failed after retries: %w", endpoint, lastErr)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

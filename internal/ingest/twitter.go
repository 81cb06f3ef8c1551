package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/httputil"
	"github.com/wonny/tradex/pkg/logger"
	"github.com/wonny/tradex/pkg/redis"
)

// TwitterSource fetches recent posts from the X API v2. The free tier
// quota is tiny, so every request passes the shared Redis rate limit
// and resolved user ids are cached for a day.
type TwitterSource struct {
	http    *httputil.Client
	cache   *redis.Cache
	baseURL string
	log     *logger.Logger
}

// NewTwitterSource creates the X source from config.
func NewTwitterSource(cfg *config.Config, rc *redis.Client, log *logger.Logger) *TwitterSource {
	httpClient := httputil.NewWithTimeout(log, 15*time.Second).
		WithHeader("Authorization", "Bearer "+cfg.Twitter.BearerToken).
		WithRateLimiter(redis.NewRateLimiter(rc, "tradex"), redis.TwitterRateLimit)

	return &TwitterSource{
		http:    httpClient,
		cache:   redis.NewCache(rc, "tradex"),
		baseURL: cfg.Twitter.BaseURL,
		log:     log,
	}
}

func (s *TwitterSource) Name() string { return "twitter" }

type twitterUserResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type twitterTimelineResponse struct {
	Data []struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"data"`
}

// Fetch returns the account's newest tweets, newest first.
func (s *TwitterSource) Fetch(ctx context.Context, account string, limit int) ([]contracts.Post, error) {
	userID, err := s.resolveUserID(ctx, account)
	if err != nil {
		return nil, err
	}

	// X API requires 5 <= max_results <= 100
	maxResults := limit
	if maxResults < 5 {
		maxResults = 5
	}
	if maxResults > 100 {
		maxResults = 100
	}

	reqURL := fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=created_at&exclude=retweets,replies",
		s.baseURL, userID, maxResults)

	resp, err := s.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("twitter timeline request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter timeline returned %d for %s", resp.StatusCode, account)
	}

	var timeline twitterTimelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}

	now := time.Now().UTC()
	posts := make([]contracts.Post, 0, len(timeline.Data))
	for _, tw := range timeline.Data {
		if len(posts) >= limit {
			break
		}
		posts = append(posts, contracts.Post{
			SourceID:   "tw:" + tw.ID,
			Author:     account,
			Text:       tw.Text,
			CreatedAt:  tw.CreatedAt,
			IngestedAt: now,
		})
	}

	s.log.WithFields(map[string]interface{}{
		"source":  s.Name(),
		"account": account,
		"count":   len(posts),
	}).Debug("fetched posts")

	return posts, nil
}

// resolveUserID maps a handle to the numeric user id, caching the
// result since handles change rarely and the lookup burns quota.
func (s *TwitterSource) resolveUserID(ctx context.Context, account string) (string, error) {
	var cached string
	if hit, _ := s.cache.Get(ctx, redis.UserIDKey(account), &cached); hit {
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s/users/by/username/%s", s.baseURL, url.PathEscape(account))
	resp, err := s.http.Get(ctx, reqURL)
	if err != nil {
		return "", fmt.Errorf("twitter user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitter user lookup returned %d for %s", resp.StatusCode, account)
	}

	var user twitterUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to decode user lookup: %w", err)
	}
	if user.Data.ID == "" {
		return "", fmt.Errorf("twitter user not found: %s", account)
	}

	if err := s.cache.Set(ctx, redis.UserIDKey(account), user.Data.ID, redis.TTLUser); err != nil {
		s.log.WithError(err).Warn("failed to cache user id")
	}

	return user.Data.ID, nil
}

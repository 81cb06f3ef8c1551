package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/httputil"
	"github.com/wonny/tradex/pkg/logger"
)

// RedditSource reads an account's submissions from the public JSON
// listing. No auth, but Reddit throttles anonymous clients hard, so a
// local limiter keeps us under ~1 request per second.
type RedditSource struct {
	http    *httputil.Client
	limiter *rate.Limiter
	baseURL string
	log     *logger.Logger
}

// NewRedditSource creates the Reddit source from config.
func NewRedditSource(cfg *config.Config, log *logger.Logger) *RedditSource {
	httpClient := httputil.NewWithTimeout(log, 15*time.Second).
		WithHeader("User-Agent", cfg.Reddit.UserAgent)

	return &RedditSource{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL: cfg.Reddit.BaseURL,
		log:     log,
	}
}

func (s *RedditSource) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Author     string  `json:"author"`
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns the account's newest submissions, newest first.
func (s *RedditSource) Fetch(ctx context.Context, account string, limit int) ([]contracts.Post, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/user/%s/submitted.json?limit=%d&sort=new",
		s.baseURL, url.PathEscape(account), limit)

	resp, err := s.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("reddit listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit listing returned %d for %s", resp.StatusCode, account)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	now := time.Now().UTC()
	posts := make([]contracts.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data

		text := d.Title
		if d.SelfText != "" {
			text = strings.TrimSpace(d.Title + "\n" + d.SelfText)
		}
		if text == "" {
			continue
		}

		posts = append(posts, contracts.Post{
			SourceID:   "rd:" + d.ID,
			Author:     account,
			Text:       text,
			CreatedAt:  time.Unix(int64(d.CreatedUTC), 0).UTC(),
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

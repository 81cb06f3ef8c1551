package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/sentiment"
	"github.com/wonny/tradex/internal/store"
	"github.com/wonny/tradex/pkg/logger"
)

// SentimentHandler serves posts, scores and ad-hoc analysis.
type SentimentHandler struct {
	posts      *store.PostRepository
	sentiments *store.SentimentRepository
	scorer     *sentiment.Scorer
	log        *logger.Logger
}

// NewSentimentHandler creates a sentiment handler.
func NewSentimentHandler(posts *store.PostRepository, sentiments *store.SentimentRepository, scorer *sentiment.Scorer, log *logger.Logger) *SentimentHandler {
	return &SentimentHandler{posts: posts, sentiments: sentiments, scorer: scorer, log: log}
}

// ListPosts returns recent ingested posts.
// GET /api/posts?limit=
func (h *SentimentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 200)

	posts, err := h.posts.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list posts")
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(posts),
		"posts": posts,
	})
}

// ListResults returns recent sentiment results.
// GET /api/sentiments?limit=
func (h *SentimentHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 200)

	results, err := h.sentiments.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list sentiment results")
		writeError(w, http.StatusInternalServerError, "failed to list sentiment results")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze scores arbitrary text without persisting anything.
// POST /api/analyze
func (h *SentimentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := h.scorer.ScorePost(r.Context(), contracts.Post{
		SourceID:   "adhoc",
		Author:     "adhoc",
		Text:       req.Text,
		CreatedAt:  time.Now().UTC(),
		IngestedAt: time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, result)
}

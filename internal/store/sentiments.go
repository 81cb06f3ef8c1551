package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/tradex/internal/contracts"
)

// SentimentRepository handles sentiment result persistence.
type SentimentRepository struct {
	pool *pgxpool.Pool
}

// NewSentimentRepository creates a new sentiment repository
func NewSentimentRepository(pool *pgxpool.Pool) *SentimentRepository {
	return &SentimentRepository{pool: pool}
}

// Save persists a result and marks its post scored in one
// transaction, so the post is flagged only once the result row is
// durable. Results are immutable; a conflicting source_id means the
// post was already scored and the insert is a no-op.
func (r *SentimentRepository) Save(ctx context.Context, res *contracts.SentimentResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sentiment_results (
			post_id, source_id, author, lexicon_score, model_label,
			model_confidence, combined_score, combined_label,
			degraded, degraded_reason, scored_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (source_id) DO NOTHING
	`

	_, err = tx.Exec(ctx, query,
		res.PostID, res.SourceID, res.Author, res.LexiconScore, res.ModelLabel,
		res.ModelConfidence, res.CombinedScore, res.CombinedLabel,
		res.Degraded, res.DegradedReason, res.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save sentiment result: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE posts SET scored = true WHERE id = $1`, res.PostID)
	if err != nil {
		return fmt.Errorf("failed to mark post scored: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sentiment result: %w", err)
	}

	return nil
}

// ListWindow returns results scored within [from, to), oldest first.
func (r *SentimentRepository) ListWindow(ctx context.Context, from, to time.Time) ([]contracts.SentimentResult, error) {
	query := `
		SELECT id, post_id, source_id, author, lexicon_score, model_label,
		       model_confidence, combined_score, combined_label,
		       degraded, degraded_reason, scored_at
		FROM sentiment_results
		WHERE scored_at >= $1 AND scored_at < $2
		ORDER BY scored_at ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment results: %w", err)
	}
	defer rows.Close()

	results := make([]contracts.SentimentResult, 0)
	for rows.Next() {
		var s contracts.SentimentResult
		err := rows.Scan(
			&s.ID, &s.PostID, &s.SourceID, &s.Author, &s.LexiconScore, &s.ModelLabel,
			&s.ModelConfidence, &s.CombinedScore, &s.CombinedLabel,
			&s.Degraded, &s.DegradedReason, &s.ScoredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sentiment result: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// ListRecent returns the newest results, newest first.
func (r *SentimentRepository) ListRecent(ctx context.Context, limit int) ([]contracts.SentimentResult, error) {
	query := `
		SELECT id, post_id, source_id, author, lexicon_score, model_label,
		       model_confidence, combined_score, combined_label,
		       degraded, degraded_reason, scored_at
		FROM sentiment_results
		ORDER BY scored_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment results: %w", err)
	}
	defer rows.Close()

	results := make([]contracts.SentimentResult, 0, limit)
	for rows.Next() {
		var s contracts.SentimentResult
		err := rows.Scan(
			&s.ID, &s.PostID, &s.SourceID, &s.Author, &s.LexiconScore, &s.ModelLabel,
			&s.ModelConfidence, &s.CombinedScore, &s.CombinedLabel,
			&s.Degraded, &s.DegradedReason, &s.ScoredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sentiment result: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// Package store is the persistence layer. One repository per
// aggregate; raw SQL against the pgx pool, no ORM.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/tradex/internal/contracts"
)

// PostRepository handles raw post persistence.
type PostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// Save inserts a post and returns its database id. A post whose
// source_id already exists and is scored returns ErrDuplicatePost so
// the caller drops it before scoring. An existing row that was never
// scored (a previous cycle failed before its sentiment committed) is
// returned with its id, keeping the post eligible for scoring.
func (r *PostRepository) Save(ctx context.Context, post *contracts.Post) (int64, error) {
	query := `
		INSERT INTO posts (source_id, author, text, created_at, ingested_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		post.SourceID, post.Author, post.Text, post.CreatedAt, post.IngestedAt,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		var scored bool
		err := r.pool.QueryRow(ctx,
			`SELECT id, scored FROM posts WHERE source_id = $1`, post.SourceID,
		).Scan(&id, &scored)
		if err != nil {
			return 0, fmt.Errorf("failed to check existing post: %w", err)
		}
		if scored {
			return 0, contracts.ErrDuplicatePost
		}
		return id, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save post: %w", err)
	}

	return id, nil
}

// ListRecentSourceIDs returns the source ids of posts ingested after
// cutoff whose sentiment result is durably recorded, used to seed the
// dedup gatekeeper on startup. Unscored posts are excluded so they
// stay eligible after a restart.
func (r *PostRepository) ListRecentSourceIDs(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `SELECT source_id FROM posts WHERE ingested_at >= $1 AND scored = true`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query source ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan source id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// ListRecent returns the newest posts, newest first.
func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]contracts.Post, error) {
	query := `
		SELECT id, source_id, author, text, created_at, ingested_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]contracts.Post, 0, limit)
	for rows.Next() {
		var p contracts.Post
		err := rows.Scan(&p.ID, &p.SourceID, &p.Author, &p.Text, &p.CreatedAt, &p.IngestedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

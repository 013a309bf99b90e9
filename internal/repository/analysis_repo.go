package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

type AnalysisRepo struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

// EnsureSchema creates the analysis table if it does not exist.
func (r *AnalysisRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS video_analyses (
			video_id          VARCHAR(16) PRIMARY KEY,
			video_url         TEXT        NOT NULL,
			analyzed_at       TIMESTAMPTZ NOT NULL,
			total_comments    INTEGER     NOT NULL,
			analyzed_comments INTEGER     NOT NULL,
			comments          JSONB       NOT NULL,
			insights          JSONB       NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// FindByVideoID returns the stored analysis for a video, or nil when no
// analysis exists yet.
func (r *AnalysisRepo) FindByVideoID(ctx context.Context, videoID string) (*model.VideoAnalysis, error) {
	query := `
		SELECT video_id, video_url, analyzed_at, total_comments, analyzed_comments, comments, insights
		FROM video_analyses
		WHERE video_id = $1`

	var (
		a            model.VideoAnalysis
		commentsJSON []byte
		insightsJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&a.VideoID, &a.VideoURL, &a.AnalyzedAt,
		&a.TotalComments, &a.AnalyzedComments,
		&commentsJSON, &insightsJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(commentsJSON, &a.Comments); err != nil {
		return nil, fmt.Errorf("decode stored comments: %w", err)
	}
	if err := json.Unmarshal(insightsJSON, &a.Insights); err != nil {
		return nil, fmt.Errorf("decode stored insights: %w", err)
	}
	return &a, nil
}

// Insert persists a completed analysis. The conditional write makes the
// first-writer win: if a concurrent run already stored an analysis for this
// video the insert is a silent no-op, never an error or a duplicate.
func (r *AnalysisRepo) Insert(ctx context.Context, a *model.VideoAnalysis) error {
	commentsJSON, err := json.Marshal(a.Comments)
	if err != nil {
		return fmt.Errorf("encode comments: %w", err)
	}
	insightsJSON, err := json.Marshal(a.Insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}

	query := `
		INSERT INTO video_analyses
			(video_id, video_url, analyzed_at, total_comments, analyzed_comments, comments, insights)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (video_id) DO NOTHING`

	_, err = r.pool.Exec(ctx, query,
		a.VideoID, a.VideoURL, a.AnalyzedAt,
		a.TotalComments, a.AnalyzedComments,
		commentsJSON, insightsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

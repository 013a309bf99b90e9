package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/AdityaUmale/yt-analyzer/internal/insights"
	"github.com/AdityaUmale/yt-analyzer/internal/metrics"
	"github.com/AdityaUmale/yt-analyzer/internal/model"
	"github.com/AdityaUmale/yt-analyzer/pkg/videoid"
)

// ErrInvalidVideoURL means no video ID could be extracted from the input.
var ErrInvalidVideoURL = errors.New("invalid youtube video url")

// CommentFetcher retrieves every available comment for a video.
type CommentFetcher interface {
	FetchComments(ctx context.Context, videoID string) ([]model.Comment, error)
}

// Classifier produces a verdict per comment ID. It never fails per item;
// failures degrade to the neutral fallback internally.
type Classifier interface {
	ClassifyBatch(ctx context.Context, comments []model.Comment) map[string]model.SentimentResult
}

// AnalysisStore is the authoritative persistence for completed analyses.
type AnalysisStore interface {
	FindByVideoID(ctx context.Context, videoID string) (*model.VideoAnalysis, error)
	Insert(ctx context.Context, a *model.VideoAnalysis) error
}

// AnalysisCache is the optional fast-path lookup in front of the store.
type AnalysisCache interface {
	GetAnalysis(ctx context.Context, videoID string) (*model.VideoAnalysis, error)
	SetAnalysis(ctx context.Context, a *model.VideoAnalysis) error
}

// AnalysisService coordinates the comment analysis pipeline: cache gate,
// comment fetch, batched classification, aggregation, masking, persistence.
type AnalysisService struct {
	fetcher    CommentFetcher
	classifier Classifier
	store      AnalysisStore
	cache      AnalysisCache
	commentCap int
	locks      *keyedLocks
	log        zerolog.Logger
}

func NewAnalysisService(fetcher CommentFetcher, classifier Classifier, store AnalysisStore, cache AnalysisCache, commentCap int, log zerolog.Logger) *AnalysisService {
	if commentCap <= 0 {
		commentCap = 100
	}
	return &AnalysisService{
		fetcher:    fetcher,
		classifier: classifier,
		store:      store,
		cache:      cache,
		commentCap: commentCap,
		locks:      newKeyedLocks(),
		log:        log,
	}
}

// Analyze runs the full pipeline for a video URL, or returns the stored
// analysis when one already exists. The boolean reports a cache hit. The
// stored analysis is authoritative and never refreshed here.
func (s *AnalysisService) Analyze(ctx context.Context, videoURL string) (*model.VideoAnalysis, bool, error) {
	videoID, ok := videoid.Extract(videoURL)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidVideoURL, videoURL)
	}

	// Serialize per video so concurrent first requests don't both run the
	// pipeline; the loser of the race finds the winner's row below.
	unlock := s.locks.lock(videoID)
	defer unlock()

	if existing, err := s.lookup(ctx, videoID); err != nil {
		return nil, false, err
	} else if existing != nil {
		metrics.IncCacheHit()
		metrics.IncAnalysis("cached")
		return existing, true, nil
	}
	metrics.IncCacheMiss()

	start := time.Now()
	analysis, err := s.run(ctx, videoID, videoURL)
	if err != nil {
		metrics.IncAnalysis("error")
		return nil, false, err
	}
	metrics.IncAnalysis("fresh")
	metrics.ObserveAnalysisDuration(time.Since(start).Seconds())

	return analysis, false, nil
}

// lookup consults Redis first, then the store; a store hit refills Redis.
func (s *AnalysisService) lookup(ctx context.Context, videoID string) (*model.VideoAnalysis, error) {
	if cached, err := s.cache.GetAnalysis(ctx, videoID); err != nil {
		s.log.Warn().Err(err).Str("video_id", videoID).Msg("cache lookup failed, falling through to store")
	} else if cached != nil {
		return cached, nil
	}

	stored, err := s.store.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("analysis lookup: %w", err)
	}
	if stored != nil {
		if err := s.cache.SetAnalysis(ctx, stored); err != nil {
			s.log.Warn().Err(err).Str("video_id", videoID).Msg("cache refill failed")
		}
	}
	return stored, nil
}

// run executes the non-cached pipeline and persists the result.
func (s *AnalysisService) run(ctx context.Context, videoID, videoURL string) (*model.VideoAnalysis, error) {
	s.log.Info().Str("video_id", videoID).Msg("starting analysis")

	comments, err := s.fetcher.FetchComments(ctx, videoID)
	if err != nil {
		return nil, err
	}

	subset := comments
	if len(subset) > s.commentCap {
		subset = subset[:s.commentCap]
	}

	verdicts := s.classifier.ClassifyBatch(ctx, subset)

	// Re-associate verdicts by comment ID; batch results settle in arbitrary
	// order. A comment whose verdict went missing gets the fallback so the
	// subset stays one-to-one with its classifications.
	classified := make([]model.ClassifiedComment, 0, len(subset))
	for _, c := range subset {
		verdict, ok := verdicts[c.ID]
		if !ok {
			verdict = model.FallbackSentiment()
		}
		classified = append(classified, model.ClassifiedComment{
			Comment:    c,
			Sentiment:  verdict.Sentiment,
			Confidence: verdict.Confidence,
		})
	}

	analysis := &model.VideoAnalysis{
		VideoID:          videoID,
		VideoURL:         videoURL,
		AnalyzedAt:       time.Now().UTC(),
		TotalComments:    len(comments),
		AnalyzedComments: len(classified),
		Comments:         MaskComments(classified),
		Insights:         insights.Build(comments, classified),
	}

	if err := s.store.Insert(ctx, analysis); err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}
	if err := s.cache.SetAnalysis(ctx, analysis); err != nil {
		s.log.Warn().Err(err).Str("video_id", videoID).Msg("cache store failed")
	}

	s.log.Info().
		Str("video_id", videoID).
		Int("total_comments", analysis.TotalComments).
		Int("analyzed_comments", analysis.AnalyzedComments).
		Msg("analysis complete")

	return analysis, nil
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

type fakeFetcher struct {
	mu       sync.Mutex
	comments []model.Comment
	err      error
	calls    int
}

func (f *fakeFetcher) FetchComments(_ context.Context, _ string) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.comments, nil
}

type fakeClassifier struct {
	mu       sync.Mutex
	verdicts map[string]model.SentimentResult
	calls    int
	seen     int
}

func (f *fakeClassifier) ClassifyBatch(_ context.Context, comments []model.Comment) map[string]model.SentimentResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.seen = len(comments)
	out := make(map[string]model.SentimentResult, len(comments))
	for _, c := range comments {
		if v, ok := f.verdicts[c.ID]; ok {
			out[c.ID] = v
		}
	}
	return out
}

type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]*model.VideoAnalysis
	insErr  error
	inserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*model.VideoAnalysis)}
}

func (f *fakeStore) FindByVideoID(_ context.Context, videoID string) (*model.VideoAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[videoID], nil
}

func (f *fakeStore) Insert(_ context.Context, a *model.VideoAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insErr != nil {
		return f.insErr
	}
	f.inserts++
	if _, exists := f.rows[a.VideoID]; !exists {
		f.rows[a.VideoID] = a
	}
	return nil
}

type noopCache struct{}

func (noopCache) GetAnalysis(context.Context, string) (*model.VideoAnalysis, error) { return nil, nil }
func (noopCache) SetAnalysis(context.Context, *model.VideoAnalysis) error           { return nil }

func testComments(n int) []model.Comment {
	out := make([]model.Comment, n)
	for i := range out {
		out[i] = model.Comment{
			ID:                "c" + strconv.Itoa(i),
			Text:              "comment number " + strconv.Itoa(i),
			AuthorDisplayName: "Author Name",
			PublishedAt:       time.Date(2024, 1, i%27+1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func newTestService(fetcher *fakeFetcher, classifier *fakeClassifier, store *fakeStore, cap int) *AnalysisService {
	return NewAnalysisService(fetcher, classifier, store, noopCache{}, cap, zerolog.Nop())
}

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestAnalyze_InvalidURL(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeClassifier{}, newFakeStore(), 100)

	_, _, err := svc.Analyze(context.Background(), "not a youtube url")
	if !errors.Is(err, ErrInvalidVideoURL) {
		t.Fatalf("err = %v, want ErrInvalidVideoURL", err)
	}
}

func TestAnalyze_FreshRun(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(3)}
	classifier := &fakeClassifier{verdicts: map[string]model.SentimentResult{
		"c0": {Sentiment: model.SentimentAgree, Confidence: 0.9},
		"c1": {Sentiment: model.SentimentDisagree, Confidence: 0.8},
		"c2": {Sentiment: model.SentimentNeutral, Confidence: 0.7},
	}}
	store := newFakeStore()
	svc := newTestService(fetcher, classifier, store, 100)

	got, cached, err := svc.Analyze(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("cached = true, want false on first run")
	}
	if got.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("videoID = %s, want dQw4w9WgXcQ", got.VideoID)
	}
	if got.TotalComments != 3 || got.AnalyzedComments != 3 {
		t.Errorf("counts = %d/%d, want 3/3", got.TotalComments, got.AnalyzedComments)
	}
	if got.Insights.SentimentAnalysis.Raw.Agree != 1 {
		t.Errorf("agree = %d, want 1", got.Insights.SentimentAnalysis.Raw.Agree)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", store.inserts)
	}
}

func TestAnalyze_Idempotent_SecondCallHitsStore(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(2)}
	classifier := &fakeClassifier{}
	store := newFakeStore()
	svc := newTestService(fetcher, classifier, store, 100)

	first, cached, err := svc.Analyze(context.Background(), testURL)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if cached {
		t.Fatal("first run reported cached")
	}

	second, cached, err := svc.Analyze(context.Background(), testURL)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !cached {
		t.Error("second run should be a cache hit")
	}
	if second != first {
		t.Error("second run should return the stored analysis")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (zero upstream calls on second run)", fetcher.calls)
	}
	if classifier.calls != 1 {
		t.Errorf("classify calls = %d, want 1", classifier.calls)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", store.inserts)
	}
}

func TestAnalyze_TruncatesToCommentCap(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(250)}
	classifier := &fakeClassifier{}
	store := newFakeStore()
	svc := newTestService(fetcher, classifier, store, 100)

	got, _, err := svc.Analyze(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if classifier.seen != 100 {
		t.Errorf("classifier saw %d comments, want 100 (cap)", classifier.seen)
	}
	if got.TotalComments != 250 {
		t.Errorf("totalComments = %d, want 250 (full fetch)", got.TotalComments)
	}
	if got.AnalyzedComments != 100 {
		t.Errorf("analyzedComments = %d, want 100", got.AnalyzedComments)
	}

	// Volume stats cover the full fetched set, not just the subset.
	sum := 0
	for _, n := range got.Insights.MonthlyDistribution {
		sum += n
	}
	if sum != 250 {
		t.Errorf("monthly bucket sum = %d, want 250", sum)
	}
}

func TestAnalyze_MissingVerdictGetsFallback(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(2)}
	// Classifier only returns a verdict for c0; c1 settles nowhere.
	classifier := &fakeClassifier{verdicts: map[string]model.SentimentResult{
		"c0": {Sentiment: model.SentimentAgree, Confidence: 1},
	}}
	store := newFakeStore()
	svc := newTestService(fetcher, classifier, store, 100)

	got, _, err := svc.Analyze(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.AnalyzedComments != 2 {
		t.Fatalf("analyzedComments = %d, want 2 (one-to-one with subset)", got.AnalyzedComments)
	}
	var c1 *model.MaskedComment
	for i := range got.Comments {
		if got.Comments[i].CommentID == "c1" {
			c1 = &got.Comments[i]
		}
	}
	if c1 == nil {
		t.Fatal("c1 missing from persisted comments")
	}
	if c1.Sentiment != model.SentimentNeutral || c1.Confidence != 0.5 {
		t.Errorf("c1 verdict = %s/%v, want neutral/0.5 fallback", c1.Sentiment, c1.Confidence)
	}
}

func TestAnalyze_AuthorsMasked(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(1)}
	store := newFakeStore()
	svc := newTestService(fetcher, &fakeClassifier{}, store, 100)

	got, _, err := svc.Analyze(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	masked := got.Comments[0].MaskedAuthor
	if !strings.HasPrefix(masked, "user_Au") {
		t.Errorf("maskedAuthor = %q, want prefix user_Au", masked)
	}
	if strings.Contains(masked, "Author Name") {
		t.Errorf("maskedAuthor %q leaks the original name", masked)
	}
}

func TestAnalyze_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	fetcher := &fakeFetcher{err: wantErr}
	store := newFakeStore()
	svc := newTestService(fetcher, &fakeClassifier{}, store, 100)

	_, _, err := svc.Analyze(context.Background(), testURL)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
	if store.inserts != 0 {
		t.Errorf("inserts = %d, want 0 (no partial results persisted)", store.inserts)
	}
}

func TestAnalyze_PersistErrorLosesWork(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(1)}
	store := newFakeStore()
	store.insErr = errors.New("disk full")
	svc := newTestService(fetcher, &fakeClassifier{}, store, 100)

	got, _, err := svc.Analyze(context.Background(), testURL)
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if got != nil {
		t.Error("computed result must not be returned when persistence fails")
	}
}

func TestAnalyze_ConcurrentFirstRequestsRunPipelineOnce(t *testing.T) {
	fetcher := &fakeFetcher{comments: testComments(5)}
	classifier := &fakeClassifier{}
	store := newFakeStore()
	svc := newTestService(fetcher, classifier, store, 100)

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := svc.Analyze(context.Background(), testURL); err != nil {
				t.Errorf("concurrent analyze: %v", err)
			}
		}()
	}
	wg.Wait()

	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (per-video lock serializes first run)", fetcher.calls)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", store.inserts)
	}
}

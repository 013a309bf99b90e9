// Package gemini classifies comment stance via the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/AdityaUmale/yt-analyzer/internal/batch"
	"github.com/AdityaUmale/yt-analyzer/internal/metrics"
	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

const promptTemplate = `You are a YouTube comment sentiment analyzer. Analyze this comment and determine if it expresses agreement or disagreement with the video content.

Comment to analyze: %q

Rules for classification:
- agree: Comments showing support, praise, appreciation, positive feedback, or agreement
- disagree: Comments showing criticism, disapproval, negative feedback, or disagreement
- neutral: Comments that are factual, questions, or unrelated to the content

Examples:
- "This is so helpful, exactly what I needed!" → agree
- "I don't think this is correct, you're missing important points" → disagree
- "What software are you using?" → neutral

Respond with ONLY a JSON object in this format:
{
  "sentiment": "agree" or "disagree" or "neutral",
  "confidence": [number between 0 and 1]
}`

// Config holds classifier settings.
type Config struct {
	APIKey     string
	Model      string
	BatchSize  int           // concurrent classification calls per batch
	BatchDelay time.Duration // pause between batches
}

// Classifier wraps per-comment Gemini calls. Classification never fails the
// caller: any service error or malformed reply degrades to the neutral
// fallback, which is counted and logged but invisible in the data shape.
type Classifier struct {
	client *genai.Client
	cfg    Config
	log    zerolog.Logger
}

func NewClassifier(ctx context.Context, cfg Config, log zerolog.Logger) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = 2 * time.Second
	}

	return &Classifier{client: client, cfg: cfg, log: log}, nil
}

// Classify returns the stance verdict for one comment. The result is always
// one of the three categories with confidence in [0,1].
func (c *Classifier) Classify(ctx context.Context, commentText string) model.SentimentResult {
	prompt := fmt.Sprintf(promptTemplate, commentText)

	result, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		return c.fallback("request_failed", err)
	}

	if result == nil || len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return c.fallback("empty_reply", nil)
	}

	verdict, err := parseSentimentReply(result.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return c.fallback("bad_reply", err)
	}
	return verdict
}

func (c *Classifier) fallback(reason string, err error) model.SentimentResult {
	metrics.IncClassifierFallback(reason)
	c.log.Warn().Err(err).Str("reason", reason).Msg("classification degraded to neutral fallback")
	return model.FallbackSentiment()
}

// classifiedItem carries the comment ID through the batch so settlement-order
// results can be re-associated with their comments.
type classifiedItem struct {
	id     string
	result model.SentimentResult
}

// ClassifyBatch classifies comments in rate-limited concurrent batches and
// returns a map keyed by comment ID. Individual failures have already
// degraded to the fallback inside Classify, so every submitted comment gets
// exactly one verdict unless the context is cancelled mid-run.
func (c *Classifier) ClassifyBatch(ctx context.Context, comments []model.Comment) map[string]model.SentimentResult {
	op := func(ctx context.Context, cm model.Comment) (classifiedItem, error) {
		return classifiedItem{id: cm.ID, result: c.Classify(ctx, cm.Text)}, nil
	}

	settled, err := batch.Run(ctx, c.log, comments, op, c.cfg.BatchSize, c.cfg.BatchDelay)
	if err != nil {
		c.log.Warn().Err(err).Int("settled", len(settled)).Msg("classification batch interrupted")
	}

	metrics.AddCommentsClassified(len(settled))

	results := make(map[string]model.SentimentResult, len(settled))
	for _, item := range settled {
		results[item.id] = item.result
	}
	return results
}

// parseSentimentReply extracts the first brace-delimited JSON object from the
// raw model reply and validates it. The service tends to wrap its JSON in
// prose or markdown fences, so everything outside the outermost braces is
// ignored.
func parseSentimentReply(raw string) (model.SentimentResult, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return model.SentimentResult{}, fmt.Errorf("no json object in reply")
	}

	var parsed struct {
		Sentiment  string   `json:"sentiment"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return model.SentimentResult{}, fmt.Errorf("unmarshal reply: %w", err)
	}

	switch parsed.Sentiment {
	case model.SentimentAgree, model.SentimentDisagree, model.SentimentNeutral:
	default:
		return model.SentimentResult{}, fmt.Errorf("unrecognized sentiment %q", parsed.Sentiment)
	}

	if parsed.Confidence == nil {
		return model.SentimentResult{}, fmt.Errorf("missing confidence")
	}

	confidence := *parsed.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return model.SentimentResult{Sentiment: parsed.Sentiment, Confidence: confidence}, nil
}

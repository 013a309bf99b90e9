package model

import "time"

// Sentiment categories a comment can be classified into.
const (
	SentimentAgree    = "agree"
	SentimentDisagree = "disagree"
	SentimentNeutral  = "neutral"
)

// Comment is one top-level comment fetched from the YouTube Data API.
type Comment struct {
	ID                string    `json:"id"`
	Text              string    `json:"text"`
	AuthorDisplayName string    `json:"authorDisplayName"`
	PublishedAt       time.Time `json:"publishedAt"`
	LikeCount         int       `json:"likeCount"`
}

// SentimentResult is the classifier verdict for a single comment.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// FallbackSentiment is substituted whenever the classification service fails
// or returns a reply that cannot be parsed or validated.
func FallbackSentiment() SentimentResult {
	return SentimentResult{Sentiment: SentimentNeutral, Confidence: 0.5}
}

// ClassifiedComment is a Comment with its sentiment verdict attached.
type ClassifiedComment struct {
	Comment
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// MaskedComment is the persisted form of a classified comment: the author
// display name is replaced by an irreversible pseudonym before storage.
type MaskedComment struct {
	CommentID    string    `json:"commentId"`
	MaskedAuthor string    `json:"maskedAuthor"`
	Text         string    `json:"text"`
	PublishedAt  time.Time `json:"publishedAt"`
	LikeCount    int       `json:"likeCount"`
	Sentiment    string    `json:"sentiment"`
	Confidence   float64   `json:"confidence"`
}

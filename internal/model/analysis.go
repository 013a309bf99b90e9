package model

import "time"

// SentimentCounts holds raw per-category counts over the classified subset.
type SentimentCounts struct {
	Agree    int `json:"agree"`
	Disagree int `json:"disagree"`
	Neutral  int `json:"neutral"`
}

// SentimentPercentages holds the per-category share of the classified subset,
// formatted to exactly two decimal places.
type SentimentPercentages struct {
	AgreePercentage    string `json:"agreePercentage"`
	DisagreePercentage string `json:"disagreePercentage"`
	NeutralPercentage  string `json:"neutralPercentage"`
}

// SentimentAnalysis combines raw counts and percentage strings.
type SentimentAnalysis struct {
	Raw         SentimentCounts      `json:"raw"`
	Percentages SentimentPercentages `json:"percentages"`
}

// Insights are the derived aggregate statistics for one analysis run.
// MonthlyDistribution and TopKeywords are computed over all fetched comments;
// SentimentAnalysis covers only the classified subset.
type Insights struct {
	MonthlyDistribution map[string]int    `json:"monthlyDistribution"`
	SentimentAnalysis   SentimentAnalysis `json:"sentimentAnalysis"`
	TopKeywords         map[string]int    `json:"topKeywords"`
}

// VideoAnalysis is the persisted unit of record for one analyzed video.
// Created once per video ID and never mutated afterwards.
type VideoAnalysis struct {
	VideoID          string          `json:"videoId"`
	VideoURL         string          `json:"videoUrl"`
	AnalyzedAt       time.Time       `json:"analyzedAt"`
	TotalComments    int             `json:"totalComments"`
	AnalyzedComments int             `json:"analyzedComments"`
	Comments         []MaskedComment `json:"comments"`
	Insights         Insights        `json:"insights"`
}

// AnalyzeRequest is the API request body for POST /api/youtube/comments.
type AnalyzeRequest struct {
	VideoURL string `json:"videoUrl"`
}

// AnalyzeResponse is the API response envelope for an analysis request.
type AnalyzeResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    *VideoAnalysis `json:"data,omitempty"`
}

// Package insights computes the derived aggregate statistics for an analysis
// run. Everything here is pure computation: no I/O, deterministic output for
// the same input.
package insights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

// DefaultTopKeywords is the number of keywords reported by Build.
const DefaultTopKeywords = 10

// stopWords are common English words excluded from keyword tallies.
var stopWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {},
	"a": {}, "in": {}, "that": {}, "have": {}, "i": {},
	"it": {}, "for": {}, "not": {}, "on": {}, "with": {},
	"he": {}, "as": {}, "you": {}, "do": {}, "at": {},
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// Build assembles the full Insights block. Volume and keyword statistics
// cover all fetched comments; sentiment statistics cover only the classified
// subset.
func Build(all []model.Comment, classified []model.ClassifiedComment) model.Insights {
	return model.Insights{
		MonthlyDistribution: MonthlyDistribution(all),
		SentimentAnalysis:   SentimentBreakdown(classified),
		TopKeywords:         TopKeywords(all, DefaultTopKeywords),
	}
}

// MonthlyDistribution groups comments by UTC calendar year-month. Keys are
// "YYYY-MM"; encoding/json marshals string map keys in ascending order, which
// matches the required ascending-key emission.
func MonthlyDistribution(comments []model.Comment) map[string]int {
	dist := make(map[string]int)
	for _, c := range comments {
		t := c.PublishedAt.UTC()
		key := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		dist[key]++
	}
	return dist
}

// TopKeywords tallies word frequency over all comment text and returns the
// top k entries. Text is lowercased, stripped of non-word characters and
// split on whitespace; tokens of length <= 2 and stop words are dropped.
// Ties are broken by ascending lexical order so the result is deterministic.
func TopKeywords(comments []model.Comment, k int) map[string]int {
	counts := make(map[string]int)
	for _, c := range comments {
		text := nonWordRe.ReplaceAllString(strings.ToLower(c.Text), "")
		for _, word := range strings.Fields(text) {
			if len(word) <= 2 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			counts[word]++
		}
	}

	type entry struct {
		word  string
		count int
	}
	ranked := make([]entry, 0, len(counts))
	for w, n := range counts {
		ranked = append(ranked, entry{w, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	top := make(map[string]int, k)
	for _, e := range ranked[:k] {
		top[e.word] = e.count
	}
	return top
}

// SentimentBreakdown counts verdicts over the classified subset and derives
// percentage strings. An empty subset yields zero counts and "0.00" across
// the board rather than NaN.
func SentimentBreakdown(classified []model.ClassifiedComment) model.SentimentAnalysis {
	var counts model.SentimentCounts
	for _, c := range classified {
		switch c.Sentiment {
		case model.SentimentAgree:
			counts.Agree++
		case model.SentimentDisagree:
			counts.Disagree++
		default:
			counts.Neutral++
		}
	}

	total := len(classified)
	pct := func(n int) string {
		if total == 0 {
			return "0.00"
		}
		return fmt.Sprintf("%.2f", float64(n)/float64(total)*100)
	}

	return model.SentimentAnalysis{
		Raw: counts,
		Percentages: model.SentimentPercentages{
			AgreePercentage:    pct(counts.Agree),
			DisagreePercentage: pct(counts.Disagree),
			NeutralPercentage:  pct(counts.Neutral),
		},
	}
}

package service

import (
	"crypto/rand"
	"math/big"

	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

const (
	maskSuffixLen      = 6
	maskSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// MaskAuthor derives a pseudonym from a display name: "user_" plus the first
// two characters of the original name plus a random base36 suffix. The
// mapping is intentionally unstable across runs and not reversible.
func MaskAuthor(displayName string) string {
	runes := []rune(displayName)
	if len(runes) > 2 {
		runes = runes[:2]
	}

	suffix := make([]byte, maskSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(maskSuffixAlphabet))))
		if err != nil {
			suffix[i] = '0'
			continue
		}
		suffix[i] = maskSuffixAlphabet[n.Int64()]
	}

	return "user_" + string(runes) + string(suffix)
}

// MaskComments converts classified comments into their persisted form with
// author identities masked. Order is preserved.
func MaskComments(classified []model.ClassifiedComment) []model.MaskedComment {
	masked := make([]model.MaskedComment, 0, len(classified))
	for _, c := range classified {
		masked = append(masked, model.MaskedComment{
			CommentID:    c.ID,
			MaskedAuthor: MaskAuthor(c.AuthorDisplayName),
			Text:         c.Text,
			PublishedAt:  c.PublishedAt,
			LikeCount:    c.LikeCount,
			Sentiment:    c.Sentiment,
			Confidence:   c.Confidence,
		})
	}
	return masked
}

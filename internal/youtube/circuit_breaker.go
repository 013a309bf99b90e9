package youtube

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/AdityaUmale/yt-analyzer/internal/model"
)

// BreakerClient wraps Client with a circuit breaker so repeated YouTube API
// failures fail fast instead of hammering a broken upstream. A single fetch
// already spans many page requests, so the breaker counts whole fetches.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[[]model.Comment]
}

func NewBreakerClient(client *Client, log zerolog.Logger) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[[]model.Comment](gobreaker.Settings{
		Name:        "youtube-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &BreakerClient{client: client, cb: cb}
}

// FetchComments delegates to the wrapped client through the breaker. While
// the circuit is open the wrapped error surfaces as an *UpstreamError like
// any other fetch failure.
func (b *BreakerClient) FetchComments(ctx context.Context, videoID string) ([]model.Comment, error) {
	comments, err := b.cb.Execute(func() ([]model.Comment, error) {
		return b.client.FetchComments(ctx, videoID)
	})
	if err != nil {
		if _, ok := err.(*UpstreamError); !ok {
			err = &UpstreamError{Err: err}
		}
		return nil, err
	}
	return comments, nil
}

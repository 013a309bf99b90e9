package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func newTestClient(baseURL string, maxPages int) *Client {
	c := NewClient("test-key", maxPages, zerolog.Nop())
	c.baseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func pageItem(id, text string) map[string]any {
	return map[string]any{
		"id": id,
		"snippet": map[string]any{
			"topLevelComment": map[string]any{
				"snippet": map[string]any{
					"textDisplay":       text,
					"authorDisplayName": "Some Author",
					"publishedAt":       "2024-01-05T10:00:00Z",
					"likeCount":         3,
				},
			},
		},
	}
}

func TestFetchComments_FollowsPagination(t *testing.T) {
	var requestedTokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("pageToken")
		requestedTokens = append(requestedTokens, token)

		if got := r.URL.Query().Get("maxResults"); got != "100" {
			t.Errorf("maxResults = %s, want 100", got)
		}

		resp := map[string]any{}
		switch token {
		case "":
			resp["items"] = []any{pageItem("c1", "first"), pageItem("c2", "second")}
			resp["nextPageToken"] = "page-2"
		case "page-2":
			resp["items"] = []any{pageItem("c3", "third")}
		default:
			t.Errorf("unexpected pageToken %q", token)
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	comments, err := c.FetchComments(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	// API-return order preserved across pages
	wantIDs := []string{"c1", "c2", "c3"}
	for i, want := range wantIDs {
		if comments[i].ID != want {
			t.Errorf("comments[%d].ID = %s, want %s", i, comments[i].ID, want)
		}
	}
	if len(requestedTokens) != 2 || requestedTokens[0] != "" || requestedTokens[1] != "page-2" {
		t.Errorf("requested tokens = %v, want [\"\" page-2]", requestedTokens)
	}
	if comments[0].AuthorDisplayName != "Some Author" {
		t.Errorf("author = %q, want %q", comments[0].AuthorDisplayName, "Some Author")
	}
	if comments[0].LikeCount != 3 {
		t.Errorf("likeCount = %d, want 3", comments[0].LikeCount)
	}
}

func TestFetchComments_ErrorOnAnyPageDiscardsAll(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(map[string]any{
				"items":         []any{pageItem("c1", "first")},
				"nextPageToken": "page-2",
			})
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	comments, err := c.FetchComments(context.Background(), "dQw4w9WgXcQ")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if ue.Page != 2 {
		t.Errorf("failed page = %d, want 2", ue.Page)
	}
	if comments != nil {
		t.Errorf("got %d partial comments, want none", len(comments))
	}
}

func TestFetchComments_PageCapTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always promise another page.
		n := r.URL.Query().Get("pageToken")
		json.NewEncoder(w).Encode(map[string]any{
			"items":         []any{pageItem("c-"+n, "text")},
			"nextPageToken": fmt.Sprintf("t%s", n),
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	comments, err := c.FetchComments(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 3 {
		t.Errorf("got %d comments, want 3 (one per page, capped)", len(comments))
	}
}

func TestFetchComments_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	_, err := c.FetchComments(context.Background(), "dQw4w9WgXcQ")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
}

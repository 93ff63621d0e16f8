package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/koepalette/internal/domain"
)

var testDocs = map[string]string{
	"livers.json":         `[{"id":"A","name":{"jp":"エー","en":"Alpha"},"branch":"JP","oshi_color_code":"#000000"}]`,
	"groups.json":         `[{"id":"G","name":"Group G","liver_ids":["A"]}]`,
	"voice_series.json":   `[{"series_id":"X","title":"Series X","liver_ids":[],"group_ids":["G"],"initial_release_date":"2023-05-01","rerelease_dates":[],"cover_image_url":""}]`,
	"voice_products.json": `[{"product_id":"x1","series_id":"X","liver_id":"A","title":"X voice","type":"Regular","language":"JP","file_hash_sha256":null}]`,
}

// fakeGitHub serves the contents API for testDocs under data/
type fakeGitHub struct {
	requests atomic.Int32
	status   atomic.Int32 // 0 = serve normally

	mu      sync.Mutex
	headers http.Header
	query   string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	f.mu.Lock()
	f.headers = r.Header.Clone()
	f.query = r.URL.RawQuery
	f.mu.Unlock()

	if code := f.status.Load(); code != 0 {
		w.WriteHeader(int(code))
		w.Write([]byte(`{"message":"nope"}`))
		return
	}

	name, ok := strings.CutPrefix(r.URL.Path, "/repos/owner/repo/contents/data/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	doc, ok := testDocs[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	// Wrap like GitHub does
	encoded := base64.StdEncoding.EncodeToString([]byte(doc))
	var wrapped strings.Builder
	for len(encoded) > 60 {
		wrapped.WriteString(encoded[:60] + "\n")
		encoded = encoded[60:]
	}
	wrapped.WriteString(encoded)

	json.NewEncoder(w).Encode(ContentResponse{Name: name, Encoding: "base64", Content: wrapped.String()})
}

func newTestClient(t *testing.T, opts Options) (*Client, *fakeGitHub) {
	t.Helper()
	fake := &fakeGitHub{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	opts.APIURL = srv.URL
	opts.Owner = "owner"
	opts.Repo = "repo"
	if opts.Path == "" {
		opts.Path = "data"
	}
	c := NewClient(opts, nil)
	c.retryDelay = time.Millisecond
	return c, fake
}

func TestFetchAssemblesSnapshot(t *testing.T) {
	c, fake := newTestClient(t, Options{Token: "secret", Ref: "main"})

	snap, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap.Livers) != 1 || snap.Livers[0].Name.EN != "Alpha" {
		t.Fatalf("unexpected livers %+v", snap.Livers)
	}
	if len(snap.Series) != 1 || snap.Series[0].Year() != 2023 {
		t.Fatalf("unexpected series %+v", snap.Series)
	}
	if snap.Products[0].FileHash != "" {
		t.Fatalf("expected null hash to decode empty, got %q", snap.Products[0].FileHash)
	}
	if got := fake.requests.Load(); got != 4 {
		t.Fatalf("expected 4 requests, got %d", got)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := fake.headers.Get("Authorization"); got != "token secret" {
		t.Fatalf("expected token auth header, got %q", got)
	}
	if got := fake.headers.Get("Accept"); got != "application/vnd.github.v3+json" {
		t.Fatalf("unexpected accept header %q", got)
	}
	if fake.query != "ref=main" {
		t.Fatalf("expected ref query, got %q", fake.query)
	}
}

func TestFetchUsesCacheUntilInvalidated(t *testing.T) {
	c, fake := newTestClient(t, Options{})

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := fake.requests.Load(); got != 4 {
		t.Fatalf("expected cached second fetch, got %d requests", got)
	}

	c.Invalidate()
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := fake.requests.Load(); got != 8 {
		t.Fatalf("expected refetch after invalidate, got %d requests", got)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := fake.headers.Get("Authorization"); got != "" {
		t.Fatalf("expected anonymous request, got %q", got)
	}
}

func TestFetchServesStaleOnFailure(t *testing.T) {
	c, fake := newTestClient(t, Options{CacheTTL: time.Minute})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	now = now.Add(2 * time.Minute)
	fake.status.Store(http.StatusBadGateway)

	snap, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected stale data, got %v", err)
	}
	if len(snap.Series) != 1 {
		t.Fatalf("expected stale snapshot, got %+v", snap)
	}
	// 4 initial + 4 documents x (1 + maxRetries) attempts
	if got, want := fake.requests.Load(), int32(4+4*(1+maxRetries)); got != want {
		t.Fatalf("expected %d requests, got %d", want, got)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, domain.ErrUnauthorized},
		{"server down", http.StatusServiceUnavailable, domain.ErrSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, Options{})
			fake.status.Store(int32(tt.status))

			_, err := c.Fetch(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFetchMissingDocument(t *testing.T) {
	c, _ := newTestClient(t, Options{Path: "elsewhere"})
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for missing documents")
	}
}

func TestFetchUnreachable(t *testing.T) {
	c := NewClient(Options{APIURL: "http://127.0.0.1:1", Owner: "o", Repo: "r"}, nil)
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

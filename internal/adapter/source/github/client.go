// Package github fetches catalog documents through the GitHub contents API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/koepalette/internal/domain"
)

const (
	DefaultAPIURL   = "https://api.github.com"
	defaultTimeout  = 30 * time.Second
	defaultCacheTTL = 5 * time.Minute
	maxRetries      = 3
	baseRetryDelay  = 500 * time.Millisecond
)

// Options configures a Client
type Options struct {
	APIURL   string
	Owner    string
	Repo     string
	Ref      string // empty for the default branch
	Token    string // empty for anonymous access
	Path     string // directory holding the documents
	CacheTTL time.Duration
}

// cachedDocument is one decoded document and when it was fetched
type cachedDocument struct {
	data      []byte
	fetchedAt time.Time
}

// Client implements domain.CatalogSource for a GitHub repository.
// Documents are cached per path for CacheTTL; a failed refresh falls back to
// the expired copy when there is one.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	ref        string
	token      string
	path       string
	ttl        time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	retryDelay time.Duration
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedDocument
}

var _ domain.CatalogSource = (*Client)(nil)

// NewClient creates a new GitHub contents client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Client{
		baseURL: strings.TrimRight(opts.APIURL, "/"),
		owner:   opts.Owner,
		repo:    opts.Repo,
		ref:     opts.Ref,
		token:   opts.Token,
		path:    strings.Trim(opts.Path, "/"),
		ttl:     opts.CacheTTL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger.With("source", "github", "repo", opts.Owner+"/"+opts.Repo),
		retryDelay: baseRetryDelay,
		now:        time.Now,
		cache:      make(map[string]cachedDocument),
	}
}

// doRequest performs an authenticated GET against the API.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if c.token != "" {
			req.Header.Set("Authorization", "token "+c.token)
		}

		c.logger.Debug("github request", "url", reqURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("github request failed", "error", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: %d %s", domain.ErrUnauthorized, resp.StatusCode, apiMessage(body))

		case resp.StatusCode >= 500 && resp.StatusCode < 600:
			lastErr = fmt.Errorf("%w: server error %d", domain.ErrSourceUnavailable, resp.StatusCode)
			c.logger.Warn("github server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue

		default:
			c.logger.Error("github request error", "status", resp.StatusCode, "body", apiMessage(body))
			return nil, fmt.Errorf("unexpected status code %d for %s: %s", resp.StatusCode, path, apiMessage(body))
		}
	}

	c.logger.Error("github request failed after retries", "error", lastErr, "url", reqURL)
	return nil, lastErr
}

func apiMessage(body []byte) string {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}

// documentPath is the repository path of a catalog document
func (c *Client) documentPath(name string) string {
	if c.path == "" {
		return name
	}
	return c.path + "/" + name
}

// FetchDocument returns one decoded document, from cache when fresh
func (c *Client) FetchDocument(ctx context.Context, name string) ([]byte, error) {
	repoPath := c.documentPath(name)

	c.mu.Lock()
	cached, hasCached := c.cache[repoPath]
	c.mu.Unlock()

	if hasCached && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.data, nil
	}

	data, err := c.fetchContents(ctx, repoPath)
	if err != nil {
		// Serve stale data rather than nothing
		if hasCached && ctx.Err() == nil {
			c.logger.Warn("serving stale document", "path", repoPath, "age", c.now().Sub(cached.fetchedAt), "error", err)
			return cached.data, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.cache[repoPath] = cachedDocument{data: data, fetchedAt: c.now()}
	c.mu.Unlock()
	return data, nil
}

func (c *Client) fetchContents(ctx context.Context, repoPath string) ([]byte, error) {
	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(c.owner), url.PathEscape(c.repo), escapePath(repoPath))

	var query url.Values
	if c.ref != "" {
		query = url.Values{"ref": {c.ref}}
	}

	body, err := c.doRequest(ctx, apiPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", repoPath, err)
	}

	var resp ContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse contents response for %s: %w", repoPath, err)
	}
	if resp.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q for %s", resp.Encoding, repoPath)
	}

	// GitHub wraps base64 content at 60 columns
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", repoPath, err)
	}
	return data, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Fetch loads the four catalog documents concurrently and assembles them.
// Any document failing fails the whole fetch.
func (c *Client) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	names := domain.CatalogDocuments
	results := make([][]byte, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			data, err := c.FetchDocument(gctx, name)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make(map[string][]byte, len(names))
	for i, name := range names {
		docs[name] = results[i]
	}

	snap, err := domain.AssembleSnapshot(docs)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched catalog", "livers", len(snap.Livers), "series", len(snap.Series), "products", len(snap.Products))
	return snap, nil
}

// Invalidate drops every cached document so the next Fetch hits the API
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cachedDocument)
	c.mu.Unlock()
	c.logger.Debug("cleared document cache")
}

// VerifyAccess checks that the repository is reachable with the configured
// token, for setup
func (c *Client) VerifyAccess(ctx context.Context) (*RepositoryResponse, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/repos/%s/%s", url.PathEscape(c.owner), url.PathEscape(c.repo)), nil)
	if err != nil {
		return nil, err
	}
	var repo RepositoryResponse
	if err := json.Unmarshal(body, &repo); err != nil {
		return nil, fmt.Errorf("failed to parse repository response: %w", err)
	}
	return &repo, nil
}

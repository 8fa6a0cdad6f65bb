// Package ai holds the two provider capabilities the pipeline depends on:
// text completion and web search, plus their HTTP, mock, rate-limited and
// cached variants.
package ai

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/beacon/backend/internal/apperr"
)

type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
	// JSON asks the provider for a single JSON object.
	JSON bool
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source,omitempty"`
	URL     string `json:"url,omitempty"`
}

type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Classify maps a provider failure to a Timeout or Upstream error.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(op+" timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Timeout(op+" timed out", err)
	}
	// rate.Limiter.Wait reports a deadline it cannot meet with this text
	if strings.Contains(err.Error(), "would exceed context deadline") {
		return apperr.Timeout(op+" timed out", err)
	}
	return apperr.Upstream(op+" failed", err)
}

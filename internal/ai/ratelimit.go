package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// NewLimiter returns nil when rps is not positive, which disables limiting.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

type limitedCompleter struct {
	next    Completer
	limiter *rate.Limiter
}

// LimitCompleter waits on limiter before each call.
func LimitCompleter(next Completer, limiter *rate.Limiter) Completer {
	if limiter == nil {
		return next
	}
	return limitedCompleter{next: next, limiter: limiter}
}

func (l limitedCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.next.Complete(ctx, req)
}

type limitedSearcher struct {
	next    Searcher
	limiter *rate.Limiter
}

func LimitSearcher(next Searcher, limiter *rate.Limiter) Searcher {
	if limiter == nil {
		return next
	}
	return limitedSearcher{next: next, limiter: limiter}
}

func (l limitedSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.Search(ctx, query, maxResults)
}

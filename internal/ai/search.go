package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DeepSearch calls a POST /deepsearch endpoint authenticated by x-api-key.
type DeepSearch struct {
	client *resty.Client
}

func NewDeepSearch(baseURL, apiKey string) (*DeepSearch, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("SEARCH_URL is not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", apiKey)
	return &DeepSearch{client: client}, nil
}

type deepSearchRequest struct {
	Query         string `json:"query"`
	MaxNumResults int    `json:"max_num_results,omitempty"`
	SearchType    string `json:"search_type"`
}

type deepSearchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Source  string `json:"source"`
		Content string `json:"content"`
	} `json:"results"`
}

func (d *DeepSearch) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	var res deepSearchResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(deepSearchRequest{Query: query, MaxNumResults: maxResults, SearchType: "all"}).
		SetResult(&res).
		Post("/deepsearch")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search http error: %s", resp.Status())
	}
	if !res.Success && res.Error != "" {
		return nil, fmt.Errorf("search error: %s", res.Error)
	}

	out := make([]SearchResult, 0, len(res.Results))
	for _, r := range res.Results {
		out = append(out, SearchResult{
			Title:   strings.TrimSpace(r.Title),
			Snippet: strings.TrimSpace(r.Content),
			Source:  r.Source,
			URL:     r.URL,
		})
	}
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

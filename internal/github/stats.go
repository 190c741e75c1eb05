// Package github fetches contributor commit counts for the weekly digest.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the commit-stats endpoint of a source-hosting API.
type Client struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client; token may be empty for public repos.
func NewClient(token string) *Client {
	return &Client{
		Token:      token,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type contributor struct {
	Total  int `json:"total"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
}

// GetRepoCommitStats returns a map of lowercase login to total commit count
// for "owner/repo". A 202 means the host is still computing the stats; that
// returns a nil map and no error. Other failures degrade to an empty map so
// digest batches keep going.
func (c *Client) GetRepoCommitStats(ctx context.Context, repo string) (map[string]int, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := fmt.Sprintf("%s/repos/%s/stats/contributors", base, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "unitask-api")
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return map[string]int{}, nil
	}
	defer resp.Body.Close()

	// The host is still calculating the stats
	if resp.StatusCode == http.StatusAccepted {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return map[string]int{}, nil
	}

	var contributors []contributor
	if err := json.NewDecoder(resp.Body).Decode(&contributors); err != nil {
		return map[string]int{}, nil
	}

	stats := make(map[string]int, len(contributors))
	for _, con := range contributors {
		if con.Author.Login != "" {
			stats[strings.ToLower(con.Author.Login)] = con.Total
		}
	}
	return stats, nil
}

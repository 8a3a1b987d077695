// services/opendota_client.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"match-analytics-system/models"
)

// ErrNotFound means the primary entity (the match or player being
// analyzed) does not exist upstream.
var ErrNotFound = errors.New("not found upstream")

// RecentWindowSize is how many recent matches feed the profile analyses.
const RecentWindowSize = 20

// How many match-detail fetches run at once during fan-out.
const fetchConcurrency = 5

// OpenDotaClient calls the external read-only match/profile data provider.
type OpenDotaClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewOpenDotaClient reads provider settings from the environment.
// OPEN_DOTA_API_KEY is optional (raises rate limits only).
func NewOpenDotaClient() *OpenDotaClient {
	baseURL := os.Getenv("OPEN_DOTA_BASE_URL")
	if baseURL == "" {
		log.Println("⚠️  OPEN_DOTA_BASE_URL not set, using default: https://api.opendota.com")
		baseURL = "https://api.opendota.com"
	}

	return &OpenDotaClient{
		BaseURL: baseURL,
		APIKey:  os.Getenv("OPEN_DOTA_API_KEY"),
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// getJSON performs one provider GET and decodes the body into out.
func (c *OpenDotaClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s", c.BaseURL, path)
	if c.APIKey != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("api_key", c.APIKey)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response for %s: %w", path, err)
	}
	return nil
}

// GetMatch fetches one full match record.
func (c *OpenDotaClient) GetMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	var match models.Match
	if err := c.getJSON(ctx, fmt.Sprintf("/api/matches/%d", matchID), nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetProfile fetches one player profile record.
func (c *OpenDotaClient) GetProfile(ctx context.Context, accountID int64) (*models.Profile, error) {
	var profile models.Profile
	if err := c.getJSON(ctx, fmt.Sprintf("/api/players/%d", accountID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetRecentMatches fetches the player's recent-match window (newest first).
func (c *OpenDotaClient) GetRecentMatches(ctx context.Context, accountID int64) ([]models.RecentMatch, error) {
	var rows []models.RecentMatch
	query := url.Values{"limit": {fmt.Sprint(RecentWindowSize)}}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/players/%d/recentMatches", accountID), query, &rows); err != nil {
		return nil, err
	}
	if len(rows) > RecentWindowSize {
		rows = rows[:RecentWindowSize]
	}
	return rows, nil
}

// GetWinLoss fetches the player's lifetime win/loss tally.
func (c *OpenDotaClient) GetWinLoss(ctx context.Context, accountID int64) (*models.WinLoss, error) {
	var wl models.WinLoss
	if err := c.getJSON(ctx, fmt.Sprintf("/api/players/%d/wl", accountID), nil, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

// FetchMatches fan-out fetches full details for the given match IDs. A
// failed fetch degrades that single match to skipped rather than aborting
// the batch; no retries. Successful matches come back in request order,
// along with the skipped count.
func (c *OpenDotaClient) FetchMatches(ctx context.Context, matchIDs []int64) ([]*models.Match, int) {
	results := make([]*models.Match, len(matchIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, fetchConcurrency)
	for i, id := range matchIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			match, err := c.GetMatch(ctx, id)
			if err != nil {
				log.Printf("⚠️  [OPEN_DOTA] skipping match %d: %v", id, err)
				return
			}
			results[i] = match
		}(i, id)
	}
	wg.Wait()

	matches := make([]*models.Match, 0, len(matchIDs))
	for _, m := range results {
		if m != nil {
			matches = append(matches, m)
		}
	}
	return matches, len(matchIDs) - len(matches)
}

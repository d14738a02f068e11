package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// NominatimSearcher proxies free-text location search to a Nominatim
// instance. Results are cached per query and requests are spaced at least
// MinInterval apart (the public endpoint's usage policy is 1 req/s).
type NominatimSearcher struct {
	BaseURL     string
	UserAgent   string
	MinInterval time.Duration
	Client      *http.Client

	mu        sync.Mutex
	lastReqAt time.Time
	cache     map[string][]Place
}

type nominatimItem struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimSearcher) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = 5
	}
	cacheKey := fmt.Sprintf("%d:%s", limit, query)

	// Defaults fill under the lock so concurrent first requests don't race
	// on the shared fields; copies are taken for use after unlocking.
	g.mu.Lock()
	if g.Client == nil {
		g.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if g.BaseURL == "" {
		g.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if g.UserAgent == "" {
		g.UserAgent = "stando-backend"
	}
	if g.MinInterval <= 0 {
		g.MinInterval = time.Second
	}
	client, baseURL, userAgent := g.Client, g.BaseURL, g.UserAgent
	if g.cache == nil {
		g.cache = map[string][]Place{}
	}
	if cached, ok := g.cache[cacheKey]; ok {
		g.mu.Unlock()
		return cached, nil
	}
	sleepFor := time.Until(g.lastReqAt.Add(g.MinInterval))
	if sleepFor > 0 {
		g.mu.Unlock()
		time.Sleep(sleepFor)
		g.mu.Lock()
	}
	g.lastReqAt = time.Now()
	g.mu.Unlock()

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=%d", baseURL, url.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nominatim http error: %s", resp.Status)
	}

	var items []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	places, err := parseNominatimItems(items)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.cache[cacheKey] = places
	g.mu.Unlock()

	return places, nil
}

func parseNominatimItems(items []nominatimItem) ([]Place, error) {
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Place, 0, len(items))
	for _, item := range items {
		lat, err := strconv.ParseFloat(item.Lat, 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(item.Lon, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, Place{
			DisplayName: item.DisplayName,
			Lat:         lat,
			Lon:         lon,
		})
	}
	return out, nil
}

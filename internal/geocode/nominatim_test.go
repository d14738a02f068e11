package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestParseNominatimItems(t *testing.T) {
	items := []nominatimItem{
		{
			Lat:         "28.6139",
			Lon:         "77.2090",
			DisplayName: "New Delhi, Delhi, India",
		},
		{
			Lat:         "28.7041",
			Lon:         "77.1025",
			DisplayName: "Delhi, India",
		},
	}
	places, err := parseNominatimItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Lat != 28.6139 || places[0].Lon != 77.2090 {
		t.Fatalf("unexpected coordinates: %+v", places[0])
	}
	if places[0].DisplayName != "New Delhi, Delhi, India" {
		t.Fatalf("unexpected display name: %s", places[0].DisplayName)
	}
}

func TestParseNominatimItemsEmpty(t *testing.T) {
	_, err := parseNominatimItems(nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Concurrent first calls used to fill the Client/BaseURL defaults without
// holding the lock.
func TestSearchConcurrentFirstUse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090","display_name":"New Delhi, Delhi, India"}]`))
	}))
	defer srv.Close()

	g := &NominatimSearcher{BaseURL: srv.URL, MinInterval: time.Millisecond}

	var wg sync.WaitGroup
	results := make([][]Place, 4)
	errs := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot], errs[slot] = g.Search(context.Background(), "delhi", 5)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("search %d: %v", i, errs[i])
		}
		if len(results[i]) != 1 || results[i][0].DisplayName != "New Delhi, Delhi, India" {
			t.Fatalf("search %d: unexpected result %+v", i, results[i])
		}
	}
}

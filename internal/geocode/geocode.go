package geocode

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("no matching places")

// Place is one location-search result as the booking form consumes it.
type Place struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}

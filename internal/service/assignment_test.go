package service

import (
	"testing"

	"github.com/stando/backend/internal/models"
)

func TestNearestAgentPicksClosest(t *testing.T) {
	// Booking in central Delhi, one agent ~3km away and one ~9km away.
	agents := []models.Agent{
		{ID: "AGENT001", Name: "Far", Lat: 28.5245, Lng: 77.1855},
		{ID: "AGENT002", Name: "Near", Lat: 28.6262, Lng: 77.2090},
	}

	got, ok := NearestAgent(28.6139, 77.2090, agents)
	if !ok {
		t.Fatal("expected a match from a non-empty pool")
	}
	if got.ID != "AGENT002" {
		t.Errorf("NearestAgent picked %s, want AGENT002", got.ID)
	}
}

func TestNearestAgentTieFirstSeenWins(t *testing.T) {
	agents := []models.Agent{
		{ID: "AGENT001", Lat: 28.7, Lng: 77.3},
		{ID: "AGENT002", Lat: 28.7, Lng: 77.3},
	}

	got, ok := NearestAgent(28.6139, 77.2090, agents)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.ID != "AGENT001" {
		t.Errorf("tie should keep the first seen agent, got %s", got.ID)
	}
}

func TestNearestAgentEmptyPool(t *testing.T) {
	if _, ok := NearestAgent(28.6139, 77.2090, nil); ok {
		t.Error("empty pool must report no match")
	}
}

func TestNearestAgentAtBookingLocation(t *testing.T) {
	// An agent standing exactly at the pickup point beats everyone.
	agents := []models.Agent{
		{ID: "AGENT001", Lat: 28.62, Lng: 77.21},
		{ID: "AGENT002", Lat: 28.6139, Lng: 77.2090},
	}
	got, _ := NearestAgent(28.6139, 77.2090, agents)
	if got.ID != "AGENT002" {
		t.Errorf("got %s, want AGENT002", got.ID)
	}
}

package service

import (
	"github.com/stando/backend/internal/models"
	"github.com/stando/backend/internal/utils"
)

// NearestAgent picks the agent with the strictly smallest great-circle
// distance to the booking location. First-seen wins on exact ties. The
// second return is false when the pool is empty.
func NearestAgent(lat, lng float64, agents []models.Agent) (models.Agent, bool) {
	var closest models.Agent
	found := false
	minDistance := 0.0

	for _, agent := range agents {
		d := utils.DistanceKm(lat, lng, agent.Lat, agent.Lng)
		if !found || d < minDistance {
			minDistance = d
			closest = agent
			found = true
		}
	}
	return closest, found
}

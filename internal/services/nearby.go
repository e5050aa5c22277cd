package services

import (
	"math"
	"sort"

	"fieldops-backend/internal/geo"
	"fieldops-backend/internal/models"
)

// DealerDistance pairs a dealer with its distance from the executive's
// current position.
type DealerDistance struct {
	models.DealerResponse
	Distance float64 `json:"distance"`
}

// RankNearby filters candidates to those within radiusM meters of
// (lat, lng) and orders them by (priority_level asc, distance asc).
// Priority is the primary key; distance breaks ties. A zero or negative
// priority level means unset and sorts after every real priority.
//
// The caller restricts candidates to the executive's company and assigned
// territories before ranking; this function only filters by distance.
func RankNearby(lat, lng float64, radiusM int, candidates []models.Dealer) []DealerDistance {
	nearby := make([]DealerDistance, 0, len(candidates))
	for i := range candidates {
		d := &candidates[i]
		distance := geo.DistanceMeters(lat, lng, d.Lat, d.Lng)
		if distance > float64(radiusM) {
			continue
		}
		nearby = append(nearby, DealerDistance{
			DealerResponse: d.ToDealerResponse(),
			Distance:       math.Round(distance*100) / 100,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		pi, pj := effectivePriority(nearby[i].PriorityLevel), effectivePriority(nearby[j].PriorityLevel)
		if pi != pj {
			return pi < pj
		}
		return nearby[i].Distance < nearby[j].Distance
	})
	return nearby
}

func effectivePriority(level int) int {
	if level <= 0 {
		return math.MaxInt32
	}
	return level
}

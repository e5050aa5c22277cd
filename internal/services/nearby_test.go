package services

import (
	"testing"

	"fieldops-backend/internal/models"
)

// dealerAt builds a dealer offset north of the base point by roughly the
// given distance in meters (1 degree of latitude ≈ 111.32 km).
func dealerAt(name string, priority int, baseLat, baseLng, meters float64) models.Dealer {
	return models.Dealer{
		ID:            name,
		Name:          name,
		PriorityLevel: priority,
		Lat:           baseLat + meters/111320.0,
		Lng:           baseLng,
	}
}

func TestRankNearbyExcludesBeyondRadius(t *testing.T) {
	baseLat, baseLng := 19.0760, 72.8777
	candidates := []models.Dealer{
		dealerAt("inside", 1, baseLat, baseLng, 200),
		dealerAt("outside", 1, baseLat, baseLng, 900),
	}

	nearby := RankNearby(baseLat, baseLng, 500, candidates)
	if len(nearby) != 1 {
		t.Fatalf("got %d dealers, want 1", len(nearby))
	}
	if nearby[0].Name != "inside" {
		t.Errorf("got %q, want %q", nearby[0].Name, "inside")
	}
}

func TestRankNearbyOrdersByPriorityThenDistance(t *testing.T) {
	baseLat, baseLng := 19.0760, 72.8777
	candidates := []models.Dealer{
		dealerAt("A", 2, baseLat, baseLng, 100),
		dealerAt("B", 1, baseLat, baseLng, 300),
		dealerAt("C", 1, baseLat, baseLng, 150),
	}

	nearby := RankNearby(baseLat, baseLng, 500, candidates)
	if len(nearby) != 3 {
		t.Fatalf("got %d dealers, want 3", len(nearby))
	}

	// Priority 1 dealers first ordered by distance, then priority 2.
	want := []string{"C", "B", "A"}
	for i, name := range want {
		if nearby[i].Name != name {
			t.Errorf("position %d = %q, want %q (order %v)", i, nearby[i].Name, name, want)
		}
	}
}

func TestRankNearbyMissingPrioritySortsLast(t *testing.T) {
	baseLat, baseLng := 19.0760, 72.8777
	candidates := []models.Dealer{
		dealerAt("unset", 0, baseLat, baseLng, 50),
		dealerAt("low", 5, baseLat, baseLng, 400),
	}

	nearby := RankNearby(baseLat, baseLng, 500, candidates)
	if len(nearby) != 2 {
		t.Fatalf("got %d dealers, want 2", len(nearby))
	}
	if nearby[0].Name != "low" || nearby[1].Name != "unset" {
		t.Errorf("got [%s, %s], want [low, unset]", nearby[0].Name, nearby[1].Name)
	}
}

func TestRankNearbyRecordsDistance(t *testing.T) {
	baseLat, baseLng := 19.0760, 72.8777
	candidates := []models.Dealer{dealerAt("d", 1, baseLat, baseLng, 250)}

	nearby := RankNearby(baseLat, baseLng, 500, candidates)
	if len(nearby) != 1 {
		t.Fatalf("got %d dealers, want 1", len(nearby))
	}
	if d := nearby[0].Distance; d < 200 || d > 300 {
		t.Errorf("distance = %v, want ≈250", d)
	}
}

func TestRankNearbyEmptyCandidates(t *testing.T) {
	nearby := RankNearby(19.0760, 72.8777, 500, nil)
	if len(nearby) != 0 {
		t.Errorf("got %d dealers, want 0", len(nearby))
	}
}

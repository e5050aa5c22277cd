package services

import (
	"log"

	"fieldops-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// VisitRadius returns the company's geofence radius in meters, falling back
// to the default when the company record is missing or unconfigured.
func VisitRadius(db *sqlx.DB, companyID string) int {
	var radius int
	err := db.Get(&radius, `SELECT visit_radius_m FROM companies WHERE id = $1`, companyID)
	if err != nil || radius <= 0 {
		if err != nil {
			log.Printf("⚠️  Could not load visit radius for company %s: %v (using default)", companyID, err)
		}
		return models.DefaultVisitRadiusM
	}
	return radius
}

// VisitsPerDayTarget returns the company's per-executive daily visit target,
// falling back to the default when unconfigured.
func VisitsPerDayTarget(db *sqlx.DB, companyID string) int {
	var target int
	err := db.Get(&target, `SELECT visits_per_day_target FROM companies WHERE id = $1`, companyID)
	if err != nil || target <= 0 {
		if err != nil {
			log.Printf("⚠️  Could not load visit target for company %s: %v (using default)", companyID, err)
		}
		return models.DefaultVisitsPerDayTarget
	}
	return target
}

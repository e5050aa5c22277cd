package services

import (
	"path/filepath"
	"testing"
	"time"

	"fieldops-backend/internal/database"
	"fieldops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// openTestDB opens a throwaway SQLite database and runs the real
// migrations against it. The engine's SQL is written portably for exactly
// this reason.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "fieldops.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedCompany inserts a company with the given geofence radius and returns
// its id.
func seedCompany(t *testing.T, db *sqlx.DB, radiusM int) string {
	t.Helper()

	companyID := uuid.New().String()
	_, err := db.Exec(`INSERT INTO companies (
			id, company_name, industry_type, gst, head_office_location,
			admin_email, admin_mobile, visit_radius_m, visits_per_day_target,
			sales_target, working_hours_start, working_hours_end,
			product_categories, dealer_types, created_at
		) VALUES ($1, $2, 'FMCG', NULL, 'Mumbai', $3, '9000000000', $4, $5, NULL, '09:00', '18:00', '[]', '[]', $6)`,
		companyID, "Test Co "+companyID[:8], companyID[:8]+"@test.local",
		radiusM, models.DefaultVisitsPerDayTarget, time.Now().Unix())
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return companyID
}

// seedExecutive inserts a sales executive for the company and returns its id.
func seedExecutive(t *testing.T, db *sqlx.DB, companyID string) string {
	t.Helper()

	now := time.Now().Unix()
	userID := uuid.New().String()
	_, err := db.Exec(`INSERT INTO users (
			id, company_id, name, email, mobile, password, role,
			employee_code, product_category_access, is_in_market, created_at, updated_at
		) VALUES ($1, $2, 'Test Exec', $3, '9000000001', 'x', $4, 'EMP001', '[]', FALSE, $5, $6)`,
		userID, companyID, userID[:8]+"@exec.local", models.RoleSalesExecutive, now, now)
	if err != nil {
		t.Fatalf("seed executive: %v", err)
	}
	return userID
}

// seedDealer inserts a dealer at the given position and returns its id.
func seedDealer(t *testing.T, db *sqlx.DB, companyID, territoryID, name string, lat, lng float64, priority int) string {
	t.Helper()

	dealerID := uuid.New().String()
	_, err := db.Exec(`INSERT INTO dealers (
			id, company_id, name, dealer_type, category_mapping, lat, lng,
			address, territory_id, visit_frequency, priority_level,
			contact_person, phone, last_visit_date, next_visit_due, created_at
		) VALUES ($1, $2, $3, 'Retailer', '[]', $4, $5, 'Test Address', $6, 'Weekly', $7, NULL, NULL, NULL, NULL, $8)`,
		dealerID, companyID, name, lat, lng, territoryID, priority, time.Now().Unix())
	if err != nil {
		t.Fatalf("seed dealer: %v", err)
	}
	return dealerID
}

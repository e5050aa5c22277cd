package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"fieldops-backend/internal/database"
	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

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

// withClaims injects authenticated user claims into the request context,
// the same way the Auth middleware does after validating a token.
func withClaims(r *http.Request, claims middleware.UserClaims) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
	return r.WithContext(ctx)
}

func insertCompany(t *testing.T, db *sqlx.DB, radiusM, target int) string {
	t.Helper()

	companyID := uuid.New().String()
	_, err := db.Exec(`INSERT INTO companies (
			id, company_name, industry_type, gst, head_office_location,
			admin_email, admin_mobile, visit_radius_m, visits_per_day_target,
			sales_target, working_hours_start, working_hours_end,
			product_categories, dealer_types, created_at
		) VALUES ($1, $2, 'FMCG', NULL, 'Mumbai', $3, '9000000000', $4, $5, NULL, '09:00', '18:00', '[]', '[]', $6)`,
		companyID, "Test Co "+companyID[:8], companyID[:8]+"@test.local",
		radiusM, target, time.Now().Unix())
	if err != nil {
		t.Fatalf("insert company: %v", err)
	}
	return companyID
}

func insertUser(t *testing.T, db *sqlx.DB, companyID, role string) string {
	t.Helper()

	now := time.Now().Unix()
	userID := uuid.New().String()
	_, err := db.Exec(`INSERT INTO users (
			id, company_id, name, email, mobile, password, role,
			employee_code, product_category_access, is_in_market, created_at, updated_at
		) VALUES ($1, $2, 'Test User', $3, '9000000001', 'x', $4, NULL, '[]', FALSE, $5, $6)`,
		userID, companyID, userID[:8]+"@user.local", role, now, now)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return userID
}

func insertDealer(t *testing.T, db *sqlx.DB, companyID, territoryID, name string, lat, lng float64, priority int) string {
	t.Helper()

	dealerID := uuid.New().String()
	_, err := db.Exec(`INSERT INTO dealers (
			id, company_id, name, dealer_type, category_mapping, lat, lng,
			address, territory_id, visit_frequency, priority_level,
			contact_person, phone, last_visit_date, next_visit_due, created_at
		) VALUES ($1, $2, $3, 'Retailer', '[]', $4, $5, 'Test Address', $6, 'Weekly', $7, NULL, NULL, NULL, NULL, $8)`,
		dealerID, companyID, name, lat, lng, territoryID, priority, time.Now().Unix())
	if err != nil {
		t.Fatalf("insert dealer: %v", err)
	}
	return dealerID
}

func insertVisit(t *testing.T, db *sqlx.DB, companyID, userID string, checkIn int64, closed bool, outcome *string, orderValue *float64, minutes *float64) string {
	t.Helper()

	visitID := uuid.New().String()
	var checkOut *int64
	var outLat, outLng *float64
	if closed {
		out := checkIn + 1800
		checkOut = &out
		lat, lng := 19.0760, 72.8777
		outLat, outLng = &lat, &lng
	}
	_, err := db.Exec(`INSERT INTO visits (
			id, company_id, user_id, dealer_id, dealer_name,
			check_in_time, check_in_lat, check_in_lng,
			check_out_time, check_out_lat, check_out_lng,
			outcome, order_value, notes, next_visit_date,
			time_spent_minutes, distance_from_dealer
		) VALUES ($1, $2, $3, 'd1', 'Fixture Dealer', $4, 19.0760, 72.8777,
			$5, $6, $7, $8, $9, NULL, NULL, $10, 42.0)`,
		visitID, companyID, userID, checkIn, checkOut, outLat, outLng, outcome, orderValue, minutes)
	if err != nil {
		t.Fatalf("insert visit: %v", err)
	}
	return visitID
}

func execClaims(userID, companyID string) middleware.UserClaims {
	return middleware.UserClaims{
		UserID:    userID,
		Email:     "exec@test.local",
		Role:      models.RoleSalesExecutive,
		CompanyID: companyID,
	}
}

func adminClaims(userID, companyID string) middleware.UserClaims {
	return middleware.UserClaims{
		UserID:    userID,
		Email:     "admin@test.local",
		Role:      models.RoleAdmin,
		CompanyID: companyID,
	}
}

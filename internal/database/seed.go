package database

import (
	"log"
	"time"

	"fieldops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemo creates a demo company with an admin, a sales executive, one
// territory and a handful of dealers around Mumbai. Skipped when any
// company already exists.
func SeedDemo(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM companies"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Companies already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo company...")
	now := time.Now().Unix()
	companyID := uuid.New().String()

	_, err := db.Exec(`INSERT INTO companies (
			id, company_name, industry_type, gst, head_office_location,
			admin_email, admin_mobile, visit_radius_m, visits_per_day_target,
			sales_target, working_hours_start, working_hours_end,
			product_categories, dealer_types, created_at
		) VALUES ($1, $2, $3, NULL, $4, $5, $6, $7, $8, NULL, '09:00', '18:00', $9, $10, $11)`,
		companyID, "Demo Distribution Co", "FMCG", "Mumbai",
		"admin@demo.fieldops", "9000000001",
		models.DefaultVisitRadiusM, models.DefaultVisitsPerDayTarget,
		models.EncodeStringList([]string{"Beverages", "Snacks", "Personal Care"}),
		models.EncodeStringList([]string{"Retailer", "Distributor", "Wholesaler"}),
		now)
	if err != nil {
		return err
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	execHash, err := bcrypt.GenerateFromPassword([]byte("exec123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminID := uuid.New().String()
	_, err = db.Exec(`INSERT INTO users (
			id, company_id, name, email, mobile, password, role,
			employee_code, product_category_access, is_in_market, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, '[]', FALSE, $8, $9)`,
		adminID, companyID, "Demo Admin", "admin@demo.fieldops", "9000000001",
		string(adminHash), models.RoleSuperAdmin, now, now)
	if err != nil {
		return err
	}

	execID := uuid.New().String()
	_, err = db.Exec(`INSERT INTO users (
			id, company_id, name, email, mobile, password, role,
			employee_code, product_category_access, is_in_market, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]', FALSE, $9, $10)`,
		execID, companyID, "Demo Executive", "exec@demo.fieldops", "9000000002",
		string(execHash), models.RoleSalesExecutive, "EMP001", now, now)
	if err != nil {
		return err
	}

	territoryID := uuid.New().String()
	_, err = db.Exec(`INSERT INTO territories (id, company_id, name, type, parent_id, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6, $7)`,
		territoryID, companyID, "Bandra West", "Area", 19.0596, 72.8295, now)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT INTO user_territories (user_id, territory_id) VALUES ($1, $2)`,
		execID, territoryID)
	if err != nil {
		return err
	}

	dealers := []struct {
		name     string
		dtype    string
		lat, lng float64
		priority int
	}{
		{"Shree Ganesh Stores", "Retailer", 19.0598, 72.8299, 1},
		{"Bandra Supermart", "Retailer", 19.0612, 72.8310, 2},
		{"Linking Road Traders", "Wholesaler", 19.0630, 72.8330, 1},
		{"Hill Road Distribution", "Distributor", 19.0555, 72.8270, 3},
	}
	for _, d := range dealers {
		_, err = db.Exec(`INSERT INTO dealers (
				id, company_id, name, dealer_type, category_mapping, lat, lng,
				address, territory_id, visit_frequency, priority_level,
				contact_person, phone, last_visit_date, next_visit_due, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'Weekly', $10, NULL, NULL, NULL, NULL, $11)`,
			uuid.New().String(), companyID, d.name, d.dtype,
			models.EncodeStringList([]string{"Beverages"}),
			d.lat, d.lng, "Bandra West, Mumbai", territoryID, d.priority, now)
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded demo company %s (%d dealers)", companyID, len(dealers))
	return nil
}

package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to database...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

// Migrate creates the schema. Statements are idempotent and written
// portably: timestamps are epoch-second BIGINTs set from Go, IDs are
// client-generated UUID strings, and no database-specific defaults or
// sequences appear, so tests can run the same DDL against SQLite.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Companies (tenant + field-visit configuration)
		`CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			company_name TEXT NOT NULL UNIQUE,
			industry_type TEXT NOT NULL,
			gst TEXT,
			head_office_location TEXT NOT NULL,
			admin_email TEXT NOT NULL,
			admin_mobile TEXT NOT NULL,
			visit_radius_m BIGINT NOT NULL DEFAULT 500,
			visits_per_day_target BIGINT NOT NULL DEFAULT 10,
			sales_target DOUBLE PRECISION,
			working_hours_start TEXT NOT NULL DEFAULT '09:00',
			working_hours_end TEXT NOT NULL DEFAULT '18:00',
			product_categories TEXT NOT NULL DEFAULT '[]',
			dealer_types TEXT NOT NULL DEFAULT '[]',
			created_at BIGINT NOT NULL
		)`,

		// Users (admins and sales executives)
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			mobile TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('super_admin', 'admin', 'sales_executive')),
			employee_code TEXT,
			product_category_access TEXT NOT NULL DEFAULT '[]',
			current_lat DOUBLE PRECISION,
			current_lng DOUBLE PRECISION,
			last_location_update BIGINT,
			is_in_market BOOLEAN NOT NULL DEFAULT FALSE,
			market_start_time BIGINT,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		// Territory assignments for sales executives
		`CREATE TABLE IF NOT EXISTS user_territories (
			user_id TEXT NOT NULL,
			territory_id TEXT NOT NULL,
			PRIMARY KEY (user_id, territory_id)
		)`,

		// Territories (State/City/Area/Beat hierarchy)
		`CREATE TABLE IF NOT EXISTS territories (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			parent_id TEXT,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			created_at BIGINT NOT NULL
		)`,

		// Dealers
		`CREATE TABLE IF NOT EXISTS dealers (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name TEXT NOT NULL,
			dealer_type TEXT NOT NULL,
			category_mapping TEXT NOT NULL DEFAULT '[]',
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			address TEXT NOT NULL,
			territory_id TEXT NOT NULL,
			visit_frequency TEXT NOT NULL DEFAULT 'Weekly',
			priority_level BIGINT NOT NULL DEFAULT 1,
			contact_person TEXT,
			phone TEXT,
			last_visit_date BIGINT,
			next_visit_due TEXT,
			created_at BIGINT NOT NULL
		)`,

		// Market sessions (one open session per executive at most)
		`CREATE TABLE IF NOT EXISTS market_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			start_time BIGINT NOT NULL,
			start_lat DOUBLE PRECISION NOT NULL,
			start_lng DOUBLE PRECISION NOT NULL,
			end_time BIGINT,
			total_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
			visits_completed BIGINT NOT NULL DEFAULT 0,
			lost_visits BIGINT NOT NULL DEFAULT 0
		)`,

		// Visits (open until check-out fields are set)
		`CREATE TABLE IF NOT EXISTS visits (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			dealer_id TEXT NOT NULL,
			dealer_name TEXT NOT NULL,
			check_in_time BIGINT NOT NULL,
			check_in_lat DOUBLE PRECISION NOT NULL,
			check_in_lng DOUBLE PRECISION NOT NULL,
			check_out_time BIGINT,
			check_out_lat DOUBLE PRECISION,
			check_out_lng DOUBLE PRECISION,
			outcome TEXT,
			order_value DOUBLE PRECISION,
			notes TEXT,
			next_visit_date TEXT,
			time_spent_minutes DOUBLE PRECISION,
			distance_from_dealer DOUBLE PRECISION NOT NULL
		)`,

		// Lookup paths the engine depends on
		`CREATE INDEX IF NOT EXISTS idx_users_company_role ON users(company_id, role)`,
		`CREATE INDEX IF NOT EXISTS idx_dealers_company ON dealers(company_id, territory_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_open ON market_sessions(user_id, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_company_time ON visits(company_id, check_in_time)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_user ON visits(user_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

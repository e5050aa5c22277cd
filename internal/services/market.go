package services

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"fieldops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// StartMarket opens a new market session for the executive. Fails with
// InvalidState when the executive is already in market, so at most one
// session is ever open per executive.
func StartMarket(db *sqlx.DB, companyID, userID string, lat, lng float64) (*models.MarketSession, error) {
	var user models.User
	if err := db.Get(&user, `SELECT * FROM users WHERE id = $1 AND company_id = $2`, userID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("User not found")
		}
		return nil, err
	}
	if user.IsInMarket {
		return nil, invalidState("Market session already active")
	}

	now := time.Now().Unix()
	_, err := db.Exec(`UPDATE users
		SET is_in_market = TRUE,
			market_start_time = $1,
			current_lat = $2,
			current_lng = $3,
			last_location_update = $4,
			updated_at = $5
		WHERE id = $6`,
		now, lat, lng, now, now, userID)
	if err != nil {
		return nil, err
	}

	session := models.MarketSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		CompanyID: companyID,
		StartTime: now,
		StartLat:  lat,
		StartLng:  lng,
	}
	_, err = db.Exec(`INSERT INTO market_sessions (
			id, user_id, company_id, start_time, start_lat, start_lng,
			end_time, total_distance, visits_completed, lost_visits
		) VALUES ($1, $2, $3, $4, $5, $6, NULL, 0, 0, 0)`,
		session.ID, session.UserID, session.CompanyID,
		session.StartTime, session.StartLat, session.StartLng)
	if err != nil {
		return nil, err
	}

	log.Printf("🏪 Market started: user %s, session %s", userID, session.ID)
	return &session, nil
}

// EndMarket closes the executive's most recently started open session and
// clears the in-market flag. Ending with no open session is tolerated as a
// no-op (clients double-submit end requests); the returned session is nil
// in that case.
func EndMarket(db *sqlx.DB, companyID, userID string) (*models.MarketSession, error) {
	now := time.Now().Unix()
	_, err := db.Exec(`UPDATE users
		SET is_in_market = FALSE,
			market_start_time = NULL,
			updated_at = $1
		WHERE id = $2 AND company_id = $3`,
		now, userID, companyID)
	if err != nil {
		return nil, err
	}

	var session models.MarketSession
	err = db.Get(&session, `SELECT * FROM market_sessions
		WHERE user_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("🏪 Market end for user %s: no open session (no-op)", userID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`UPDATE market_sessions SET end_time = $1 WHERE id = $2`, now, session.ID); err != nil {
		return nil, err
	}
	session.EndTime = &now

	log.Printf("🏪 Market ended: user %s, session %s (%d visits)", userID, session.ID, session.VisitsCompleted)
	return &session, nil
}

// RecordVisitCompletion increments visits_completed on the executive's open
// session. A checkout can race an end-market; when no session is open the
// increment is silently dropped.
func RecordVisitCompletion(db *sqlx.DB, userID string) error {
	_, err := db.Exec(`UPDATE market_sessions
		SET visits_completed = visits_completed + 1
		WHERE user_id = $1 AND end_time IS NULL`, userID)
	return err
}

// UpdateUserLocation overwrites the executive's current position and stamps
// the update time. Runs regardless of market state; last writer wins.
func UpdateUserLocation(db *sqlx.DB, companyID, userID string, lat, lng float64) error {
	now := time.Now().Unix()
	_, err := db.Exec(`UPDATE users
		SET current_lat = $1,
			current_lng = $2,
			last_location_update = $3,
			updated_at = $4
		WHERE id = $5 AND company_id = $6`,
		lat, lng, now, now, userID, companyID)
	return err
}

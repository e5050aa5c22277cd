package services

import (
	"database/sql"
	"errors"
	"log"
	"math"
	"time"

	"fieldops-backend/internal/geo"
	"fieldops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CheckOutInput carries the outcome fields recorded when a visit closes.
type CheckOutInput struct {
	Outcome       string   `json:"outcome"`
	OrderValue    *float64 `json:"order_value"`
	Notes         *string  `json:"notes"`
	NextVisitDate *string  `json:"next_visit_date"`
}

// CheckIn opens a visit at the dealer, gated by the company geofence.
// The computed distance is recorded on the visit; beyond-radius attempts
// fail with OutOfRange carrying both the distance and the radius. Check-in
// does not require an open market session.
func CheckIn(db *sqlx.DB, companyID, userID, dealerID string, lat, lng float64) (*models.Visit, error) {
	var dealer models.Dealer
	err := db.Get(&dealer, `SELECT * FROM dealers WHERE id = $1 AND company_id = $2`, dealerID, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Dealer not found")
	}
	if err != nil {
		return nil, err
	}

	radius := VisitRadius(db, companyID)
	distance := geo.DistanceMeters(lat, lng, dealer.Lat, dealer.Lng)
	if distance > float64(radius) {
		log.Printf("🚫 Check-in rejected: user %s is %.0fm from dealer %s (radius %dm)",
			userID, distance, dealer.Name, radius)
		return nil, outOfRange(distance, radius)
	}

	visit := models.Visit{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		UserID:             userID,
		DealerID:           dealer.ID,
		DealerName:         dealer.Name,
		CheckInTime:        time.Now().Unix(),
		CheckInLat:         lat,
		CheckInLng:         lng,
		DistanceFromDealer: math.Round(distance*100) / 100,
	}
	_, err = db.Exec(`INSERT INTO visits (
			id, company_id, user_id, dealer_id, dealer_name,
			check_in_time, check_in_lat, check_in_lng,
			check_out_time, check_out_lat, check_out_lng,
			outcome, order_value, notes, next_visit_date,
			time_spent_minutes, distance_from_dealer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, $9)`,
		visit.ID, visit.CompanyID, visit.UserID, visit.DealerID, visit.DealerName,
		visit.CheckInTime, visit.CheckInLat, visit.CheckInLng,
		visit.DistanceFromDealer)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Check-in: user %s at dealer %s (%.0fm away)", userID, dealer.Name, distance)
	return &visit, nil
}

// CheckOut finalizes an open visit exactly once: records check-out time,
// location, outcome and elapsed minutes, then runs the best-effort side
// effects (dealer last-visit denormalization, session counter). Side-effect
// failures are logged and swallowed; the visit write is the operation's
// sole source of truth.
func CheckOut(db *sqlx.DB, userID, visitID string, in CheckOutInput, lat, lng float64) (*models.Visit, error) {
	var visit models.Visit
	err := db.Get(&visit, `SELECT * FROM visits WHERE id = $1 AND user_id = $2`, visitID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Visit not found")
	}
	if err != nil {
		return nil, err
	}
	if visit.IsClosed() {
		return nil, invalidState("Visit already checked out")
	}

	now := time.Now().Unix()
	elapsed := math.Round(float64(now-visit.CheckInTime)/60*100) / 100

	_, err = db.Exec(`UPDATE visits SET
			check_out_time = $1,
			check_out_lat = $2,
			check_out_lng = $3,
			outcome = $4,
			order_value = $5,
			notes = $6,
			next_visit_date = $7,
			time_spent_minutes = $8
		WHERE id = $9`,
		now, lat, lng, in.Outcome, in.OrderValue, in.Notes, in.NextVisitDate, elapsed, visitID)
	if err != nil {
		return nil, err
	}

	visit.CheckOutTime = &now
	visit.CheckOutLat = &lat
	visit.CheckOutLng = &lng
	visit.Outcome = &in.Outcome
	visit.OrderValue = in.OrderValue
	visit.Notes = in.Notes
	visit.NextVisitDate = in.NextVisitDate
	visit.TimeSpentMinutes = &elapsed

	// Best-effort side effects. Never fail the check-out over these.
	if _, err := db.Exec(`UPDATE dealers SET last_visit_date = $1, next_visit_due = $2 WHERE id = $3`,
		now, in.NextVisitDate, visit.DealerID); err != nil {
		log.Printf("⚠️  Could not update dealer %s after check-out: %v", visit.DealerID, err)
	}
	if err := RecordVisitCompletion(db, userID); err != nil {
		log.Printf("⚠️  Could not increment session counter for user %s: %v", userID, err)
	}

	log.Printf("✅ Check-out: visit %s closed after %.2f minutes (%s)", visitID, elapsed, in.Outcome)
	return &visit, nil
}

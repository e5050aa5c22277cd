package models

// VisitOutcome values recorded at check-out. "Lost Visit" is a plain
// outcome here; the reports layer is what treats it specially.
const (
	OutcomeOrderBooked      = "Order Booked"
	OutcomeFollowUpRequired = "Follow-up Required"
	OutcomeNoMeeting        = "No Meeting"
	OutcomeLostVisit        = "Lost Visit"
)

// ValidOutcome reports whether s is one of the known visit outcomes.
func ValidOutcome(s string) bool {
	switch s {
	case OutcomeOrderBooked, OutcomeFollowUpRequired, OutcomeNoMeeting, OutcomeLostVisit:
		return true
	}
	return false
}

// Visit is a single dealer visit. It is open while the check-out fields are
// null and immutable once they are set.
type Visit struct {
	ID                 string   `json:"id" db:"id"`
	CompanyID          string   `json:"company_id" db:"company_id"`
	UserID             string   `json:"user_id" db:"user_id"`
	DealerID           string   `json:"dealer_id" db:"dealer_id"`
	DealerName         string   `json:"dealer_name" db:"dealer_name"`
	CheckInTime        int64    `json:"check_in_time" db:"check_in_time"`
	CheckInLat         float64  `json:"check_in_lat" db:"check_in_lat"`
	CheckInLng         float64  `json:"check_in_lng" db:"check_in_lng"`
	CheckOutTime       *int64   `json:"check_out_time" db:"check_out_time"`
	CheckOutLat        *float64 `json:"check_out_lat" db:"check_out_lat"`
	CheckOutLng        *float64 `json:"check_out_lng" db:"check_out_lng"`
	Outcome            *string  `json:"outcome" db:"outcome"`
	OrderValue         *float64 `json:"order_value" db:"order_value"`
	Notes              *string  `json:"notes" db:"notes"`
	NextVisitDate      *string  `json:"next_visit_date" db:"next_visit_date"`
	TimeSpentMinutes   *float64 `json:"time_spent_minutes" db:"time_spent_minutes"`
	DistanceFromDealer float64  `json:"distance_from_dealer" db:"distance_from_dealer"`
}

// IsClosed reports whether the visit has been checked out.
func (v *Visit) IsClosed() bool {
	return v.CheckOutTime != nil
}

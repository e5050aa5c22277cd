package models

// MarketSession is one bounded in-market period for a sales executive.
// A session is open while end_time is null; at most one open session per
// executive exists (enforced by the session manager's start path).
type MarketSession struct {
	ID              string  `json:"id" db:"id"`
	UserID          string  `json:"user_id" db:"user_id"`
	CompanyID       string  `json:"company_id" db:"company_id"`
	StartTime       int64   `json:"start_time" db:"start_time"`
	StartLat        float64 `json:"start_lat" db:"start_lat"`
	StartLng        float64 `json:"start_lng" db:"start_lng"`
	EndTime         *int64  `json:"end_time" db:"end_time"`
	TotalDistance   float64 `json:"total_distance" db:"total_distance"` // reserved, not accumulated
	VisitsCompleted int     `json:"visits_completed" db:"visits_completed"`
	LostVisits      int     `json:"lost_visits" db:"lost_visits"`
}

// IsOpen reports whether the session has not been ended yet.
func (s *MarketSession) IsOpen() bool {
	return s.EndTime == nil
}

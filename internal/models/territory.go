package models

// Territory is a node in the company's sales geography hierarchy
// (State > City > Area > Beat). parent_id links upward.
type Territory struct {
	ID        string   `json:"id" db:"id"`
	CompanyID string   `json:"company_id" db:"company_id"`
	Name      string   `json:"name" db:"name"`
	Type      string   `json:"type" db:"type"`
	ParentID  *string  `json:"parent_id" db:"parent_id"`
	Lat       *float64 `json:"lat" db:"lat"`
	Lng       *float64 `json:"lng" db:"lng"`
	CreatedAt int64    `json:"created_at" db:"created_at"`
}

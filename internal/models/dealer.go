package models

// Dealer is a registered outlet a sales executive visits. last_visit_date
// and next_visit_due are denormalized from the most recently closed visit;
// everything else is managed by the admin CRUD surface.
type Dealer struct {
	ID              string  `json:"id" db:"id"`
	CompanyID       string  `json:"company_id" db:"company_id"`
	Name            string  `json:"name" db:"name"`
	DealerType      string  `json:"dealer_type" db:"dealer_type"`
	CategoryMapping string  `json:"-" db:"category_mapping"` // JSON-encoded []string
	Lat             float64 `json:"lat" db:"lat"`
	Lng             float64 `json:"lng" db:"lng"`
	Address         string  `json:"address" db:"address"`
	TerritoryID     string  `json:"territory_id" db:"territory_id"`
	VisitFrequency  string  `json:"visit_frequency" db:"visit_frequency"`
	PriorityLevel   int     `json:"priority_level" db:"priority_level"` // lower = higher priority
	ContactPerson   *string `json:"contact_person" db:"contact_person"`
	Phone           *string `json:"phone" db:"phone"`
	LastVisitDate   *int64  `json:"last_visit_date" db:"last_visit_date"`
	NextVisitDue    *string `json:"next_visit_due" db:"next_visit_due"`
	CreatedAt       int64   `json:"created_at" db:"created_at"`
}

// DealerResponse adds decoded categories to the dealer shape.
type DealerResponse struct {
	Dealer
	Categories []string `json:"category_mapping"`
}

func (d *Dealer) ToDealerResponse() DealerResponse {
	return DealerResponse{
		Dealer:     *d,
		Categories: DecodeStringList(d.CategoryMapping),
	}
}

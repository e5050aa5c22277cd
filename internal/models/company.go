package models

import "encoding/json"

// Company is the tenant record. Visit geofencing and daily targets are
// configured per company; every other record carries company_id for scoping.
type Company struct {
	ID                 string   `json:"id" db:"id"`
	CompanyName        string   `json:"company_name" db:"company_name"`
	IndustryType       string   `json:"industry_type" db:"industry_type"`
	GST                *string  `json:"gst" db:"gst"`
	HeadOfficeLocation string   `json:"head_office_location" db:"head_office_location"`
	AdminEmail         string   `json:"admin_email" db:"admin_email"`
	AdminMobile        string   `json:"admin_mobile" db:"admin_mobile"`
	VisitRadiusM       int      `json:"visit_radius" db:"visit_radius_m"`
	VisitsPerDayTarget int      `json:"visits_per_day_target" db:"visits_per_day_target"`
	SalesTarget        *float64 `json:"sales_target" db:"sales_target"`
	WorkingHoursStart  string   `json:"working_hours_start" db:"working_hours_start"`
	WorkingHoursEnd    string   `json:"working_hours_end" db:"working_hours_end"`
	ProductCategories  string   `json:"-" db:"product_categories"` // JSON-encoded []string
	DealerTypes        string   `json:"-" db:"dealer_types"`       // JSON-encoded []string
	CreatedAt          int64    `json:"created_at" db:"created_at"`
}

// Defaults applied at registration and used as fallbacks when a company
// record is missing config values.
const (
	DefaultVisitRadiusM       = 500
	DefaultVisitsPerDayTarget = 10
)

// EncodeStringList marshals a string slice for storage in a TEXT column.
func EncodeStringList(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// DecodeStringList unmarshals a TEXT column written by EncodeStringList.
// Malformed or empty input decodes to an empty slice.
func DecodeStringList(raw string) []string {
	var values []string
	if raw == "" || json.Unmarshal([]byte(raw), &values) != nil {
		return []string{}
	}
	return values
}

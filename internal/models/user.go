package models

// User roles
const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleSalesExecutive = "sales_executive"
)

type User struct {
	ID                    string   `json:"id" db:"id"`
	CompanyID             string   `json:"company_id" db:"company_id"`
	Name                  string   `json:"name" db:"name"`
	Email                 string   `json:"email" db:"email"`
	Mobile                string   `json:"mobile" db:"mobile"`
	Password              string   `json:"-" db:"password"` // Never return password in JSON
	Role                  string   `json:"role" db:"role"`
	EmployeeCode          *string  `json:"employee_code" db:"employee_code"`
	ProductCategoryAccess string   `json:"-" db:"product_category_access"` // JSON-encoded []string
	CurrentLat            *float64 `json:"current_lat" db:"current_lat"`
	CurrentLng            *float64 `json:"current_lng" db:"current_lng"`
	LastLocationUpdate    *int64   `json:"last_location_update" db:"last_location_update"`
	IsInMarket            bool     `json:"is_in_market" db:"is_in_market"`
	MarketStartTime       *int64   `json:"market_start_time" db:"market_start_time"`
	CreatedAt             int64    `json:"created_at" db:"created_at"`
	UpdatedAt             int64    `json:"updated_at" db:"updated_at"`
}

// UserResponse is the outward-facing user shape, with territory assignments
// resolved from the join table.
type UserResponse struct {
	ID                    string   `json:"id"`
	CompanyID             string   `json:"company_id"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Mobile                string   `json:"mobile"`
	Role                  string   `json:"role"`
	EmployeeCode          *string  `json:"employee_code,omitempty"`
	TerritoryIDs          []string `json:"territory_ids"`
	ProductCategoryAccess []string `json:"product_category_access"`
	CurrentLat            *float64 `json:"current_lat"`
	CurrentLng            *float64 `json:"current_lng"`
	LastLocationUpdate    *int64   `json:"last_location_update"`
	IsInMarket            bool     `json:"is_in_market"`
	MarketStartTime       *int64   `json:"market_start_time"`
	CreatedAt             int64    `json:"created_at"`
}

func (u *User) ToUserResponse(territoryIDs []string) UserResponse {
	if territoryIDs == nil {
		territoryIDs = []string{}
	}
	return UserResponse{
		ID:                    u.ID,
		CompanyID:             u.CompanyID,
		Name:                  u.Name,
		Email:                 u.Email,
		Mobile:                u.Mobile,
		Role:                  u.Role,
		EmployeeCode:          u.EmployeeCode,
		TerritoryIDs:          territoryIDs,
		ProductCategoryAccess: DecodeStringList(u.ProductCategoryAccess),
		CurrentLat:            u.CurrentLat,
		CurrentLng:            u.CurrentLng,
		LastLocationUpdate:    u.LastLocationUpdate,
		IsInMarket:            u.IsInMarket,
		MarketStartTime:       u.MarketStartTime,
		CreatedAt:             u.CreatedAt,
	}
}

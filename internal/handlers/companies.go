package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// CompanyConfigRequest is the editable field-visit configuration.
type CompanyConfigRequest struct {
	ProductCategories  []string `json:"product_categories"`
	DealerTypes        []string `json:"dealer_types"`
	WorkingHoursStart  string   `json:"working_hours_start"`
	WorkingHoursEnd    string   `json:"working_hours_end"`
	VisitRadius        int      `json:"visit_radius"`
	VisitsPerDayTarget int      `json:"visits_per_day_target"`
	SalesTarget        *float64 `json:"sales_target"`
}

// GetCompanyConfig returns the company record including its visit
// configuration.
func GetCompanyConfig(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var company models.Company
		if err := db.Get(&company, `SELECT * FROM companies WHERE id = $1`, claims.CompanyID); err != nil {
			utils.RespondError(w, http.StatusNotFound, "Company not found")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"id":                   company.ID,
			"company_name":         company.CompanyName,
			"industry_type":        company.IndustryType,
			"gst":                  company.GST,
			"head_office_location": company.HeadOfficeLocation,
			"admin_email":          company.AdminEmail,
			"admin_mobile":         company.AdminMobile,
			"config": map[string]interface{}{
				"product_categories":    models.DecodeStringList(company.ProductCategories),
				"dealer_types":          models.DecodeStringList(company.DealerTypes),
				"working_hours":         map[string]string{"start": company.WorkingHoursStart, "end": company.WorkingHoursEnd},
				"visit_radius":          company.VisitRadiusM,
				"visits_per_day_target": company.VisitsPerDayTarget,
				"sales_target":          company.SalesTarget,
			},
			"created_at": company.CreatedAt,
		})
	}
}

// UpdateCompanyConfig replaces the company's visit configuration.
// Zero radius/target fall back to the documented defaults.
func UpdateCompanyConfig(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CompanyConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.VisitRadius <= 0 {
			req.VisitRadius = models.DefaultVisitRadiusM
		}
		if req.VisitsPerDayTarget <= 0 {
			req.VisitsPerDayTarget = models.DefaultVisitsPerDayTarget
		}
		if req.WorkingHoursStart == "" {
			req.WorkingHoursStart = "09:00"
		}
		if req.WorkingHoursEnd == "" {
			req.WorkingHoursEnd = "18:00"
		}

		_, err := db.Exec(`UPDATE companies SET
				product_categories = $1,
				dealer_types = $2,
				working_hours_start = $3,
				working_hours_end = $4,
				visit_radius_m = $5,
				visits_per_day_target = $6,
				sales_target = $7
			WHERE id = $8`,
			models.EncodeStringList(req.ProductCategories),
			models.EncodeStringList(req.DealerTypes),
			req.WorkingHoursStart, req.WorkingHoursEnd,
			req.VisitRadius, req.VisitsPerDayTarget, req.SalesTarget,
			claims.CompanyID)
		if err != nil {
			log.Printf("❌ Failed to update company config: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update configuration")
			return
		}

		log.Printf("✅ Company config updated: %s (radius %dm, target %d/day)",
			claims.CompanyID, req.VisitRadius, req.VisitsPerDayTarget)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Configuration updated"})
	}
}

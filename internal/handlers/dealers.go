package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DealerRequest struct {
	Name            string   `json:"name"`
	DealerType      string   `json:"dealer_type"`
	CategoryMapping []string `json:"category_mapping"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Address         string   `json:"address"`
	TerritoryID     string   `json:"territory_id"`
	VisitFrequency  string   `json:"visit_frequency"`
	PriorityLevel   int      `json:"priority_level"`
	ContactPerson   *string  `json:"contact_person"`
	Phone           *string  `json:"phone"`
}

func CreateDealer(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req DealerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.TerritoryID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name and territory_id are required")
			return
		}
		if req.VisitFrequency == "" {
			req.VisitFrequency = "Weekly"
		}
		if req.PriorityLevel <= 0 {
			req.PriorityLevel = 1
		}

		dealer := models.Dealer{
			ID:              uuid.New().String(),
			CompanyID:       claims.CompanyID,
			Name:            req.Name,
			DealerType:      req.DealerType,
			CategoryMapping: models.EncodeStringList(req.CategoryMapping),
			Lat:             req.Lat,
			Lng:             req.Lng,
			Address:         req.Address,
			TerritoryID:     req.TerritoryID,
			VisitFrequency:  req.VisitFrequency,
			PriorityLevel:   req.PriorityLevel,
			ContactPerson:   req.ContactPerson,
			Phone:           req.Phone,
			CreatedAt:       time.Now().Unix(),
		}
		_, err := db.Exec(`INSERT INTO dealers (
				id, company_id, name, dealer_type, category_mapping, lat, lng,
				address, territory_id, visit_frequency, priority_level,
				contact_person, phone, last_visit_date, next_visit_due, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULL, NULL, $14)`,
			dealer.ID, dealer.CompanyID, dealer.Name, dealer.DealerType, dealer.CategoryMapping,
			dealer.Lat, dealer.Lng, dealer.Address, dealer.TerritoryID, dealer.VisitFrequency,
			dealer.PriorityLevel, dealer.ContactPerson, dealer.Phone, dealer.CreatedAt)
		if err != nil {
			log.Printf("❌ Failed to create dealer: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create dealer")
			return
		}

		log.Printf("✅ Dealer created: %s (%s, priority %d)", dealer.Name, dealer.ID, dealer.PriorityLevel)
		utils.RespondJSON(w, http.StatusCreated, dealer.ToDealerResponse())
	}
}

// GetDealers lists company dealers, optionally filtered to one territory.
func GetDealers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		dealers := []models.Dealer{}
		var err error
		if territoryID := r.URL.Query().Get("territory_id"); territoryID != "" {
			err = db.Select(&dealers, `SELECT * FROM dealers WHERE company_id = $1 AND territory_id = $2 ORDER BY created_at`,
				claims.CompanyID, territoryID)
		} else {
			err = db.Select(&dealers, `SELECT * FROM dealers WHERE company_id = $1 ORDER BY created_at`, claims.CompanyID)
		}
		if err != nil {
			log.Printf("❌ Failed to list dealers: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		responses := make([]models.DealerResponse, 0, len(dealers))
		for i := range dealers {
			responses = append(responses, dealers[i].ToDealerResponse())
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

func UpdateDealer(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		dealerID := chi.URLParam(r, "id")

		var req DealerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := db.Exec(`UPDATE dealers SET
				name = $1, dealer_type = $2, category_mapping = $3, lat = $4, lng = $5,
				address = $6, territory_id = $7, visit_frequency = $8, priority_level = $9,
				contact_person = $10, phone = $11
			WHERE id = $12 AND company_id = $13`,
			req.Name, req.DealerType, models.EncodeStringList(req.CategoryMapping),
			req.Lat, req.Lng, req.Address, req.TerritoryID, req.VisitFrequency,
			req.PriorityLevel, req.ContactPerson, req.Phone,
			dealerID, claims.CompanyID)
		if err != nil {
			log.Printf("❌ Failed to update dealer %s: %v", dealerID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update dealer")
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Dealer not found")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Dealer updated"})
	}
}

func DeleteDealer(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		dealerID := chi.URLParam(r, "id")

		if _, err := db.Exec(`DELETE FROM dealers WHERE id = $1 AND company_id = $2`, dealerID, claims.CompanyID); err != nil {
			log.Printf("❌ Failed to delete dealer %s: %v", dealerID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete dealer")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Dealer deleted"})
	}
}

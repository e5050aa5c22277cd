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

type TerritoryRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // State, City, Area, Beat
	ParentID *string  `json:"parent_id"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

func CreateTerritory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req TerritoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Type == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name and type are required")
			return
		}

		territory := models.Territory{
			ID:        uuid.New().String(),
			CompanyID: claims.CompanyID,
			Name:      req.Name,
			Type:      req.Type,
			ParentID:  req.ParentID,
			Lat:       req.Lat,
			Lng:       req.Lng,
			CreatedAt: time.Now().Unix(),
		}
		_, err := db.Exec(`INSERT INTO territories (id, company_id, name, type, parent_id, lat, lng, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			territory.ID, territory.CompanyID, territory.Name, territory.Type,
			territory.ParentID, territory.Lat, territory.Lng, territory.CreatedAt)
		if err != nil {
			log.Printf("❌ Failed to create territory: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create territory")
			return
		}

		log.Printf("✅ Territory created: %s (%s)", territory.Name, territory.ID)
		utils.RespondJSON(w, http.StatusCreated, territory)
	}
}

func GetTerritories(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		territories := []models.Territory{}
		err := db.Select(&territories, `SELECT * FROM territories WHERE company_id = $1 ORDER BY created_at`, claims.CompanyID)
		if err != nil {
			log.Printf("❌ Failed to list territories: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, territories)
	}
}

func UpdateTerritory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		territoryID := chi.URLParam(r, "id")

		var req TerritoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := db.Exec(`UPDATE territories SET name = $1, type = $2, parent_id = $3, lat = $4, lng = $5
			WHERE id = $6 AND company_id = $7`,
			req.Name, req.Type, req.ParentID, req.Lat, req.Lng, territoryID, claims.CompanyID)
		if err != nil {
			log.Printf("❌ Failed to update territory %s: %v", territoryID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update territory")
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Territory not found")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Territory updated"})
	}
}

func DeleteTerritory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		territoryID := chi.URLParam(r, "id")

		if _, err := db.Exec(`DELETE FROM territories WHERE id = $1 AND company_id = $2`, territoryID, claims.CompanyID); err != nil {
			log.Printf("❌ Failed to delete territory %s: %v", territoryID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete territory")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Territory deleted"})
	}
}

package handlers

import (
	"log"
	"net/http"

	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// GetLiveTracking returns a snapshot of every sales executive with their
// last reported position and in-market flag. Pull-based: clients poll this
// endpoint rather than receiving pushed location updates.
func GetLiveTracking(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		executives := []models.User{}
		err := db.Select(&executives, `SELECT * FROM users WHERE company_id = $1 AND role = $2 ORDER BY name`,
			claims.CompanyID, models.RoleSalesExecutive)
		if err != nil {
			log.Printf("❌ Live tracking scan failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		responses := make([]models.UserResponse, 0, len(executives))
		for i := range executives {
			territoryIDs, err := loadTerritoryIDs(db, executives[i].ID)
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
			responses = append(responses, executives[i].ToUserResponse(territoryIDs))
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

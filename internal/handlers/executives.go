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

type CreateExecutiveRequest struct {
	Name                  string   `json:"name"`
	Mobile                string   `json:"mobile"`
	Email                 string   `json:"email"`
	Password              string   `json:"password"`
	EmployeeCode          string   `json:"employee_code"`
	TerritoryIDs          []string `json:"territory_ids"`
	ProductCategoryAccess []string `json:"product_category_access"`
}

// CreateExecutive registers a sales executive under the admin's company.
func CreateExecutive(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateExecutiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name, email and password are required")
			return
		}

		var existing int
		if err := db.Get(&existing, `SELECT COUNT(*) FROM users WHERE email = $1`, req.Email); err == nil && existing > 0 {
			utils.RespondError(w, http.StatusBadRequest, "Email already exists")
			return
		}

		hashed, err := hashPassword(req.Password)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		now := time.Now().Unix()
		userID := uuid.New().String()
		employeeCode := &req.EmployeeCode
		if req.EmployeeCode == "" {
			employeeCode = nil
		}

		_, err = db.Exec(`INSERT INTO users (
				id, company_id, name, email, mobile, password, role,
				employee_code, product_category_access, is_in_market, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $11)`,
			userID, claims.CompanyID, req.Name, req.Email, req.Mobile, hashed,
			models.RoleSalesExecutive, employeeCode,
			models.EncodeStringList(req.ProductCategoryAccess), now, now)
		if err != nil {
			log.Printf("❌ Failed to create executive: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create sales executive")
			return
		}

		for _, territoryID := range req.TerritoryIDs {
			if _, err := db.Exec(`INSERT INTO user_territories (user_id, territory_id) VALUES ($1, $2)`,
				userID, territoryID); err != nil {
				log.Printf("⚠️  Could not assign territory %s to %s: %v", territoryID, userID, err)
			}
		}

		log.Printf("✅ Sales executive created: %s (%s)", req.Name, userID)
		utils.RespondJSON(w, http.StatusCreated, map[string]string{
			"id":    userID,
			"name":  req.Name,
			"email": req.Email,
		})
	}
}

// GetExecutives lists the company's sales executives with their territory
// assignments.
func GetExecutives(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		executives := []models.User{}
		err := db.Select(&executives, `SELECT * FROM users WHERE company_id = $1 AND role = $2 ORDER BY created_at`,
			claims.CompanyID, models.RoleSalesExecutive)
		if err != nil {
			log.Printf("❌ Failed to list executives: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		responses := make([]models.UserResponse, 0, len(executives))
		for i := range executives {
			territoryIDs, err := loadTerritoryIDs(db, executives[i].ID)
			if err != nil {
				log.Printf("❌ Failed to load territories for %s: %v", executives[i].ID, err)
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
			responses = append(responses, executives[i].ToUserResponse(territoryIDs))
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// AssignTerritories replaces an executive's territory assignment set.
func AssignTerritories(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		execID := chi.URLParam(r, "id")

		var territoryIDs []string
		if err := json.NewDecoder(r.Body).Decode(&territoryIDs); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var exists int
		err := db.Get(&exists, `SELECT COUNT(*) FROM users WHERE id = $1 AND company_id = $2 AND role = $3`,
			execID, claims.CompanyID, models.RoleSalesExecutive)
		if err != nil || exists == 0 {
			utils.RespondError(w, http.StatusNotFound, "Sales executive not found")
			return
		}

		if _, err := db.Exec(`DELETE FROM user_territories WHERE user_id = $1`, execID); err != nil {
			log.Printf("❌ Failed to clear territories for %s: %v", execID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to assign territories")
			return
		}
		for _, territoryID := range territoryIDs {
			if _, err := db.Exec(`INSERT INTO user_territories (user_id, territory_id) VALUES ($1, $2)`,
				execID, territoryID); err != nil {
				log.Printf("❌ Failed to assign territory %s to %s: %v", territoryID, execID, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to assign territories")
				return
			}
		}

		log.Printf("✅ Territories assigned to %s: %v", execID, territoryIDs)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Territory assigned"})
	}
}

func DeleteExecutive(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		execID := chi.URLParam(r, "id")

		_, err := db.Exec(`DELETE FROM users WHERE id = $1 AND company_id = $2 AND role = $3`,
			execID, claims.CompanyID, models.RoleSalesExecutive)
		if err != nil {
			log.Printf("❌ Failed to delete executive %s: %v", execID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete sales executive")
			return
		}
		if _, err := db.Exec(`DELETE FROM user_territories WHERE user_id = $1`, execID); err != nil {
			log.Printf("⚠️  Could not clear territories for deleted executive %s: %v", execID, err)
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Sales executive deleted"})
	}
}

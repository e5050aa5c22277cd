package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
}

type RegisterCompanyRequest struct {
	CompanyName        string  `json:"company_name"`
	IndustryType       string  `json:"industry_type"`
	GST                *string `json:"gst"`
	HeadOfficeLocation string  `json:"head_office_location"`
	AdminEmail         string  `json:"admin_email"`
	AdminMobile        string  `json:"admin_mobile"`
	AdminName          string  `json:"admin_name"`
	Password           string  `json:"password"`
}

func createToken(userID, email, role, companyID string) (string, error) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	if jwtSecret == "" {
		return "", ErrJWTNotConfigured
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"email":      email,
		"role":       role,
		"company_id": companyID,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(jwtSecret))
}

// Login authenticates by email and password and returns a JWT scoped to
// the user's company.
func Login(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Email)

		var user models.User
		if err := db.Get(&user, `SELECT * FROM users WHERE email = $1`, req.Email); err != nil {
			log.Printf("❌ User not found: %s", req.Email)
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Email)
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		tokenString, err := createToken(user.ID, user.Email, user.Role, user.CompanyID)
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)
		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			Token:     tokenString,
			UserID:    user.ID,
			CompanyID: user.CompanyID,
			Role:      user.Role,
			Name:      user.Name,
		})
	}
}

// RegisterCompany creates a company with default field-visit configuration
// plus its super admin, and returns a ready-to-use token.
func RegisterCompany(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/company/register")

		var req RegisterCompanyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.CompanyName == "" || req.AdminEmail == "" || req.Password == "" || req.AdminName == "" {
			utils.RespondError(w, http.StatusBadRequest, "Company name, admin name, email and password are required")
			return
		}

		var existing int
		err := db.Get(&existing, `SELECT COUNT(*) FROM companies WHERE company_name = $1 OR admin_email = $2`,
			req.CompanyName, req.AdminEmail)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if existing > 0 {
			utils.RespondError(w, http.StatusBadRequest, "Company or email already exists")
			return
		}
		var existingUser int
		if err := db.Get(&existingUser, `SELECT COUNT(*) FROM users WHERE email = $1`, req.AdminEmail); err == nil && existingUser > 0 {
			utils.RespondError(w, http.StatusBadRequest, "Company or email already exists")
			return
		}

		now := time.Now().Unix()
		companyID := uuid.New().String()
		userID := uuid.New().String()

		_, err = db.Exec(`INSERT INTO companies (
				id, company_name, industry_type, gst, head_office_location,
				admin_email, admin_mobile, visit_radius_m, visits_per_day_target,
				sales_target, working_hours_start, working_hours_end,
				product_categories, dealer_types, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, '09:00', '18:00', $10, $11, $12)`,
			companyID, req.CompanyName, req.IndustryType, req.GST, req.HeadOfficeLocation,
			req.AdminEmail, req.AdminMobile,
			models.DefaultVisitRadiusM, models.DefaultVisitsPerDayTarget,
			models.EncodeStringList(nil),
			models.EncodeStringList([]string{"Retailer", "Distributor", "Wholesaler"}),
			now)
		if err != nil {
			log.Printf("❌ Failed to create company: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create company")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		_, err = db.Exec(`INSERT INTO users (
				id, company_id, name, email, mobile, password, role,
				employee_code, product_category_access, is_in_market, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, '[]', FALSE, $8, $9)`,
			userID, companyID, req.AdminName, req.AdminEmail, req.AdminMobile,
			string(hashed), models.RoleSuperAdmin, now, now)
		if err != nil {
			log.Printf("❌ Failed to create admin user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create admin user")
			return
		}

		tokenString, err := createToken(userID, req.AdminEmail, models.RoleSuperAdmin, companyID)
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Company registered: %s (%s)", req.CompanyName, companyID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"token":      tokenString,
			"user_id":    userID,
			"company_id": companyID,
			"role":       models.RoleSuperAdmin,
		})
	}
}

// GetMe returns the authenticated user's profile.
func GetMe(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var user models.User
		if err := db.Get(&user, `SELECT * FROM users WHERE id = $1`, claims.UserID); err != nil {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}

		territoryIDs, err := loadTerritoryIDs(db, user.ID)
		if err != nil {
			log.Printf("❌ Failed to load territories for %s: %v", user.ID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, user.ToUserResponse(territoryIDs))
	}
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"
	"fieldops-backend/internal/services"
	"fieldops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CheckInRequest struct {
	DealerID string  `json:"dealer_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// StartMarket opens a market session for the calling sales executive.
func StartMarket(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if claims.Role != models.RoleSalesExecutive {
			utils.RespondError(w, http.StatusForbidden, "Only sales executives can start market")
			return
		}

		var req LocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		session, err := services.StartMarket(db, claims.CompanyID, claims.UserID, req.Lat, req.Lng)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": session.ID,
			"start_time": session.StartTime,
		})
	}
}

// EndMarket closes the executive's open market session. Double submits are
// tolerated; the response carries no session when none was open.
func EndMarket(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if claims.Role != models.RoleSalesExecutive {
			utils.RespondError(w, http.StatusForbidden, "Only sales executives can end market")
			return
		}

		session, err := services.EndMarket(db, claims.CompanyID, claims.UserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		resp := map[string]interface{}{"message": "Market ended"}
		if session != nil {
			resp["end_time"] = *session.EndTime
			resp["session"] = session
		}
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

// NearbyDealers ranks the executive's candidate dealers around the given
// position. Candidates are the company's dealers restricted to the
// executive's assigned territories; with no assignments every company
// dealer is a candidate. Ranking itself is (priority, distance) within the
// company geofence radius.
func NearbyDealers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if errLat != nil || errLng != nil {
			utils.RespondError(w, http.StatusBadRequest, "lat and lng query parameters are required")
			return
		}

		territoryIDs, err := loadTerritoryIDs(db, claims.UserID)
		if err != nil {
			log.Printf("❌ Failed to load territories for %s: %v", claims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		candidates := []models.Dealer{}
		if len(territoryIDs) > 0 {
			query, args, err := sqlx.In(`SELECT * FROM dealers WHERE company_id = ? AND territory_id IN (?)`,
				claims.CompanyID, territoryIDs)
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
			err = db.Select(&candidates, db.Rebind(query), args...)
			if err != nil {
				log.Printf("❌ Failed to load candidate dealers: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
		} else {
			if err := db.Select(&candidates, `SELECT * FROM dealers WHERE company_id = $1`, claims.CompanyID); err != nil {
				log.Printf("❌ Failed to load candidate dealers: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
		}

		radius := services.VisitRadius(db, claims.CompanyID)
		nearby := services.RankNearby(lat, lng, radius, candidates)

		log.Printf("📍 Nearby dealers for %s: %d candidates, %d within %dm",
			claims.UserID, len(candidates), len(nearby), radius)
		utils.RespondJSON(w, http.StatusOK, nearby)
	}
}

// CheckIn opens a visit at a dealer, gated by the company geofence.
func CheckIn(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if claims.Role != models.RoleSalesExecutive {
			utils.RespondError(w, http.StatusForbidden, "Only sales executives can check in")
			return
		}

		var req CheckInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DealerID == "" {
			utils.RespondError(w, http.StatusBadRequest, "dealer_id is required")
			return
		}

		visit, err := services.CheckIn(db, claims.CompanyID, claims.UserID, req.DealerID, req.Lat, req.Lng)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"visit_id":      visit.ID,
			"check_in_time": visit.CheckInTime,
			"distance":      visit.DistanceFromDealer,
		})
	}
}

// CheckOut finalizes an open visit with its outcome.
func CheckOut(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		visitID := chi.URLParam(r, "id")

		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if errLat != nil || errLng != nil {
			utils.RespondError(w, http.StatusBadRequest, "lat and lng query parameters are required")
			return
		}

		var in services.CheckOutInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !models.ValidOutcome(in.Outcome) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid outcome")
			return
		}

		visit, err := services.CheckOut(db, claims.UserID, visitID, in, lat, lng)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message":            "Check-out complete",
			"time_spent_minutes": *visit.TimeSpentMinutes,
		})
	}
}

// UpdateLocation records the executive's current position, in market or
// not. Last writer wins.
func UpdateLocation(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req LocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := services.UpdateUserLocation(db, claims.CompanyID, claims.UserID, req.Lat, req.Lng); err != nil {
			log.Printf("❌ Failed to update location for %s: %v", claims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update location")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Location updated"})
	}
}

// GetTodayVisits lists today's (UTC) visits: the caller's own for
// executives, company-wide for admins.
func GetTodayVisits(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		dayStart, dayEnd := utcDayBounds()

		visits := []models.Visit{}
		var err error
		if claims.Role == models.RoleSalesExecutive {
			err = db.Select(&visits, `SELECT * FROM visits
				WHERE company_id = $1 AND user_id = $2 AND check_in_time >= $3 AND check_in_time < $4
				ORDER BY check_in_time DESC`,
				claims.CompanyID, claims.UserID, dayStart, dayEnd)
		} else {
			err = db.Select(&visits, `SELECT * FROM visits
				WHERE company_id = $1 AND check_in_time >= $2 AND check_in_time < $3
				ORDER BY check_in_time DESC`,
				claims.CompanyID, dayStart, dayEnd)
		}
		if err != nil {
			log.Printf("❌ Failed to list today's visits: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, visits)
	}
}

// GetVisitHistory lists visits filtered by optional date range and
// executive. Executives only ever see their own history.
func GetVisitHistory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		query := `SELECT * FROM visits WHERE company_id = $1`
		args := []interface{}{claims.CompanyID}

		userID := ""
		if claims.Role == models.RoleSalesExecutive {
			userID = claims.UserID
		} else if execID := r.URL.Query().Get("exec_id"); execID != "" {
			userID = execID
		}
		if userID != "" {
			args = append(args, userID)
			query += ` AND user_id = $` + strconv.Itoa(len(args))
		}

		if startDate := r.URL.Query().Get("start_date"); startDate != "" {
			if ts, err := parseDateToEpoch(startDate); err == nil {
				args = append(args, ts)
				query += ` AND check_in_time >= $` + strconv.Itoa(len(args))
			}
		}
		if endDate := r.URL.Query().Get("end_date"); endDate != "" {
			if ts, err := parseDateToEpoch(endDate); err == nil {
				args = append(args, ts+86400)
				query += ` AND check_in_time < $` + strconv.Itoa(len(args))
			}
		}

		query += ` ORDER BY check_in_time DESC`

		visits := []models.Visit{}
		if err := db.Select(&visits, query, args...); err != nil {
			log.Printf("❌ Failed to list visit history: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, visits)
	}
}

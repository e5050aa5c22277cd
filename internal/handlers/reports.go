package handlers

import (
	"log"
	"math"
	"net/http"

	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"
	"fieldops-backend/internal/services"
	"fieldops-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// DashboardStats is the company-wide operational snapshot.
type DashboardStats struct {
	TotalDealers        int     `json:"total_dealers"`
	TotalExecutives     int     `json:"total_executives"`
	ActiveExecutives    int     `json:"active_executives"`
	VisitsToday         int     `json:"visits_today"`
	TargetVisits        int     `json:"target_visits"`
	TotalOrderValue     float64 `json:"total_order_value"`
	VisitCompletionRate float64 `json:"visit_completion_rate"`
}

// ExecutivePerformance is one executive's all-time visit record.
type ExecutivePerformance struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	EmployeeCode    *string  `json:"employee_code"`
	TotalVisits     int      `json:"total_visits"`
	CompletedVisits int      `json:"completed_visits"`
	TotalOrders     float64  `json:"total_orders"`
	AvgTimePerVisit float64  `json:"avg_time_per_visit"`
	IsInMarket      bool     `json:"is_in_market"`
	CurrentLat      *float64 `json:"current_lat"`
	CurrentLng      *float64 `json:"current_lng"`
}

// GetDashboard computes the dashboard KPIs on demand from current storage
// state. visits_today counts only completed (checked-out) visits whose
// check-in falls on the current UTC day; completion rate is against
// target × executive count and is 0 when the target is 0.
func GetDashboard(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var stats DashboardStats
		if err := db.Get(&stats.TotalDealers, `SELECT COUNT(*) FROM dealers WHERE company_id = $1`, claims.CompanyID); err != nil {
			log.Printf("❌ Dashboard dealer count failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if err := db.Get(&stats.TotalExecutives, `SELECT COUNT(*) FROM users WHERE company_id = $1 AND role = $2`,
			claims.CompanyID, models.RoleSalesExecutive); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if err := db.Get(&stats.ActiveExecutives, `SELECT COUNT(*) FROM users WHERE company_id = $1 AND role = $2 AND is_in_market = TRUE`,
			claims.CompanyID, models.RoleSalesExecutive); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		dayStart, dayEnd := utcDayBounds()
		todayVisits := []models.Visit{}
		err := db.Select(&todayVisits, `SELECT * FROM visits
			WHERE company_id = $1 AND check_in_time >= $2 AND check_in_time < $3`,
			claims.CompanyID, dayStart, dayEnd)
		if err != nil {
			log.Printf("❌ Dashboard visit scan failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		for i := range todayVisits {
			if todayVisits[i].IsClosed() {
				stats.VisitsToday++
			}
			if todayVisits[i].OrderValue != nil {
				stats.TotalOrderValue += *todayVisits[i].OrderValue
			}
		}

		stats.TargetVisits = services.VisitsPerDayTarget(db, claims.CompanyID) * stats.TotalExecutives
		if stats.TargetVisits > 0 {
			rate := float64(stats.VisitsToday) / float64(stats.TargetVisits) * 100
			stats.VisitCompletionRate = math.Round(rate*10) / 10
		}

		utils.RespondJSON(w, http.StatusOK, stats)
	}
}

// GetExecutivePerformance reports per-executive visit metrics, optionally
// filtered to a single executive via ?exec_id.
func GetExecutivePerformance(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		executives := []models.User{}
		var err error
		if execID := r.URL.Query().Get("exec_id"); execID != "" {
			err = db.Select(&executives, `SELECT * FROM users WHERE company_id = $1 AND role = $2 AND id = $3`,
				claims.CompanyID, models.RoleSalesExecutive, execID)
		} else {
			err = db.Select(&executives, `SELECT * FROM users WHERE company_id = $1 AND role = $2 ORDER BY created_at`,
				claims.CompanyID, models.RoleSalesExecutive)
		}
		if err != nil {
			log.Printf("❌ Performance executive scan failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		performance := make([]ExecutivePerformance, 0, len(executives))
		for i := range executives {
			exec := &executives[i]

			visits := []models.Visit{}
			if err := db.Select(&visits, `SELECT * FROM visits WHERE user_id = $1`, exec.ID); err != nil {
				log.Printf("❌ Performance visit scan failed for %s: %v", exec.ID, err)
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}

			p := ExecutivePerformance{
				ID:           exec.ID,
				Name:         exec.Name,
				EmployeeCode: exec.EmployeeCode,
				TotalVisits:  len(visits),
				IsInMarket:   exec.IsInMarket,
				CurrentLat:   exec.CurrentLat,
				CurrentLng:   exec.CurrentLng,
			}
			var totalMinutes float64
			for j := range visits {
				if visits[j].IsClosed() {
					p.CompletedVisits++
				}
				if visits[j].OrderValue != nil {
					p.TotalOrders += *visits[j].OrderValue
				}
				if visits[j].TimeSpentMinutes != nil {
					totalMinutes += *visits[j].TimeSpentMinutes
				}
			}
			completed := p.CompletedVisits
			if completed < 1 {
				completed = 1
			}
			p.AvgTimePerVisit = math.Round(totalMinutes/float64(completed)*10) / 10

			performance = append(performance, p)
		}

		utils.RespondJSON(w, http.StatusOK, performance)
	}
}

// GetLostVisits lists every visit across the company whose outcome was
// recorded as a lost visit, regardless of date.
func GetLostVisits(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		visits := []models.Visit{}
		err := db.Select(&visits, `SELECT * FROM visits WHERE company_id = $1 AND outcome = $2 ORDER BY check_in_time DESC`,
			claims.CompanyID, models.OutcomeLostVisit)
		if err != nil {
			log.Printf("❌ Lost visits scan failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, visits)
	}
}

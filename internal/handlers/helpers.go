package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"fieldops-backend/internal/services"
	"fieldops-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// ErrJWTNotConfigured is returned when APP_JWT_SECRET is unset.
var ErrJWTNotConfigured = errors.New("JWT secret not configured")

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// loadTerritoryIDs resolves a user's assigned territory set from the join
// table. Returns an empty slice when none are assigned.
func loadTerritoryIDs(db *sqlx.DB, userID string) ([]string, error) {
	territoryIDs := []string{}
	err := db.Select(&territoryIDs, `SELECT territory_id FROM user_territories WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return territoryIDs, nil
}

// utcDayBounds returns the current UTC calendar day as a half-open epoch
// interval [start, end).
func utcDayBounds() (int64, int64) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Unix()
	return start, start + 86400
}

// parseDateToEpoch parses a YYYY-MM-DD date as midnight UTC.
func parseDateToEpoch(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// respondServiceError maps the engine's error taxonomy to HTTP statuses;
// anything untyped is a 500. OutOfRange responses carry the computed
// distance and allowed radius so the client can render the message.
func respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case services.KindNotFound:
			utils.RespondError(w, http.StatusNotFound, svcErr.Detail)
		case services.KindOutOfRange:
			utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success":        false,
				"error":          svcErr.Detail,
				"distance":       math.Round(svcErr.Distance*100) / 100,
				"allowed_radius": svcErr.Radius,
			})
		case services.KindInvalidState:
			utils.RespondError(w, http.StatusBadRequest, svcErr.Detail)
		default:
			utils.RespondError(w, http.StatusInternalServerError, svcErr.Detail)
		}
		return
	}

	log.Printf("❌ Unexpected error: %v", err)
	utils.RespondError(w, http.StatusInternalServerError, "Database error")
}

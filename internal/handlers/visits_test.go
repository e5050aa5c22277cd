package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldops-backend/internal/models"
	"fieldops-backend/internal/services"
)

func TestNearbyDealersNoTerritoriesSeesAllCompanyDealers(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)
	otherCompany := insertCompany(t, db, 500, 10)

	baseLat, baseLng := 19.0760, 72.8777
	insertDealer(t, db, companyID, "t1", "In T1", baseLat+0.001, baseLng, 1)
	insertDealer(t, db, companyID, "t2", "In T2", baseLat+0.002, baseLng, 1)
	insertDealer(t, db, otherCompany, "t1", "Other Company", baseLat, baseLng, 1)

	r := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/visit/nearby-dealers?lat=%f&lng=%f", baseLat, baseLng), nil)
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	NearbyDealers(db)(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var nearby []services.DealerDistance
	if err := json.NewDecoder(w.Body).Decode(&nearby); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nearby) != 2 {
		t.Fatalf("got %d dealers, want 2 (company scope, all territories)", len(nearby))
	}
	for _, d := range nearby {
		if d.Name == "Other Company" {
			t.Error("dealer from another company leaked into results")
		}
	}
}

func TestNearbyDealersAssignedTerritoryFilters(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)

	baseLat, baseLng := 19.0760, 72.8777
	// The t2 dealer is physically closer but outside the assigned territory.
	insertDealer(t, db, companyID, "t1", "Assigned Far", baseLat+0.003, baseLng, 1)
	insertDealer(t, db, companyID, "t2", "Unassigned Near", baseLat+0.0005, baseLng, 1)

	if _, err := db.Exec(`INSERT INTO user_territories (user_id, territory_id) VALUES ($1, 't1')`, execID); err != nil {
		t.Fatalf("assign territory: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/visit/nearby-dealers?lat=%f&lng=%f", baseLat, baseLng), nil)
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	NearbyDealers(db)(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var nearby []services.DealerDistance
	if err := json.NewDecoder(w.Body).Decode(&nearby); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("got %d dealers, want 1 (territory filter)", len(nearby))
	}
	if nearby[0].Name != "Assigned Far" {
		t.Errorf("got %q, want %q even though another dealer is closer", nearby[0].Name, "Assigned Far")
	}
}

func TestNearbyDealersRequiresCoordinates(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)

	r := httptest.NewRequest(http.MethodGet, "/api/visit/nearby-dealers", nil)
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	NearbyDealers(db)(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCheckInHandlerOutOfRangePayload(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)
	dealerID := insertDealer(t, db, companyID, "t1", "Far Dealer", 19.0760, 72.8777, 1)

	body, _ := json.Marshal(map[string]interface{}{
		"dealer_id": dealerID,
		"lat":       19.0860, // ~1113 m away
		"lng":       72.8777,
	})
	r := httptest.NewRequest(http.MethodPost, "/api/visit/check-in", bytes.NewReader(body))
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	CheckIn(db)(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Error         string  `json:"error"`
		Distance      float64 `json:"distance"`
		AllowedRadius int     `json:"allowed_radius"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AllowedRadius != 500 {
		t.Errorf("allowed_radius = %d, want 500", resp.AllowedRadius)
	}
	if resp.Distance < 1000 || resp.Distance > 1250 {
		t.Errorf("distance = %v, want ≈1113", resp.Distance)
	}
	if resp.Error == "" {
		t.Error("expected a human-readable error message")
	}
}

func TestCheckInHandlerRejectsNonExecutive(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	adminID := insertUser(t, db, companyID, models.RoleAdmin)

	body, _ := json.Marshal(map[string]interface{}{"dealer_id": "d1", "lat": 19.0, "lng": 72.8})
	r := httptest.NewRequest(http.MethodPost, "/api/visit/check-in", bytes.NewReader(body))
	r = withClaims(r, adminClaims(adminID, companyID))
	w := httptest.NewRecorder()
	CheckIn(db)(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCheckOutHandlerInvalidOutcome(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)

	body, _ := json.Marshal(map[string]interface{}{"outcome": "Maybe Later"})
	r := httptest.NewRequest(http.MethodPost, "/api/visit/some-id/check-out?lat=19.0&lng=72.8", bytes.NewReader(body))
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	CheckOut(db)(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestStartMarketHandlerRejectsDouble(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)

	body, _ := json.Marshal(map[string]float64{"lat": 19.0760, "lng": 72.8777})

	r := httptest.NewRequest(http.MethodPost, "/api/visit/start-market", bytes.NewReader(body))
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	StartMarket(db)(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first start: status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	body, _ = json.Marshal(map[string]float64{"lat": 19.0760, "lng": 72.8777})
	r = httptest.NewRequest(http.MethodPost, "/api/visit/start-market", bytes.NewReader(body))
	r = withClaims(r, execClaims(execID, companyID))
	w = httptest.NewRecorder()
	StartMarket(db)(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("second start: status = %d, want 400", w.Code)
	}
}

func TestEndMarketHandlerNoSessionIsOK(t *testing.T) {
	db := openTestDB(t)
	companyID := insertCompany(t, db, 500, 10)
	execID := insertUser(t, db, companyID, models.RoleSalesExecutive)

	r := httptest.NewRequest(http.MethodPost, "/api/visit/end-market", nil)
	r = withClaims(r, execClaims(execID, companyID))
	w := httptest.NewRecorder()
	EndMarket(db)(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for tolerated double end", w.Code)
	}
}

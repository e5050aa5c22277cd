package services

import (
	"errors"
	"testing"

	"fieldops-backend/internal/models"
)

func TestStartMarketOpensSession(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	session, err := StartMarket(db, companyID, userID, 19.0760, 72.8777)
	if err != nil {
		t.Fatalf("start market: %v", err)
	}
	if session.ID == "" {
		t.Error("expected non-empty session id")
	}
	if !session.IsOpen() {
		t.Error("new session should be open")
	}
	if session.VisitsCompleted != 0 {
		t.Errorf("visits_completed = %d, want 0", session.VisitsCompleted)
	}

	var user models.User
	if err := db.Get(&user, `SELECT * FROM users WHERE id = $1`, userID); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !user.IsInMarket {
		t.Error("user should be in market")
	}
	if user.MarketStartTime == nil {
		t.Error("market_start_time should be set")
	}
	if user.CurrentLat == nil || *user.CurrentLat != 19.0760 {
		t.Errorf("current_lat = %v, want 19.0760", user.CurrentLat)
	}
}

func TestStartMarketRejectsSecondSession(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	first, err := StartMarket(db, companyID, userID, 19.0760, 72.8777)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}

	_, err = StartMarket(db, companyID, userID, 19.0761, 72.8778)
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindInvalidState {
		t.Fatalf("second start: got %v, want InvalidState", err)
	}

	// Prior session and in-market flag untouched by the failed attempt.
	var session models.MarketSession
	if err := db.Get(&session, `SELECT * FROM market_sessions WHERE id = $1`, first.ID); err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !session.IsOpen() {
		t.Error("prior session should still be open")
	}
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM market_sessions WHERE user_id = $1`, userID); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("session count = %d, want 1", count)
	}
}

func TestStartMarketUnknownUser(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)

	_, err := StartMarket(db, companyID, "no-such-user", 19.0760, 72.8777)
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindNotFound {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestEndMarketClosesOpenSession(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	started, err := StartMarket(db, companyID, userID, 19.0760, 72.8777)
	if err != nil {
		t.Fatalf("start market: %v", err)
	}

	ended, err := EndMarket(db, companyID, userID)
	if err != nil {
		t.Fatalf("end market: %v", err)
	}
	if ended == nil {
		t.Fatal("expected a closed session, got nil")
	}
	if ended.ID != started.ID {
		t.Errorf("closed session id = %s, want %s", ended.ID, started.ID)
	}
	if ended.EndTime == nil {
		t.Fatal("end_time should be set")
	}
	if *ended.EndTime < started.StartTime {
		t.Errorf("end_time %d before start_time %d", *ended.EndTime, started.StartTime)
	}

	var user models.User
	if err := db.Get(&user, `SELECT * FROM users WHERE id = $1`, userID); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.IsInMarket {
		t.Error("user should no longer be in market")
	}
	if user.MarketStartTime != nil {
		t.Error("market_start_time should be cleared")
	}
}

func TestEndMarketWithoutOpenSessionIsNoOp(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	session, err := EndMarket(db, companyID, userID)
	if err != nil {
		t.Fatalf("end market: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil session, got %+v", session)
	}
}

func TestRecordVisitCompletionIncrementsOpenSession(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	started, err := StartMarket(db, companyID, userID, 19.0760, 72.8777)
	if err != nil {
		t.Fatalf("start market: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := RecordVisitCompletion(db, userID); err != nil {
			t.Fatalf("record completion %d: %v", i, err)
		}
	}

	var session models.MarketSession
	if err := db.Get(&session, `SELECT * FROM market_sessions WHERE id = $1`, started.ID); err != nil {
		t.Fatalf("load session: %v", err)
	}
	if session.VisitsCompleted != 3 {
		t.Errorf("visits_completed = %d, want 3", session.VisitsCompleted)
	}
}

func TestRecordVisitCompletionNoSessionIsSilent(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	if err := RecordVisitCompletion(db, userID); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestUpdateUserLocationOverwrites(t *testing.T) {
	db := openTestDB(t)
	companyID := seedCompany(t, db, 500)
	userID := seedExecutive(t, db, companyID)

	if err := UpdateUserLocation(db, companyID, userID, 19.0760, 72.8777); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := UpdateUserLocation(db, companyID, userID, 19.1000, 72.9000); err != nil {
		t.Fatalf("second update: %v", err)
	}

	var user models.User
	if err := db.Get(&user, `SELECT * FROM users WHERE id = $1`, userID); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.CurrentLat == nil || *user.CurrentLat != 19.1000 {
		t.Errorf("current_lat = %v, want 19.1000", user.CurrentLat)
	}
	if user.LastLocationUpdate == nil {
		t.Error("last_location_update should be set")
	}
	if user.IsInMarket {
		t.Error("location update must not touch market state")
	}
}

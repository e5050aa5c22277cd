package main

import (
	"log"
	"net/http"
	"os"

	"fieldops-backend/internal/database"
	"fieldops-backend/internal/handlers"
	"fieldops-backend/internal/middleware"
	"fieldops-backend/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FIELDOPS BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if os.Getenv("APP_JWT_SECRET") == "" {
		log.Fatal("APP_JWT_SECRET environment variable is required")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Database migrations failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := database.SeedDemo(db); err != nil {
			log.Fatalf("❌ Demo seeding failed: %v", err)
		}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", handlers.Login(db))
		r.Post("/company/register", handlers.RegisterCompany(db))

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Get("/auth/me", handlers.GetMe(db))
			r.Get("/company/config", handlers.GetCompanyConfig(db))
			r.Get("/territories", handlers.GetTerritories(db))
			r.Get("/dealers", handlers.GetDealers(db))

			// Field visit workflow
			r.Post("/visit/start-market", handlers.StartMarket(db))
			r.Post("/visit/end-market", handlers.EndMarket(db))
			r.Get("/visit/nearby-dealers", handlers.NearbyDealers(db))
			r.Post("/visit/check-in", handlers.CheckIn(db))
			r.Post("/visit/{id}/check-out", handlers.CheckOut(db))
			r.Post("/visit/update-location", handlers.UpdateLocation(db))
			r.Get("/visits/today", handlers.GetTodayVisits(db))
			r.Get("/visits/history", handlers.GetVisitHistory(db))
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))

			r.Put("/company/config", handlers.UpdateCompanyConfig(db))

			r.Post("/territories", handlers.CreateTerritory(db))
			r.Put("/territories/{id}", handlers.UpdateTerritory(db))
			r.Delete("/territories/{id}", handlers.DeleteTerritory(db))

			r.Post("/dealers", handlers.CreateDealer(db))
			r.Put("/dealers/{id}", handlers.UpdateDealer(db))
			r.Delete("/dealers/{id}", handlers.DeleteDealer(db))

			r.Post("/sales-executives", handlers.CreateExecutive(db))
			r.Get("/sales-executives", handlers.GetExecutives(db))
			r.Put("/sales-executives/{id}/assign-territory", handlers.AssignTerritories(db))
			r.Delete("/sales-executives/{id}", handlers.DeleteExecutive(db))

			r.Get("/tracking/live", handlers.GetLiveTracking(db))

			r.Get("/reports/dashboard", handlers.GetDashboard(db))
			r.Get("/reports/executive-performance", handlers.GetExecutivePerformance(db))
			r.Get("/reports/lost-visits", handlers.GetLostVisits(db))
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

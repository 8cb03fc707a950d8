// main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	gorilla "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/config"
	"github.com/ivonin/evelop-search/database"
	"github.com/ivonin/evelop-search/handlers"
	"github.com/ivonin/evelop-search/scraper"
	"github.com/ivonin/evelop-search/services"
)

func main() {
	log.Println("Starting Evelop search backend...")

	// .env is optional; it only feeds credential overrides.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on config file and environment.")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)

	if err := database.InitDB(config.AppConfig.Database); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	// The route catalog is an environment precondition: without it nothing
	// can be validated, so a failed load is fatal, no retry. Staleness
	// requires a process restart (wholesale reload only).
	catalog, err := scraper.LoadRoutes(context.Background())
	if err != nil {
		log.Fatalf("Error loading route catalog: %v", err)
	}

	scheduleStore := database.NewScheduleStore(database.DB)
	api := handlers.NewAPI(catalog, services.NewScheduleService(scheduleStore))

	r := mux.NewRouter()
	r.HandleFunc("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "evelop search backend is healthy"}`)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/flights/search", api.SearchHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/schedule", api.ScheduleHandler).Methods(http.MethodGet)

	chain := gorilla.LoggingHandler(os.Stdout,
		gorilla.CORS(
			gorilla.AllowedHeaders([]string{"Content-Type"}),
			gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		)(r))

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	if err := http.ListenAndServe(serverAddr, chain); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/config"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/database"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/handlers"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/scraper"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/services"
)

func main() {
	log.Println("Starting Taller GNC Backend Application...")

	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)
	log.Printf("Registry URL: %s (delay between probes: %s, max domains per run: %d)",
		config.AppConfig.Scraper.RegistryURL,
		config.AppConfig.Scraper.DelayBetweenProbes,
		config.AppConfig.Scraper.MaxDomainsPerRun)

	err = database.InitDB(config.AppConfig.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	if err := database.EnsureSchema(); err != nil {
		log.Fatalf("Error ensuring database schema: %v", err)
	}

	store := database.Store{}
	probe := scraper.NewRegistryProbe(config.AppConfig.Scraper)

	alertService := services.NewAlertService(store, probe.CheckDomain, config.AppConfig.Scraper)
	alertQueries := services.NewAlertQueryService(store)
	deliveryService := services.NewDeliveryService(store)

	alertHandler := &handlers.AlertHandler{Alerts: alertService, Queries: alertQueries}
	deliveryHandler := &handlers.DeliveryHandler{Deliveries: deliveryService}
	procedureHandler := &handlers.ProcedureHandler{Deliveries: deliveryService}

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "taller gnc backend is healthy"}`)
	})

	http.HandleFunc("/api/alertas", alertHandler.List)
	http.HandleFunc("/api/alertas/comprobar", alertHandler.CheckBatch)
	http.HandleFunc("/api/alertas/comprobar-uno", alertHandler.CheckOne)
	http.HandleFunc("/api/alertas/avisar", alertHandler.Notify)
	http.HandleFunc("/api/alertas/export", alertHandler.ExportCSV)
	http.HandleFunc("/api/avisos/retiro", deliveryHandler.List)
	http.HandleFunc("/api/avisos/retiro/estado", deliveryHandler.UpdateState)
	http.HandleFunc("/api/tramites/pago", procedureHandler.UpdatePayment)

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = http.ListenAndServe(serverAddr, nil)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

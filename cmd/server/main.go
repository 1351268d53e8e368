package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiftly/internal/database"
	"shiftly/internal/handlers"
	"shiftly/internal/notify"
	"shiftly/internal/services"
	"shiftly/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env in development; in production the environment is already set
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using existing environment")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// All schedule matching happens in one fixed calendar zone so behavior
	// does not depend on where the process is deployed
	tzName := os.Getenv("SCHEDULER_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Jerusalem"
	}
	location, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("Invalid SCHEDULER_TIMEZONE %q: %v", tzName, err)
	}

	// Gateway misconfiguration is the only fatal error after startup begins
	channel, err := notify.NewChannelFromEnv()
	if err != nil {
		log.Fatal("Failed to configure notification channel:", err)
	}

	db := database.GetDB()
	ledger := store.NewRunLedger(db)
	dispatcher := services.NewDispatcher(
		store.NewEligibilityQuery(db),
		channel,
		store.NewDeliveryLog(db),
		ledger,
	)
	worker := services.NewReminderWorker(store.NewRuleStore(db), ledger, dispatcher, location)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker.Start(ctx)

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// CORS for the admin SPA
	corsConfig := cors.DefaultConfig()
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = []string{origin}
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Reminder rule administration
	router.GET("/rules", handlers.ListRules)
	router.POST("/rules", handlers.CreateRule)
	router.PUT("/rules/:id", handlers.UpdateRule)
	router.PATCH("/rules/:id/enabled", handlers.SetRuleEnabled)
	router.POST("/rules/:id/dispatch", handlers.TriggerDispatch(dispatcher, ledger, location))

	// Audit history
	router.GET("/runs", handlers.ListRuns)
	router.GET("/runs/:id", handlers.GetRun)
	router.GET("/deliveries", handlers.ListDeliveries)

	// Roster views
	router.GET("/shifts", handlers.ListShifts)
	router.GET("/volunteers", handlers.ListVolunteers)
	router.PATCH("/volunteers/:id/optin", handlers.SetVolunteerOptIn)

	// Start the server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()
	fmt.Println("Server starting on port 8080...")

	// Wait for shutdown signal; the worker observes the same context
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

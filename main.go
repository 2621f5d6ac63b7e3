package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"frontdesk-backend/config"
	"frontdesk-backend/controllers"
	"frontdesk-backend/jobs"
	"frontdesk-backend/routes"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	jwtSecret := []byte(utils.EnvOrDefault("JWT_SECRET", ""))
	if len(jwtSecret) == 0 {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set.")
	}

	// Connect database (config.ConnectDatabase sets config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Redis is optional; stats counters are disabled without it.
	rdb, err := config.ConnectRedis()
	if err != nil {
		log.Fatalf("❌ Redis connect failed: %v", err)
	}

	// Initialize services
	statsService := services.NewStatsService(rdb, logger)
	availabilityService := services.NewAvailabilityService(db, logger)
	bookingService := services.NewBookingService(db, availabilityService, statsService, logger)
	roomService := services.NewRoomService(db)
	expenseService := services.NewExpenseService(db)
	invoiceService := services.NewInvoiceService(db, logger)

	// Initialize controllers
	ctrl := routes.Controllers{
		Auth:     controllers.NewAuthController(db, jwtSecret),
		Admin:    controllers.NewAdminController(db),
		Booking:  controllers.NewBookingController(bookingService, logger),
		Room:     controllers.NewRoomController(roomService, availabilityService),
		Expense:  controllers.NewExpenseController(expenseService),
		Invoice:  controllers.NewInvoiceController(invoiceService),
		Settings: controllers.NewSettingsController(db),
		Stats:    controllers.NewStatsController(statsService),
	}

	router := routes.SetupRouter(ctrl, jwtSecret, logger)

	// Past-checkout sweep (throttled by the durable watermark)
	cronRunner := cron.New()
	if err := jobs.StartCheckoutSweep(cronRunner, bookingService, logger); err != nil {
		log.Fatalf("❌ Failed to start checkout sweep: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	cronCtx := cronRunner.Stop()
	<-cronCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

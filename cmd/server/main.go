package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/dmoretti/loanbook-engine/internal/config"
	"github.com/dmoretti/loanbook-engine/internal/handler"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	"github.com/dmoretti/loanbook-engine/internal/service"
	"github.com/dmoretti/loanbook-engine/pkg/response"
)

func main() {
	// .env is optional, environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	clientRepo := repository.NewClientRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	loanService := service.NewLoanService(loanRepo, paymentRepo, clientRepo, settingsRepo, cfg)
	paymentService := service.NewPaymentService(txManager, loanRepo, paymentRepo, settingsRepo, cfg)
	clientService := service.NewClientService(clientRepo, loanRepo)
	settingsService := service.NewSettingsService(settingsRepo, cfg)
	reportService := service.NewReportService(reportRepo, redisClient, cfg)

	// Initialize handlers
	loanHandler := handler.NewLoanHandler(loanService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	clientHandler := handler.NewClientHandler(clientService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(loanHandler, paymentHandler, clientHandler, settingsHandler, reportHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	loanHandler *handler.LoanHandler,
	paymentHandler *handler.PaymentHandler,
	clientHandler *handler.ClientHandler,
	settingsHandler *handler.SettingsHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/clients", clientHandler.CreateClient).Methods("POST")
	api.HandleFunc("/clients", clientHandler.GetClients).Methods("GET")
	api.HandleFunc("/clients/{clientId}", clientHandler.GetClient).Methods("GET")
	api.HandleFunc("/clients/{clientId}", clientHandler.UpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{clientId}", clientHandler.DeleteClient).Methods("DELETE")

	api.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", loanHandler.GetLoans).Methods("GET")
	api.HandleFunc("/loans/pending", loanHandler.GetPendingLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/settlement", loanHandler.GetSettlement).Methods("GET")
	api.HandleFunc("/loans/{loanId}/due-date", loanHandler.UpdateDueDate).Methods("PATCH")

	api.HandleFunc("/payments", paymentHandler.RegisterPayment).Methods("POST")
	api.HandleFunc("/payments", paymentHandler.GetPayments).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.ReversePayment).Methods("DELETE")

	api.HandleFunc("/settings", settingsHandler.GetSettings).Methods("GET")
	api.HandleFunc("/settings", settingsHandler.UpdateSettings).Methods("PUT")

	api.HandleFunc("/reports/summary", reportHandler.GetSummary).Methods("GET")
	api.HandleFunc("/dashboard/due-soon", reportHandler.GetDueSoon).Methods("GET")

	return router
}

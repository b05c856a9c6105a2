package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/dmoretti/loanbook-engine/internal/config"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	"github.com/dmoretti/loanbook-engine/internal/service"
)

func main() {
	log.Println("Starting loan-book scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	reportRepo := repository.NewReportRepository(db)
	reportService := service.NewReportService(reportRepo, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	setupCronJobs(c, cfg, reportService)

	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, reports *service.ReportService) {
	// Morning due-soon scan so the dashboard alert list is precomputed
	_, err := c.AddFunc(cfg.Scheduler.DueSoonSpec, func() {
		log.Println("Running due-soon alert warmup...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := reports.WarmDueSoonCaches(ctx); err != nil {
			log.Printf("Due-soon warmup failed: %v", err)
			return
		}
		log.Println("Due-soon alert warmup finished")
	})
	if err != nil {
		log.Printf("Error scheduling due-soon warmup job: %v", err)
	}

	// Nightly book-summary warmup for the default dashboard period
	_, err = c.AddFunc(cfg.Scheduler.MetricsSpec, func() {
		log.Println("Running report metrics warmup...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := reports.WarmMetricsCaches(ctx); err != nil {
			log.Printf("Report metrics warmup failed: %v", err)
			return
		}
		log.Println("Report metrics warmup finished")
	})
	if err != nil {
		log.Printf("Error scheduling report metrics warmup job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

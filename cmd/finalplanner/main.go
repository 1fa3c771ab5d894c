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

	"github.com/joho/godotenv"

	"github.com/vrasish/finalplanner/internal/api"
	"github.com/vrasish/finalplanner/internal/config"
	"github.com/vrasish/finalplanner/internal/repository"
	"github.com/vrasish/finalplanner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may carry everything already.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	taskSvc := service.NewTaskService(taskRepo, userRepo)
	plannerSvc := service.NewPlannerService(taskSvc, bookingRepo)

	if cfg.SweepInterval > 0 {
		cronSvc := service.NewCronService(time.Local)
		if _, err := cronSvc.ScheduleInterval(cfg.SweepInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := plannerSvc.ScheduleUnplanned(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("sweep: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule sweep: %v", err)
		}
		cronSvc.Start()
		defer cronSvc.Stop()
	}

	handler := api.NewHandler(taskSvc, plannerSvc, userRepo)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(handler, cfg.AllowedOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("[info] finalplanner listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

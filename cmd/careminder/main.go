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

	"careminder/internal/api"
	"careminder/internal/auth"
	"careminder/internal/config"
	"careminder/internal/notify"
	"careminder/internal/repository"
	"careminder/internal/rule"
	"careminder/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	completionRepo := repository.NewCompletionRepository(db)

	notifier, err := newNotifier(ctx, cfg)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}

	evaluator := rule.NewEvaluator(rule.DefaultMealTimes())
	reminderSvc := service.NewReminderService(taskRepo, notifier, evaluator, rule.SystemClock)
	taskSvc := service.NewTaskService(taskRepo, completionRepo, rule.SystemClock)
	completionSvc := service.NewCompletionService(completionRepo, rule.SystemClock)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.TickInterval, func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), cfg.TickInterval)
		defer cancel()
		if err := reminderSvc.RunTick(tickCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("tick: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule ticks: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handlers := api.New(userRepo, taskSvc, completionSvc, auth.NewJWTService(cfg.JWTSecret))
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handlers.Router(),
	}

	go func() {
		log.Printf("careminder listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}

func newNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierFCM:
		return notify.NewFCMNotifier(ctx, cfg.FirebaseCredentials)
	case config.NotifierTelegram:
		return notify.NewTelegramNotifier(cfg.TelegramToken)
	default:
		return notify.LogNotifier{}, nil
	}
}

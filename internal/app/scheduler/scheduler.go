// Package scheduler собирает приложение планировщика: ежедневную задачу
// блокировки неактивных учётных записей.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/lms-backend/internal/config"
	schedulerservice "github.com/magabrotheeeer/lms-backend/internal/services/scheduler"
	"github.com/magabrotheeeer/lms-backend/internal/storage/repository"
)

// blockSweepSchedule запуск ежедневно в полночь.
const blockSweepSchedule = "0 0 * * *"

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	cron             *cron.Cron
	db               *repository.Storage
	logger           *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		return nil, err
	}

	schedulerService := schedulerservice.NewSchedulerService(db, logger)

	return &App{
		schedulerService: schedulerService,
		cron:             cron.New(),
		db:               db,
		logger:           logger,
	}, nil
}

// Run выполняет один проход сразу при старте, затем запускает задачу
// по расписанию и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	a.schedulerService.RunBlockInactiveUsers(ctx)

	if _, err := a.cron.AddFunc(blockSweepSchedule, func() {
		a.schedulerService.RunBlockInactiveUsers(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}
	a.cron.Start()

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	stopCtx := a.cron.Stop()
	<-stopCtx.Done()

	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database connection", slog.Any("err", err))
	}
	return nil
}

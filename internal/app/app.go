package app

import (
	"context"

	"maidhub/config"
	"maidhub/internal/controllers"
	"maidhub/internal/database"
	"maidhub/internal/events"
	"maidhub/internal/handlers/middleware"
	"maidhub/internal/jobs"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")
	ctx := context.Background()

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)

	services, err := services.New(ctx, db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(services, repos, eventBus, config, db)
	middleware := middleware.New(db, config, repos, services)

	websocket, err := websockets.New(eventBus, &middleware, controllers.Message)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	if err := services.Scheduler.Start(ctx); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Token,
		a.Services.Storage,
		a.Services.TextGeneration,
		a.Services.Places,
		a.Services.Notifier,
		a.Services.Lifecycle,
		a.Services.FileCleanup,
		a.Controllers.Auth,
		a.Controllers.User,
		a.Controllers.Job,
		a.Controllers.Application,
		a.Controllers.Message,
		a.Controllers.Report,
		a.Controllers.Notification,
		a.Controllers.File,
		a.Controllers.Assist,
		a.Repos.User,
		a.Repos.Job,
	}

	for i, check := range nilChecks {
		if check == nil {
			return log.Error("nil check failed", "index", i)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

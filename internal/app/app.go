package app

import (
	"context"

	"fieldops/config"
	"fieldops/internal/controllers"
	"fieldops/internal/database"
	"fieldops/internal/events"
	"fieldops/internal/handlers/middleware"
	"fieldops/internal/jobs"
	"fieldops/internal/repositories"
	"fieldops/internal/services"
	"fieldops/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)
	svc := services.New(db, repos, config, eventBus)
	ctrls := controllers.New(svc, repos, db)
	mw := middleware.New(svc.Identity, config)

	websocket, err := websockets.New(eventBus, svc.Identity, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(svc.Scheduler, config, svc, repos, db); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}
	if err := svc.Scheduler.Start(context.Background()); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  mw,
		Websocket:   websocket,
		EventBus:    eventBus,
		Repos:       repos,
		Services:    svc,
		Controllers: ctrls,
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
		a.Services.Identity,
		a.Services.Notification,
		a.Services.Scheduler,
		a.Controllers.Orders,
		a.Controllers.Reports,
		a.Controllers.Photos,
		a.Repos.Order,
		a.Repos.User,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Notification != nil {
		a.Services.Notification.Wait()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

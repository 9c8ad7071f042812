// Package bootstrap assembles the form stack shared by every front end:
// database, history recorder, backend transport and the two forms.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/flashkick/flashkick-agent/internal/backend"
	"github.com/flashkick/flashkick-agent/internal/config"
	"github.com/flashkick/flashkick-agent/internal/db"
	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/history"
	"github.com/flashkick/flashkick-agent/internal/logging"
)

type Options struct {
	// DryRun swaps the HTTP transport for one that accepts everything.
	DryRun bool
	// Notifier receives user notifications. Defaults to a NotificationLog.
	Notifier forms.Notifier
	// Observers are registered on both forms after the history recorder.
	Observers []forms.Observer
}

type App struct {
	Config        config.Config
	Logger        *slog.Logger
	DB            *db.DB
	History       *history.SQLiteRepository
	Transport     forms.Transport
	Notifications *forms.NotificationLog
	LinkForm      *forms.LinkForm
	UploadForm    *forms.UploadForm
}

func New(cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := history.NewRepository(database.Conn())

	var transport forms.Transport
	if opts.DryRun {
		transport = backend.NewStubClient(logging.WithComponent(logger, "backend"))
		logger.Info("dry run: backend requests are not sent")
	} else {
		transport = backend.NewHTTPClient(cfg.RequestTimeout(), logging.WithComponent(logger, "backend"))
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        database,
		History:   repo,
		Transport: transport,
	}

	notifier := opts.Notifier
	if notifier == nil {
		app.Notifications = forms.NewNotificationLog()
		notifier = app.Notifications
	}

	observers := append([]forms.Observer{history.NewRecorder(repo, logging.WithComponent(logger, "history"))}, opts.Observers...)

	formCfg := forms.Config{
		Endpoints: forms.Endpoints{
			BaseURL:    cfg.BackendURL(),
			LinkPath:   cfg.LinkPath(),
			UploadPath: cfg.UploadPath(),
		},
		Transport: transport,
		Notifier:  notifier,
		Observers: observers,
		Logger:    logger,
		Limits: forms.Limits{
			AllowedExtensions: cfg.AllowedExtensions(),
			MaxBytes:          cfg.MaxUploadBytes(),
		},
	}
	app.LinkForm = forms.NewLinkForm(formCfg)
	app.UploadForm = forms.NewUploadForm(formCfg)

	return app, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flashkick/flashkick-agent/internal/api"
	"github.com/flashkick/flashkick-agent/internal/bootstrap"
	"github.com/flashkick/flashkick-agent/internal/config"
	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/ui"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int
	var headless bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the highlights web UI on localhost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				if err := cfg.SetPort(port); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("headless") {
				cfg.SetHeadless(headless)
			}
			return runServe(flags, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "HTTP port on 127.0.0.1")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the system tray")
	return cmd
}

func runServe(flags *globalFlags, cfg *config.EnvConfig) error {
	startTime := time.Now()
	logger := newLogger(flags, cfg, os.Stdout)
	logger.Info("starting flashkick agent", "version", config.Version, "data_dir", cfg.DataDir())

	var tray *ui.Tray
	var observers []forms.Observer
	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	if !cfg.Headless() {
		tray = ui.NewTray(ui.TrayConfig{
			Logger: logger,
			OnOpen: func() error {
				return openBrowser(fmt.Sprintf("http://127.0.0.1:%d/highlights", cfg.Port()))
			},
			OnQuit: quit,
		})
		observers = append(observers, tray)
	}

	app, err := loadApp(flags, cfg, logger, bootstrap.Options{Observers: observers})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiServer, err := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		LinkForm:       app.LinkForm,
		UploadForm:     app.UploadForm,
		Notifications:  app.Notifications,
		History:        app.History,
		UploadsDir:     cfg.UploadsDir(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		SubmitContext:  ctx,
		Logger:         logger,
		StartTime:      startTime,
		Version:        config.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                   FLASHKICK AGENT v%-22s ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Web UI:  %-47s ║\n", apiServer.URL()+"/highlights")
	fmt.Printf("║  Backend: %-47s ║\n", cfg.BackendURL())
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			quit()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if tray == nil {
		logger.Info("running in headless mode (no system tray)")
	} else {
		if latest, err := app.History.Latest(ctx); err != nil {
			logger.Warn("failed to load latest submission", "error", err)
		} else if latest != nil {
			tray.UpdateStatus(ui.RecordTitle(latest))
		}
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()
	if tray != nil {
		tray.Quit()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

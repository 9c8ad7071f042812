package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flashkick/flashkick-agent/internal/bootstrap"
	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/tui"
)

const tuiLogFile = "flashkick-tui.log"

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal upload UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file.
			logFile, err := os.OpenFile(filepath.Join(cfg.DataDir(), tuiLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()
			logger := newLogger(flags, cfg, logFile)

			bridge := tui.NewBridge()
			app, err := loadApp(flags, cfg, logger, bootstrap.Options{
				Notifier:  bridge,
				Observers: []forms.Observer{bridge},
			})
			if err != nil {
				return err
			}
			defer app.Close()

			return tui.Run(tui.Config{
				Context:    context.Background(),
				LinkForm:   app.LinkForm,
				UploadForm: app.UploadForm,
				Bridge:     bridge,
			})
		},
	}
}

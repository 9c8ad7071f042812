package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flashkick/flashkick-agent/internal/bootstrap"
	"github.com/flashkick/flashkick-agent/internal/forms"
)

// printNotifier writes notifications the way the browser would pop them up.
func printNotifier(w io.Writer) forms.Notifier {
	return forms.NotifierFunc(func(n forms.Notification) {
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newLinkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "link <url>",
		Short: "Submit a video link for highlight generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags, cfg, cmd.ErrOrStderr())

			app, err := loadApp(flags, cfg, logger, bootstrap.Options{Notifier: printNotifier(cmd.OutOrStdout())})
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext()
			defer stop()

			app.LinkForm.SetURL(args[0])
			if err := app.LinkForm.Submit(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.LinkForm.Snapshot().State.Message)
			return nil
		},
	}
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a video file for highlight generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags, cfg, cmd.ErrOrStderr())

			file, err := forms.OpenLocalFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tty := isTerminal(out)
			app, err := loadApp(flags, cfg, logger, bootstrap.Options{
				Notifier:  printNotifier(out),
				Observers: []forms.Observer{newProgressPrinter(out, tty, file.Size())},
			})
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext()
			defer stop()

			if err := app.UploadForm.SelectFile(file); err != nil {
				return err
			}
			if err := app.UploadForm.Submit(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, app.UploadForm.Snapshot().State.Message)
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

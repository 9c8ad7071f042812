package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/logging"
)

const (
	msgLinkInProgress   = "A link is already being submitted. Please wait."
	msgUploadInProgress = "A file is already being uploaded. Please wait."

	// Room for the multipart framing around the file.
	multipartOverhead = 64 << 10
)

func submitLinkHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid form body", "BAD_REQUEST")
			return
		}

		cfg.LinkForm.SetURL(r.PostForm.Get("videoLink"))
		err := cfg.LinkForm.Submit(r.Context())
		if errors.Is(err, forms.ErrSubmitInProgress) {
			notify(cfg, forms.KindLink, msgLinkInProgress)
		}
		if err != nil {
			requestLogger(cfg, r).Debug("link submission did not succeed", "error", err)
		}

		http.Redirect(w, r, "/highlights", http.StatusSeeOther)
	}
}

// submitUploadHandler spools the browser upload to disk, selects it in the
// upload form and uploads it in the background. The page polls /api/state
// for progress.
func submitUploadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(cfg, r)

		// Spooling a large file outlasts the server write timeout; the
		// redirect must still reach the browser.
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			logger.Warn("failed to clear write deadline", "error", err)
		}

		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes+multipartOverhead)
		}

		spooled, err := spoolUpload(r, cfg.UploadsDir)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				notify(cfg, forms.KindFile, fmt.Sprintf("File is too large. The limit is %s.",
					humanize.IBytes(uint64(cfg.MaxUploadBytes))))
				http.Redirect(w, r, "/highlights", http.StatusSeeOther)
				return
			}
			logger.Warn("failed to read upload", "error", err)
			WriteError(w, http.StatusBadRequest, "invalid upload", "BAD_REQUEST")
			return
		}

		discard := func() {
			if spooled != nil {
				os.Remove(spooled.Path())
			}
		}

		// Begin selects the spooled file and starts the attempt atomically, so
		// a second post cannot replace the file this request is about to send.
		upload, err := cfg.UploadForm.Begin(selection(spooled))
		if err != nil {
			discard()
			if errors.Is(err, forms.ErrSubmitInProgress) {
				notify(cfg, forms.KindFile, msgUploadInProgress)
			}
			http.Redirect(w, r, "/highlights", http.StatusSeeOther)
			return
		}

		ctx := cfg.SubmitContext
		if ctx == nil {
			ctx = context.Background()
		}
		go func() {
			defer discard()
			if err := upload.Run(ctx); err != nil {
				logger.Debug("upload did not succeed", "error", err)
			}
		}()

		http.Redirect(w, r, "/highlights", http.StatusSeeOther)
	}
}

// spoolUpload copies the first non-empty file part to a temporary file. It
// returns nil when the browser sent no file.
func spoolUpload(r *http.Request, dir string) (*forms.LocalFile, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() != forms.UploadField || part.FileName() == "" {
			part.Close()
			continue
		}

		name := forms.CleanFilename(part.FileName())
		if dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create uploads dir: %w", err)
			}
		}
		tmp, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(name))
		if err != nil {
			return nil, fmt.Errorf("create spool file: %w", err)
		}

		_, copyErr := io.Copy(tmp, part)
		closeErr := tmp.Close()
		part.Close()
		if copyErr != nil || closeErr != nil {
			os.Remove(tmp.Name())
			return nil, errors.Join(copyErr, closeErr)
		}

		return forms.OpenLocalFileAs(tmp.Name(), name)
	}
}

// selection avoids handing a typed nil to the form.
func selection(f *forms.LocalFile) forms.File {
	if f == nil {
		return nil
	}
	return f
}

func notify(cfg ServerConfig, form forms.Kind, message string) {
	if cfg.Notifications == nil {
		return
	}
	cfg.Notifications.Notify(forms.Notification{Form: form, Level: forms.LevelWarning, Message: message})
}

func requestLogger(cfg ServerConfig, r *http.Request) *slog.Logger {
	requestID, _ := r.Context().Value(RequestIDKey).(string)
	return logging.WithRequestID(cfg.Logger, requestID)
}

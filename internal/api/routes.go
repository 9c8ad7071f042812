package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

func NewRouter(cfg ServerConfig) (*chi.Mux, error) {
	pages, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	static, err := staticHandler()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Handle("/static/*", static)

	r.Get("/", pageHandler(cfg, pages, pageHome))
	r.Get("/highlights", pageHandler(cfg, pages, pageHighlights))
	r.Get("/about", pageHandler(cfg, pages, pageAbout))

	r.Group(func(r chi.Router) {
		r.Use(LoopbackGuard(cfg.Logger))

		r.Post("/highlights/link", submitLinkHandler(cfg))
		r.Post("/highlights/upload", submitUploadHandler(cfg))
		r.Get("/api/state", stateHandler(cfg))
		r.Get("/api/history", historyHandler(cfg))
		r.Get("/api/history/{id}", historyRecordHandler(cfg))
	})

	return r, nil
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

// stateHandler reports both forms and the pending notifications without
// consuming them; the next page render shows and clears them.
func stateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StateResponse{
			Link:          LinkToResponse(cfg.LinkForm.Snapshot()),
			Upload:        UploadToResponse(cfg.UploadForm.Snapshot()),
			Notifications: []NotificationResponse{},
		}
		if cfg.Notifications != nil {
			resp.Notifications = NotificationsToResponse(cfg.Notifications.All())
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func historyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", "BAD_REQUEST")
				return
			}
			limit = min(n, maxHistoryLimit)
		}

		resp := HistoryResponse{Submissions: []HistoryRecordResponse{}}
		if cfg.History == nil {
			WriteJSON(w, http.StatusOK, resp)
			return
		}

		records, err := cfg.History.List(r.Context(), limit)
		if err != nil {
			cfg.Logger.Error("failed to list submissions", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list submissions", "INTERNAL_ERROR")
			return
		}
		for _, rec := range records {
			resp.Submissions = append(resp.Submissions, RecordToResponse(rec))
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func historyRecordHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.History == nil {
			WriteError(w, http.StatusNotFound, "submission not found", "NOT_FOUND")
			return
		}

		rec, err := cfg.History.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			cfg.Logger.Error("failed to get submission", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to get submission", "INTERNAL_ERROR")
			return
		}
		if rec == nil {
			WriteError(w, http.StatusNotFound, "submission not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, RecordToResponse(rec))
	}
}

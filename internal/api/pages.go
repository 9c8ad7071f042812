package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

//go:embed templates/*.tmpl static/*
var assets embed.FS

const (
	pageHome       = "home"
	pageHighlights = "highlights"
	pageAbout      = "about"
)

var pageTitles = map[string]string{
	pageHome:       "Home",
	pageHighlights: "Highlights",
	pageAbout:      "About",
}

type pageData struct {
	Title   string
	Active  string
	Year    int
	Version string
	Flashes []forms.Notification

	Link       forms.LinkSnapshot
	Upload     forms.UploadSnapshot
	LinkBusy   bool
	UploadBusy bool
}

// loadTemplates parses the shared layout once per page so every page can
// define its own "content" block.
func loadTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"bytes": func(n int64) string { return humanize.IBytes(uint64(n)) },
	}

	templates := make(map[string]*template.Template, len(pageTitles))
	for name := range pageTitles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/base.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func staticHandler() (http.Handler, error) {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub)), nil
}

func pageHandler(cfg ServerConfig, pages map[string]*template.Template, name string) http.HandlerFunc {
	tmpl := pages[name]
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Title:   pageTitles[name],
			Active:  name,
			Year:    time.Now().Year(),
			Version: cfg.Version,
		}
		if cfg.Notifications != nil {
			data.Flashes = cfg.Notifications.Drain()
		}
		if name == pageHighlights {
			data.Link = cfg.LinkForm.Snapshot()
			data.Upload = cfg.UploadForm.Snapshot()
			data.LinkBusy = data.Link.State.Status == submission.Submitting
			data.UploadBusy = data.Upload.State.Status == submission.Submitting
		}

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
			cfg.Logger.Error("failed to render page", "page", name, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}

package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Dan9191/quillpost/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// page is the data every template receives
type page struct {
	Site    string
	Title   string
	Ident   session.Identity
	Flashes []string
	Data    any
}

type errorPage struct {
	Status  int
	Message string
}

func parseTemplates() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	views := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == "templates/layout.html" {
			continue
		}
		t, err := template.ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		views[name[len("templates/"):len(name)-len(".html")]] = t
	}
	return views, nil
}

// render writes a full page. Flashes passed in are shown alongside any
// pending ones carried over from a redirect.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view, title string, data any, flashes ...string) {
	t, ok := h.views[view]
	if !ok {
		h.log.Errorf("Unknown view %q", view)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p := page{
		Site:    h.site,
		Title:   title,
		Ident:   session.FromContext(r.Context()),
		Flashes: append(h.flash.Pop(w, r), flashes...),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		h.log.WithError(err).Errorf("Failed to render %s", view)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error", http.StatusText(status), errorPage{Status: status, Message: message})
}

// redirectWithFlash sends the client to url with a message for the next page
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, message string) {
	if err := h.flash.Set(w, message); err != nil {
		h.log.WithError(err).Error("Failed to set flash")
	}
	http.Redirect(w, r, url, http.StatusFound)
}

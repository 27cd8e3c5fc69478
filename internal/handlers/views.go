package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/poseidon-capital/console/internal/security"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"login", "home", "message", "list", "form"}

// Page is the data every template receives.
type Page struct {
	Title   string
	User    *security.Principal
	Flash   string
	Error   string
	Content any
}

// Views renders the embedded page templates inside the shared layout.
type Views struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewViews(logger *slog.Logger) (*Views, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Views{pages: pages, logger: logger}, nil
}

// Render writes page name with status. The principal of the request is
// filled in when the caller left it empty.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.logger.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if page.User == nil {
		page.User = security.PrincipalFrom(r.Context())
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		v.logger.ErrorContext(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Message renders the fixed message page used by /403 and /error.
func (v *Views) Message(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	v.Render(w, r, status, "message", Page{Title: title, Content: message})
}

// StaticHandler serves the embedded stylesheets and scripts.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ragadmin/internal/backend"
	"ragadmin/internal/web/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "dashboard", "users", "licenses", "knowledgebases", "configuration"}

var templateFuncs = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 3:04 PM")
	},
	"fmtExpiry": func(t *time.Time) string {
		if t == nil {
			return "Never"
		}
		return t.Local().Format("Jan 2, 2006 3:04 PM")
	},
	"fmtFloat": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
	"fmtInt": func(i *int) string {
		if i == nil {
			return ""
		}
		return strconv.Itoa(*i)
	},
	"joinComma": func(parts []string) string {
		return strings.Join(parts, ", ")
	},
	"orEmpty": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"orDash": func(s *string) string {
		if s == nil || *s == "" {
			return "—"
		}
		return *s
	},
}

// Renderer holds the parsed page templates, each paired with the shared
// layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

type pageData struct {
	Title   string
	Active  string
	User    *backend.User
	Flashes []flash.Message
	Data    interface{}
}

func (rd *Renderer) render(w http.ResponseWriter, page string, data pageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("failed to render template")
	}
}

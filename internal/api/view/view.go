// Package view renders the server-side HTML pages from embedded templates.
package view

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"eclass/internal/domain/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"fmtTime": func(t time.Time) string { return t.Format("Jan 2, 2006 15:04") },
	"fmtDate": func(t time.Time) string { return t.Format("2006-01-02T15:04") }, // datetime-local value
}

var pages = map[string]*template.Template{}

func init() {
	for _, page := range []string{"login.html", "admin.html", "teacher.html", "student.html"} {
		pages[page] = template.Must(
			template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
		)
	}
}

// Page is the data every template receives.
type Page struct {
	Title     string
	Principal *model.User
	Flash     *Flash
	Data      interface{}
}

func Render(w http.ResponseWriter, r *http.Request, page string, p Page) {
	if p.Flash == nil {
		p.Flash = PopFlash(w, r)
	}
	tmpl, ok := pages[page]
	if !ok {
		log.Printf("view: unknown page %q", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", p); err != nil {
		log.Printf("view: render %s: %v", page, err)
	}
}

package main

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.gohtml
var tplFS embed.FS

//go:embed all:static
var staticFS embed.FS

type App struct {
	API string
}

func main() {
	api := getenv("API_URL", "http://localhost:8000")
	port := getenv("PORT", "5175")

	app := &App{API: api}

	r := chi.NewRouter()
	r.Get("/", app.page("explorer.gohtml"))

	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, "/static/")
		b, err := staticFS.ReadFile(path.Join("static", p))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(p, ".js") {
			w.Header().Set("content-type", "application/javascript")
		}
		if strings.HasSuffix(p, ".css") {
			w.Header().Set("content-type", "text/css")
		}
		w.Write(b)
	})

	log.Printf("Gapminder frontend on :%s (API=%s)", port, api)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func (a *App) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, err := template.ParseFS(tplFS, "templates/base.gohtml", "templates/"+name)
		if err != nil {
			http.Error(w, "template error", 500)
			return
		}

		data := map[string]any{
			"API":  a.API,
			"Path": r.URL.Path,
		}
		if err := tpl.ExecuteTemplate(w, "base", data); err != nil {
			http.Error(w, err.Error(), 500)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Package web serves the single-page comfort dashboard. The page is embedded
// into the binary so the service ships as one artifact; everything dynamic
// comes from the v1 API.
package web

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler returns the dashboard handler. The root path serves the page;
// anything else under it falls through to a JSON-less 404 from the file
// server, which is acceptable for a single-page asset.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		page, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
	})
}

// Package site serves the MedVision landing page and its static assets.
// The page script drives the session API and renders overlay fragments
// pushed over the session event stream.
package site

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/medvision/internal/analysis"
	"github.com/JaimeStill/medvision/pkg/web"
)

//go:embed layouts/*.html views/*.html static/*
var siteFS embed.FS

const layout = "app"

var (
	homeView     = web.ViewDef{Route: "/", Template: "home.html", Title: "MedVision AI - Advanced Medical Diagnostics", Bundle: "site"}
	notFoundView = web.ViewDef{Template: "404.html", Title: "Page Not Found"}
)

// Page is the landing page data.
type Page struct {
	APIBase    string
	Categories []analysis.Category
}

// Site renders the landing page.
type Site struct {
	templates *web.TemplateSet
	page      Page
}

// New parses the embedded templates. apiBase is the API module prefix the
// page script calls, e.g. "/api".
func New(apiBase string, categories []analysis.Category) (*Site, error) {
	ts, err := web.NewTemplateSet(
		siteFS, siteFS,
		"layouts/*.html", "views", "/",
		[]web.ViewDef{homeView, notFoundView},
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &Site{
		templates: ts,
		page:      Page{APIBase: apiBase, Categories: categories},
	}, nil
}

// Handler returns the site router: the landing page at "/", embedded assets
// under "/static/", robots.txt at the root, and a not-found page otherwise.
func (s *Site) Handler() http.Handler {
	r := web.NewRouter()

	r.HandleFunc("GET /{$}", s.templates.PageHandler(layout, homeView, func(*http.Request) (any, error) {
		return s.page, nil
	}))
	r.HandleFunc("GET /static/", web.DistServer(siteFS, "static", "/static/"))
	for _, route := range web.PublicFileRoutes(siteFS, "static", "robots.txt") {
		r.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}
	r.SetFallback(s.templates.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	return r
}

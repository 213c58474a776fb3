package web_test

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/medvision/pkg/web"
)

func viewFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/app.html": {Data: []byte(
			`{{ define "app" }}<title>{{ .Title }}</title><base href="{{ .BasePath }}">{{ template "content" . }}{{ end }}`,
		)},
		"views/home.html": {Data: []byte(
			`{{ define "content" }}<p>{{ shout .Data }}</p>{{ end }}`,
		)},
		"views/404.html": {Data: []byte(
			`{{ define "content" }}<p>missing</p>{{ end }}`,
		)},
	}
}

var (
	homeView     = web.ViewDef{Route: "/", Template: "home.html", Title: "Home"}
	notFoundView = web.ViewDef{Route: "", Template: "404.html", Title: "Not Found"}
	funcs        = template.FuncMap{"shout": func(v any) string {
		s, _ := v.(string)
		return strings.ToUpper(s)
	}}
)

func newTemplateSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	fsys := viewFS()
	ts, err := web.NewTemplateSet(fsys, fsys, "layouts/*.html", "views", "/", []web.ViewDef{homeView, notFoundView}, funcs)
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}
	return ts
}

func TestPageHandler(t *testing.T) {
	ts := newTemplateSet(t)
	handler := ts.PageHandler("app", homeView, func(r *http.Request) (any, error) {
		return "hello", nil
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>Home</title>", "<p>HELLO</p>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type: got %q", ct)
	}
}

func TestPageHandlerDataError(t *testing.T) {
	ts := newTemplateSet(t)
	handler := ts.PageHandler("app", homeView, func(r *http.Request) (any, error) {
		return nil, errors.New("no data")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	ts := newTemplateSet(t)
	handler := ts.ErrorHandler("app", notFoundView, http.StatusNotFound)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing") {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestRenderUnknownView(t *testing.T) {
	ts := newTemplateSet(t)
	rec := httptest.NewRecorder()

	err := ts.Render(rec, "app", "unknown.html", web.ViewData{})
	if err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestNewTemplateSetMissingView(t *testing.T) {
	fsys := viewFS()
	_, err := web.NewTemplateSet(fsys, fsys, "layouts/*.html", "views", "/",
		[]web.ViewDef{{Template: "absent.html"}}, nil)
	if err == nil {
		t.Error("expected error for missing view template")
	}
}

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/medvision/pkg/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"site/static/app.js":     {Data: []byte("console.log('ok')")},
		"site/public/robots.txt": {Data: []byte("User-agent: *")},
	}
}

func TestDistServer(t *testing.T) {
	handler := web.DistServer(testFS(), "site/static", "/static/")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/static/app.js", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if rec.Body.String() != "console.log('ok')" {
		t.Errorf("body: got %q", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Error("expected Cache-Control header")
	}
}

func TestDistServerMissing(t *testing.T) {
	handler := web.DistServer(testFS(), "site/static", "/static/")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/static/missing.css", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestPublicFileRoutes(t *testing.T) {
	mux := http.NewServeMux()
	for _, route := range web.PublicFileRoutes(testFS(), "site/public", "robots.txt", "favicon.svg") {
		mux.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{"present", "/robots.txt", http.StatusOK},
		{"missing", "/favicon.svg", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

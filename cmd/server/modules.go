package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/medvision/internal/analysis"
	"github.com/JaimeStill/medvision/internal/api"
	"github.com/JaimeStill/medvision/internal/config"
	"github.com/JaimeStill/medvision/internal/infrastructure"
	"github.com/JaimeStill/medvision/pkg/middleware"
	"github.com/JaimeStill/medvision/pkg/module"
	"github.com/JaimeStill/medvision/web/scalar"
	"github.com/JaimeStill/medvision/web/site"
)

type Modules struct {
	API    *module.Module
	Scalar *module.Module
	Site   http.Handler
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	scalarModule := scalar.NewModule("/scalar", cfg.API.BasePath+"/openapi.json")
	scalarModule.Use(middleware.Logger(infra.Logger))

	landing, err := site.New(cfg.API.BasePath, analysis.Categories())
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
		Site:   middleware.Logger(infra.Logger)(landing.Handler()),
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
	router.Handle("/", m.Site)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}

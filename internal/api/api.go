// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/medvision/internal/config"
	"github.com/JaimeStill/medvision/internal/infrastructure"
	"github.com/JaimeStill/medvision/pkg/middleware"
	"github.com/JaimeStill/medvision/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The session sweeper is registered with the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	if err := domain.Sessions.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("sessions start failed: %w", err)
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Recoverer)
	m.Use(middleware.RequestID)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}

package api

import (
	"github.com/JaimeStill/medvision/internal/config"
	"github.com/JaimeStill/medvision/internal/infrastructure"
	"github.com/JaimeStill/medvision/pkg/pagination"
)

// Runtime extends Infrastructure with the configuration the domain systems consume.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Analysis   config.AnalysisConfig
	Overlays   config.OverlaysConfig
	Sessions   config.SessionsConfig
	Reports    config.ReportsConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Analysis:   cfg.Analysis,
		Overlays:   cfg.Overlays,
		Sessions:   cfg.Sessions,
		Reports:    cfg.Reports,
	}
}

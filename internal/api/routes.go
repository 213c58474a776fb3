package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/medvision/internal/config"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Sessions.Handler().Routes(),
		domain.Uploads.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analysis.Handler(domain.Overlays).Routes(),
		domain.Overlays.Handler().Routes(),
		domain.Reports.Handler().Routes(),
		domain.Dashboard.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec, err := buildSpec(cfg, groups...)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}

// buildSpec describes the documented routes relative to the API base path.
func buildSpec(cfg *config.Config, groups ...routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(fmt.Sprintf("http://%s", cfg.Server.Addr()))

	routes.Describe(spec, cfg.API.BasePath, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}

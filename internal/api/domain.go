package api

import (
	"github.com/JaimeStill/medvision/internal/analysis"
	"github.com/JaimeStill/medvision/internal/dashboard"
	"github.com/JaimeStill/medvision/internal/overlays"
	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/internal/uploads"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions  sessions.System
	Uploads   uploads.System
	Analysis  analysis.System
	Overlays  overlays.System
	Reports   reports.System
	Dashboard dashboard.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	sessionsSystem := sessions.New(
		runtime.Sessions.TTLDuration(),
		runtime.Sessions.SweepIntervalDuration(),
		runtime.Logger,
	)

	uploadsSystem := uploads.New(
		sessionsSystem,
		runtime.Analysis.MaxImageSizeBytes(),
		runtime.Logger,
	)

	analysisSystem := analysis.New(
		sessionsSystem,
		uploadsSystem,
		analysis.NewPredictor(
			runtime.Analysis.PredictorURL,
			runtime.Analysis.PredictorPath,
			runtime.Analysis.PredictorTimeoutDuration(),
		),
		analysis.NewRandomFallback(nil),
		runtime.Analysis.DelayDuration(),
		runtime.Logger,
	)

	overlaysSystem := overlays.New(
		sessionsSystem,
		runtime.Overlays.RetinaDismissDuration(),
		runtime.Logger,
	)

	reportsSystem := reports.New(
		sessionsSystem,
		reports.ImageOptions{
			MaxEdge:   runtime.Reports.ImageMaxEdge,
			Quality:   runtime.Reports.JPEGQuality,
			MaxPixels: runtime.Reports.MaxImagePixels,
		},
		runtime.Logger,
	)

	dashboardSystem := dashboard.New(
		runtime.Database.Connection(),
		runtime.Storage,
		sessionsSystem,
		reportsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Sessions:  sessionsSystem,
		Uploads:   uploadsSystem,
		Analysis:  analysisSystem,
		Overlays:  overlaysSystem,
		Reports:   reportsSystem,
		Dashboard: dashboardSystem,
	}
}

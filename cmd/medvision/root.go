package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/medvision/internal/analysis"
	"github.com/JaimeStill/medvision/internal/config"
	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/internal/uploads"
)

// Version is set via ldflags at build time.
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "medvision",
	Short: "Offline tools for the MedVision AI analysis pipeline",
	Long: `medvision runs the analysis dispatcher and report exporter without the
HTTP service: render a report for an image, check whether an image passes
upload validation, or list the analysis categories.

Analysis and report settings come from the MEDVISION_ANALYSIS_* and
MEDVISION_REPORTS_* environment variables, falling back to the service defaults.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of medvision",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("medvision %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline activity to stderr")
	rootCmd.AddCommand(versionCmd)
}

// toolkit is the in-process pipeline: one session store, the upload
// validator, the dispatcher, and the exporter.
type toolkit struct {
	sessions sessions.System
	uploads  uploads.System
	analysis analysis.System
	reports  reports.System
}

func newToolkit(an *config.AnalysisConfig, rep *config.ReportsConfig) *toolkit {
	logger := newLogger()

	sess := sessions.New(0, 0, logger)
	up := uploads.New(sess, an.MaxImageSizeBytes(), logger)

	return &toolkit{
		sessions: sess,
		uploads:  up,
		analysis: analysis.New(
			sess,
			up,
			analysis.NewPredictor(an.PredictorURL, an.PredictorPath, an.PredictorTimeoutDuration()),
			analysis.NewRandomFallback(nil),
			an.DelayDuration(),
			logger,
		),
		reports: reports.New(sess, reports.ImageOptions{
			MaxEdge:   rep.ImageMaxEdge,
			Quality:   rep.JPEGQuality,
			MaxPixels: rep.MaxImagePixels,
		}, logger),
	}
}

func newLogger() *slog.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func loadSections() (*config.AnalysisConfig, *config.ReportsConfig, error) {
	an := &config.AnalysisConfig{}
	if err := an.Finalize(); err != nil {
		return nil, nil, err
	}

	rep := &config.ReportsConfig{}
	if err := rep.Finalize(); err != nil {
		return nil, nil, err
	}
	return an, rep, nil
}

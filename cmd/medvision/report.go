package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/medvision/internal/analysis"
	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/uploads"
)

var reportOpts struct {
	category string
	image    string
	format   string
	out      string
	delay    time.Duration
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze an image and write the downloadable report",
	Long: `Runs the analysis dispatcher for the category and writes the report the
download button would produce. The retina category calls the prediction
service and falls back to a demo result when it is unavailable. Without
--image, canned categories render the report without an image section.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportOpts.category, "category", "c", uploads.RetinaCategory, "analysis category")
	f.StringVarP(&reportOpts.image, "image", "i", "", "image file to analyze")
	f.StringVarP(&reportOpts.format, "format", "f", string(reports.FormatPDF), "report format (pdf or html)")
	f.StringVarP(&reportOpts.out, "out", "o", ".", "output directory")
	f.DurationVar(&reportOpts.delay, "delay", -1, "override the simulated analysis delay")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := reports.ParseFormat(reportOpts.format)
	if err != nil {
		return err
	}

	an, rep, err := loadSections()
	if err != nil {
		return err
	}
	if reportOpts.delay >= 0 {
		an.Delay = reportOpts.delay.String()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	tk := newToolkit(an, rep)

	var artifact *reports.Artifact
	var r results.Result
	if reportOpts.image == "" {
		r, artifact, err = reportCanned(tk, reportOpts.category, format)
	} else {
		r, artifact, err = reportImage(ctx, tk, reportOpts.image, reportOpts.category, format)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(reportOpts.out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(reportOpts.out, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	d := r.Display()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", d.Title, d.Diagnosis, d.Confidence)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(artifact.Data))
	return nil
}

// reportImage walks a session through select, analyze, and export, the same
// transitions the HTTP endpoints drive.
func reportImage(ctx context.Context, tk *toolkit, path, category string, format reports.Format) (results.Result, *reports.Artifact, error) {
	f, err := readFile(path)
	if err != nil {
		return nil, nil, err
	}

	sess := tk.sessions.Create()
	defer tk.sessions.Delete(sess.ID())

	if err := tk.uploads.Select(sess, f); err != nil {
		return nil, nil, err
	}

	file, err := sess.BeginAnalysis()
	if err != nil {
		return nil, nil, err
	}
	defer sess.AbortAnalysis()

	r, err := tk.analysis.Analyze(ctx, file, category)
	if err != nil {
		return nil, nil, err
	}
	if err := sess.CompleteAnalysis(category, r); err != nil {
		return nil, nil, err
	}

	artifact, err := tk.reports.Export(sess, format, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return r, artifact, nil
}

// reportCanned renders a canned category's result with no image section.
func reportCanned(tk *toolkit, category string, format reports.Format) (results.Result, *reports.Artifact, error) {
	if category == uploads.RetinaCategory {
		return nil, nil, errors.New("retina analysis requires --image")
	}

	r, ok := analysis.Canned(category)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", analysis.ErrUnknownCategory, category)
	}

	doc := tk.reports.Build(r, category, nil, time.Now())
	artifact, err := tk.reports.Render(doc, format)
	if err != nil {
		return nil, nil, err
	}
	return r, artifact, nil
}

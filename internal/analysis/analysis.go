// Package analysis dispatches an analysis request by category: the retina
// category calls the prediction service with a canned fallback, the others
// return canned results after a simulated delay.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/medvision/internal/overlays"
	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/internal/uploads"
)

// System defines the analysis dispatcher contract.
type System interface {
	Handler(presenter overlays.System) *Handler

	Analyze(ctx context.Context, f *sessions.File, category string) (results.Result, error)
	Categories() []Category
	PredictorHealth(ctx context.Context) Health
}

type dispatcher struct {
	uploads   uploads.System
	sessions  sessions.System
	predictor *Predictor
	fallback  Fallback
	delay     time.Duration
	logger    *slog.Logger
}

// New creates the analysis dispatcher.
// delay is the simulated latency of the canned categories.
func New(
	sess sessions.System,
	up uploads.System,
	predictor *Predictor,
	fallback Fallback,
	delay time.Duration,
	logger *slog.Logger,
) System {
	return &dispatcher{
		uploads:   up,
		sessions:  sess,
		predictor: predictor,
		fallback:  fallback,
		delay:     delay,
		logger:    logger.With("system", "analysis"),
	}
}

func (d *dispatcher) Handler(presenter overlays.System) *Handler {
	return NewHandler(d, d.sessions, presenter, d.logger)
}

func (d *dispatcher) Categories() []Category {
	return Categories()
}

func (d *dispatcher) PredictorHealth(ctx context.Context) Health {
	return d.predictor.Health(ctx)
}

func (d *dispatcher) Analyze(ctx context.Context, f *sessions.File, category string) (results.Result, error) {
	if err := d.uploads.Validate(f, category); err != nil {
		return nil, err
	}

	if category == uploads.RetinaCategory {
		return d.analyzeRetina(ctx, f)
	}

	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	result, ok := Canned(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	d.logger.Info("canned analysis complete", "category", category, "result", result.Result)
	return result, nil
}

func (d *dispatcher) analyzeRetina(ctx context.Context, f *sessions.File) (results.Result, error) {
	result, err := d.predictor.Predict(ctx, f)
	if err == nil {
		d.logger.Info("retina prediction complete", "prediction", result.Prediction, "confidence", result.Confidence)
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	fallback := d.fallback.Substitute(err)
	d.logger.Warn("predictor unavailable, using demo result",
		"url", d.predictor.URL(),
		"error", err,
		"prediction", fallback.Prediction,
	)
	return fallback, nil
}

func (d *dispatcher) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

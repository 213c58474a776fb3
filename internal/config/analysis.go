package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/JaimeStill/medvision/pkg/formatting"
)

const (
	EnvAnalysisPredictorURL     = "MEDVISION_ANALYSIS_PREDICTOR_URL"
	EnvAnalysisPredictorPath    = "MEDVISION_ANALYSIS_PREDICTOR_PATH"
	EnvAnalysisPredictorTimeout = "MEDVISION_ANALYSIS_PREDICTOR_TIMEOUT"
	EnvAnalysisDelay            = "MEDVISION_ANALYSIS_DELAY"
	EnvAnalysisMaxImageSize     = "MEDVISION_ANALYSIS_MAX_IMAGE_SIZE"
)

// AnalysisConfig configures the retina predictor client, the simulated
// delay for canned categories, and the accepted image size.
// An empty PredictorTimeout leaves the predictor client without a timeout.
type AnalysisConfig struct {
	PredictorURL     string `toml:"predictor_url"`
	PredictorPath    string `toml:"predictor_path"`
	PredictorTimeout string `toml:"predictor_timeout"`
	Delay            string `toml:"delay"`
	MaxImageSize     string `toml:"max_image_size"`
}

// PredictorTimeoutDuration returns PredictorTimeout as a time.Duration, zero when unset.
func (c *AnalysisConfig) PredictorTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PredictorTimeout)
	return d
}

// DelayDuration returns Delay as a time.Duration.
func (c *AnalysisConfig) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Delay)
	return d
}

// MaxImageSizeBytes returns MaxImageSize as a byte count.
func (c *AnalysisConfig) MaxImageSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxImageSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.PredictorURL != "" {
		c.PredictorURL = overlay.PredictorURL
	}
	if overlay.PredictorPath != "" {
		c.PredictorPath = overlay.PredictorPath
	}
	if overlay.PredictorTimeout != "" {
		c.PredictorTimeout = overlay.PredictorTimeout
	}
	if overlay.Delay != "" {
		c.Delay = overlay.Delay
	}
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.PredictorURL == "" {
		c.PredictorURL = "http://localhost:5000"
	}
	if c.PredictorPath == "" {
		c.PredictorPath = "/predict/retina"
	}
	if c.Delay == "" {
		c.Delay = "2s"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "10MB"
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisPredictorURL); v != "" {
		c.PredictorURL = v
	}
	if v := os.Getenv(EnvAnalysisPredictorPath); v != "" {
		c.PredictorPath = v
	}
	if v := os.Getenv(EnvAnalysisPredictorTimeout); v != "" {
		c.PredictorTimeout = v
	}
	if v := os.Getenv(EnvAnalysisDelay); v != "" {
		c.Delay = v
	}
	if v := os.Getenv(EnvAnalysisMaxImageSize); v != "" {
		c.MaxImageSize = v
	}
}

func (c *AnalysisConfig) validate() error {
	u, err := url.Parse(c.PredictorURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid predictor_url: %q", c.PredictorURL)
	}
	if !strings.HasPrefix(c.PredictorPath, "/") {
		return fmt.Errorf("predictor_path must start with /: %q", c.PredictorPath)
	}
	if c.PredictorTimeout != "" {
		if _, err := time.ParseDuration(c.PredictorTimeout); err != nil {
			return fmt.Errorf("invalid predictor_timeout: %w", err)
		}
	}
	if d, err := time.ParseDuration(c.Delay); err != nil || d < 0 {
		return fmt.Errorf("invalid delay: %q", c.Delay)
	}
	if size, err := formatting.ParseBytes(c.MaxImageSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_image_size: %q", c.MaxImageSize)
	}
	return nil
}

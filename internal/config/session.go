package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvOverlaysRetinaDismiss = "MEDVISION_OVERLAYS_RETINA_DISMISS"

	EnvSessionsTTL           = "MEDVISION_SESSIONS_TTL"
	EnvSessionsSweepInterval = "MEDVISION_SESSIONS_SWEEP_INTERVAL"

	EnvReportsImageMaxEdge = "MEDVISION_REPORTS_IMAGE_MAX_EDGE"
	EnvReportsJPEGQuality  = "MEDVISION_REPORTS_JPEG_QUALITY"
	EnvReportsMaxPixels    = "MEDVISION_REPORTS_MAX_IMAGE_PIXELS"
)

// OverlaysConfig controls result overlay presentation.
// RetinaDismiss of "0s" disables auto-dismiss.
type OverlaysConfig struct {
	RetinaDismiss string `toml:"retina_dismiss"`
}

// RetinaDismissDuration returns RetinaDismiss as a time.Duration.
func (c *OverlaysConfig) RetinaDismissDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetinaDismiss)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OverlaysConfig) Finalize() error {
	if c.RetinaDismiss == "" {
		c.RetinaDismiss = "15s"
	}
	if v := os.Getenv(EnvOverlaysRetinaDismiss); v != "" {
		c.RetinaDismiss = v
	}
	if d, err := time.ParseDuration(c.RetinaDismiss); err != nil || d < 0 {
		return fmt.Errorf("invalid retina_dismiss: %q", c.RetinaDismiss)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *OverlaysConfig) Merge(overlay *OverlaysConfig) {
	if overlay.RetinaDismiss != "" {
		c.RetinaDismiss = overlay.RetinaDismiss
	}
}

// SessionsConfig controls in-memory session expiry.
// A TTL of "0s" keeps sessions until they are deleted.
type SessionsConfig struct {
	TTL           string `toml:"ttl"`
	SweepInterval string `toml:"sweep_interval"`
}

// TTLDuration returns TTL as a time.Duration.
func (c *SessionsConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *SessionsConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SessionsConfig) Finalize() error {
	if c.TTL == "" {
		c.TTL = "30m"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
	if v := os.Getenv(EnvSessionsTTL); v != "" {
		c.TTL = v
	}
	if v := os.Getenv(EnvSessionsSweepInterval); v != "" {
		c.SweepInterval = v
	}

	if d, err := time.ParseDuration(c.TTL); err != nil || d < 0 {
		return fmt.Errorf("invalid ttl: %q", c.TTL)
	}
	if d, err := time.ParseDuration(c.SweepInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid sweep_interval: %q", c.SweepInterval)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *SessionsConfig) Merge(overlay *SessionsConfig) {
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

// ReportsConfig controls the image embedded in exported reports.
type ReportsConfig struct {
	ImageMaxEdge   int `toml:"image_max_edge"`
	JPEGQuality    int `toml:"jpeg_quality"`
	MaxImagePixels int `toml:"max_image_pixels"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReportsConfig) Finalize() error {
	if c.ImageMaxEdge == 0 {
		c.ImageMaxEdge = 300
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = 80
	}
	if c.MaxImagePixels == 0 {
		c.MaxImagePixels = 50_000_000
	}
	if v := os.Getenv(EnvReportsImageMaxEdge); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ImageMaxEdge = n
		}
	}
	if v := os.Getenv(EnvReportsJPEGQuality); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.JPEGQuality = n
		}
	}
	if v := os.Getenv(EnvReportsMaxPixels); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxImagePixels = n
		}
	}

	if c.ImageMaxEdge < 1 {
		return fmt.Errorf("invalid image_max_edge: %d", c.ImageMaxEdge)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg_quality: %d", c.JPEGQuality)
	}
	if c.MaxImagePixels < 1 {
		return fmt.Errorf("invalid max_image_pixels: %d", c.MaxImagePixels)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ReportsConfig) Merge(overlay *ReportsConfig) {
	if overlay.ImageMaxEdge != 0 {
		c.ImageMaxEdge = overlay.ImageMaxEdge
	}
	if overlay.JPEGQuality != 0 {
		c.JPEGQuality = overlay.JPEGQuality
	}
	if overlay.MaxImagePixels != 0 {
		c.MaxImagePixels = overlay.MaxImagePixels
	}
}

package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/formatting"
)

// Predictor is a client for the external retina prediction service.
type Predictor struct {
	client  *http.Client
	baseURL string
	path    string
}

// Health is the predictor's self-reported status.
type Health struct {
	Reachable   bool   `json:"reachable"`
	Status      string `json:"status,omitempty"`
	ModelLoaded bool   `json:"model_loaded"`
	Error       string `json:"error,omitempty"`
}

type predictRequest struct {
	Image string `json:"image"`
}

type predictResponse struct {
	Success         bool            `json:"success"`
	Error           string          `json:"error"`
	Prediction      string          `json:"prediction"`
	Confidence      string          `json:"confidence"`
	AllPredictions  results.Entries `json:"all_predictions"`
	Recommendations []string        `json:"recommendations"`
}

// NewPredictor creates a client for baseURL+path. A zero timeout means no
// client-side timeout; the request context still applies.
func NewPredictor(baseURL, path string, timeout time.Duration) *Predictor {
	return &Predictor{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
	}
}

// URL returns the prediction endpoint.
func (p *Predictor) URL() string {
	return p.baseURL + p.path
}

// DataURI encodes f as data:<mime>;base64,<payload>.
func DataURI(f *sessions.File) string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// Predict submits f and returns the service's retina result.
// Failures wrap ErrTransport or ErrApplication.
func (p *Predictor) Predict(ctx context.Context, f *sessions.File) (results.RetinaResult, error) {
	body, err := json.Marshal(predictRequest{Image: DataURI(f)})
	if err != nil {
		return results.RetinaResult{}, fmt.Errorf("%w: encode request: %v", ErrApplication, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL(), bytes.NewReader(body))
	if err != nil {
		return results.RetinaResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return results.RetinaResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return results.RetinaResult{}, fmt.Errorf("%w: server error: %d", ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return results.RetinaResult{}, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	parsed, err := formatting.Parse[predictResponse](data)
	if err != nil {
		return results.RetinaResult{}, fmt.Errorf("%w: %v", ErrApplication, err)
	}

	if !parsed.Success {
		return results.RetinaResult{}, fmt.Errorf("%w: %s", ErrApplication, parsed.Error)
	}

	result := results.RetinaResult{
		Prediction:      parsed.Prediction,
		Confidence:      parsed.Confidence,
		AllPredictions:  parsed.AllPredictions,
		Recommendations: parsed.Recommendations,
	}
	if err := result.Validate(); err != nil {
		return results.RetinaResult{}, fmt.Errorf("%w: %v", ErrApplication, err)
	}

	return result, nil
}

// Health queries <baseURL>/health. An unreachable service is reported, not returned as an error.
func (p *Predictor) Health(ctx context.Context) Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return Health{Error: err.Error()}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Health{Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Health{Reachable: true, Error: err.Error()}
	}

	h, err := formatting.Parse[Health](data)
	if err != nil {
		return Health{Reachable: true, Error: err.Error()}
	}
	h.Reachable = true
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.Error = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return h
}

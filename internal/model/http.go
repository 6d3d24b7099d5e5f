package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeout bounds a single inference request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 512

// HTTPModel is a Model served over the TensorFlow Serving REST predict API:
//
//	POST {baseURL}/v1/models/{name}:predict
//	{"instances": [21000, 52000]}  ->  {"predictions": [0.87, 0.12]}
type HTTPModel struct {
	baseURL string
	name    string
	client  *http.Client
	logger  *slog.Logger
}

// Option customizes an HTTPModel.
type Option func(*HTTPModel)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(m *HTTPModel) {
		if c != nil {
			m.client = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(m *HTTPModel) {
		if d > 0 {
			m.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *HTTPModel) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewHTTPModel creates a client for the model called name hosted at baseURL.
// An empty name selects DefaultName.
func NewHTTPModel(baseURL, name string, opts ...Option) (*HTTPModel, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid model URL %q", baseURL)
	}
	if name == "" {
		name = DefaultName
	}
	m := &HTTPModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		name:    name,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name returns the served model name.
func (m *HTTPModel) Name() string { return m.name }

// PredictURL returns the endpoint Infer posts to.
func (m *HTTPModel) PredictURL() string {
	return fmt.Sprintf("%s/v1/models/%s:predict", m.baseURL, url.PathEscape(m.name))
}

type predictRequest struct {
	Instances []int64 `json:"instances"`
}

type predictResponse struct {
	Predictions *[]json.RawMessage `json:"predictions"`
	Error       string             `json:"error"`
}

// Infer posts features to the model server and returns its predictions in
// order. Every failure wraps ErrInference.
func (m *HTTPModel) Infer(ctx context.Context, features []int64) ([]float64, error) {
	if features == nil {
		features = []int64{}
	}
	payload, err := json.Marshal(predictRequest{Instances: features})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.PredictURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	m.logger.Debug("requesting inference", "model", m.name, "url", m.PredictURL(), "features", len(features))

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrInference, err)
	}

	var pr predictResponse
	decodeErr := json.Unmarshal(body, &pr)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && pr.Error != "" {
			return nil, fmt.Errorf("%w: model %s: HTTP %d: %s", ErrInference, m.name, resp.StatusCode, pr.Error)
		}
		return nil, fmt.Errorf("%w: model %s: HTTP %d: %s", ErrInference, m.name, resp.StatusCode, truncate(body))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrInference, decodeErr)
	}
	if pr.Error != "" {
		return nil, fmt.Errorf("%w: model %s: %s", ErrInference, m.name, pr.Error)
	}
	if pr.Predictions == nil {
		return nil, fmt.Errorf("%w: model %s: response has no predictions", ErrInference, m.name)
	}

	scores, err := flatten(*pr.Predictions)
	if err != nil {
		return nil, fmt.Errorf("%w: model %s: %w", ErrInference, m.name, err)
	}
	m.logger.Debug("inference complete", "model", m.name, "predictions", len(scores))
	return scores, nil
}

// flatten accepts scalar predictions ([0.1, 0.2]) and single-output
// predictions ([[0.1], [0.2]]).
func flatten(raw []json.RawMessage) ([]float64, error) {
	scores := make([]float64, len(raw))
	for i, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			return nil, fmt.Errorf("prediction %d is null", i)
		}
		var f float64
		if err := json.Unmarshal(r, &f); err == nil {
			scores[i] = f
			continue
		}
		var single []float64
		if err := json.Unmarshal(r, &single); err == nil && len(single) == 1 {
			scores[i] = single[0]
			continue
		}
		return nil, fmt.Errorf("prediction %d is not a number", i)
	}
	return scores, nil
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "…"
	}
	return s
}

package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/model"
)

// Options configures a single Run.
type Options struct {
	Endpoint  string // node API URL
	APIKey    string // sent as the API-Key header; may be empty
	ModelURL  string // model server base URL
	ModelName string // defaults to model.DefaultName
	Timeout   time.Duration

	// HTTPClient, when set, is shared by the fetcher and the model client.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Build wires a Fetcher, an HTTP model and a Predictor into an Analyzer.
// Invalid URLs are reported here, before any request is made.
func Build(opts Options) (*Analyzer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fetcher, err := chain.NewFetcher(opts.Endpoint, opts.APIKey,
		chain.WithTimeout(opts.Timeout),
		chain.WithHTTPClient(opts.HTTPClient),
		chain.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring fetcher: %w", err)
	}

	m, err := model.NewHTTPModel(opts.ModelURL, opts.ModelName,
		model.WithTimeout(opts.Timeout),
		model.WithHTTPClient(opts.HTTPClient),
		model.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring model: %w", err)
	}

	predictor, err := NewPredictor(m)
	if err != nil {
		return nil, err
	}
	return New(fetcher, predictor, logger)
}

// Run builds an Analyzer from opts and performs exactly one analysis.
func Run(ctx context.Context, opts Options) (*Report, error) {
	a, err := Build(opts)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx)
}

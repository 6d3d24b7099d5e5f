// Package analyzer composes the transaction fetch and the model inference
// into a single analysis run.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/google/uuid"
)

// Source supplies the transaction records for a run.
type Source interface {
	Fetch(ctx context.Context) (*chain.FetchResult, error)
}

// Report is the outcome of one successful run.
type Report struct {
	Model       string               `json:"model"`
	Records     int                  `json:"records"`
	Skipped     []chain.SkippedEntry `json:"skipped,omitempty"`
	Predictions Predictions          `json:"predictions"`
}

// Analyzer fetches records then predicts over them. Its source and predictor
// are fixed at construction.
type Analyzer struct {
	source    Source
	predictor *Predictor
	logger    *slog.Logger
}

// New creates an Analyzer. logger may be nil.
func New(src Source, p *Predictor, logger *slog.Logger) (*Analyzer, error) {
	if src == nil {
		return nil, errors.New("analyzer: source is required")
	}
	if p == nil {
		return nil, errors.New("analyzer: predictor is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{source: src, predictor: p, logger: logger}, nil
}

// Analyze runs fetch then predict. A fetch failure is returned as is and the
// model is never called. Nothing is retried.
func (a *Analyzer) Analyze(ctx context.Context) (*Report, error) {
	log := a.logger.With("run_id", uuid.NewString())

	log.Debug("analysis state", "state", "fetching")
	res, err := a.source.Fetch(ctx)
	if err != nil {
		log.Debug("analysis state", "state", "failed", "kind", KindOf(err).String())
		return nil, err
	}
	if res == nil {
		log.Debug("analysis state", "state", "failed", "kind", KindDecode.String())
		return nil, fmt.Errorf("%w: source returned no result", ErrDecode)
	}

	log.Debug("analysis state", "state", "predicting", "records", len(res.Records))
	preds, err := a.predictor.Predict(ctx, res.Records)
	if err != nil {
		log.Debug("analysis state", "state", "failed", "kind", KindOf(err).String())
		return nil, err
	}

	log.Debug("analysis state", "state", "done", "predictions", len(preds), "scores", preds.Scores())
	return &Report{
		Model:       a.predictor.Model().Name(),
		Records:     len(res.Records),
		Skipped:     res.Skipped,
		Predictions: preds,
	}, nil
}

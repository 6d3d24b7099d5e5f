package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/model"
)

// Predictor turns transaction records into labeled model scores.
type Predictor struct {
	model model.Model
}

// NewPredictor binds a Predictor to m. The model reference is fixed for the
// Predictor's lifetime.
func NewPredictor(m model.Model) (*Predictor, error) {
	if m == nil {
		return nil, errors.New("predictor: model is required")
	}
	return &Predictor{model: m}, nil
}

// Model returns the bound model.
func (p *Predictor) Model() model.Model { return p.model }

// Features extracts gas used from every record, in input order.
func (p *Predictor) Features(records []chain.Transaction) []int64 {
	features := make([]int64, len(records))
	for i, r := range records {
		features[i] = int64(r.GasUsed)
	}
	return features
}

// Predict runs one inference over the gas-used feature vector and labels the
// output by position. An empty record list is passed to the model as is.
func (p *Predictor) Predict(ctx context.Context, records []chain.Transaction) (Predictions, error) {
	scores, err := p.model.Infer(ctx, p.Features(records))
	if err != nil {
		if errors.Is(err, model.ErrInference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", model.ErrInference, err)
	}
	return newPredictions(scores), nil
}

package analyzer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/Mohsinsiddi/dappai/internal/analyzer"
	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Predictor
// ---------------------------------------------------------------------------

func TestNewPredictorRequiresModel(t *testing.T) {
	_, err := analyzer.NewPredictor(nil)
	assert.Error(t, err)
}

func TestFeaturesPreserveInputOrder(t *testing.T) {
	p, err := analyzer.NewPredictor(&mockModel{})
	require.NoError(t, err)

	got := p.Features([]chain.Transaction{tx("a", 3), tx("b", 1), tx("c", 2)})
	assert.Equal(t, []int64{3, 1, 2}, got)
}

func TestFeaturesKeepMaxInt64(t *testing.T) {
	p, err := analyzer.NewPredictor(&mockModel{})
	require.NoError(t, err)

	got := p.Features([]chain.Transaction{tx("a", math.MaxInt64), tx("b", 0)})
	assert.Equal(t, []int64{math.MaxInt64, 0}, got)
}

func TestPredictOversizedGasNeverReachesModel(t *testing.T) {
	res, err := chain.ParseResponse([]byte(`{"result":[
		{"transactionHash":"0x1","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":"0xffffffffffffffff"},
		{"transactionHash":"0x2","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":18446744073709551615},
		{"transactionHash":"0x3","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":9223372036854775807}
	]}`))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	require.Len(t, res.Skipped, 2)

	var seen []int64
	f := model.Func(func(_ context.Context, features []int64) ([]float64, error) {
		seen = features
		return []float64{0.5}, nil
	})
	p, err := analyzer.NewPredictor(f)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), res.Records)
	require.NoError(t, err)
	assert.Equal(t, []int64{math.MaxInt64}, seen)
}

func TestPredictLabelsFollowModelOutputLength(t *testing.T) {
	// Two inputs, four outputs: labels track the output, not the input.
	m := &mockModel{scores: []float64{0.1, 0.2, 0.3, 0.4}}
	p, err := analyzer.NewPredictor(m)
	require.NoError(t, err)

	preds, err := p.Predict(context.Background(), []chain.Transaction{tx("a", 1), tx("b", 2)})
	require.NoError(t, err)
	require.Len(t, preds, 4)
	for i, pr := range preds {
		assert.Equal(t, fmt.Sprintf("Prediction %d", i), pr.Label)
	}
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4}, preds.Scores())
}

func TestPredictEmptyInputStillCallsModel(t *testing.T) {
	m := &mockModel{scores: []float64{}}
	p, err := analyzer.NewPredictor(m)
	require.NoError(t, err)

	preds, err := p.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, preds)
	require.Len(t, m.seen, 1)
	assert.Empty(t, m.seen[0])
}

func TestPredictWrapsPlainModelErrors(t *testing.T) {
	f := model.Func(func(context.Context, []int64) ([]float64, error) {
		return nil, fmt.Errorf("tensor shape mismatch")
	})
	p, err := analyzer.NewPredictor(f)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), []chain.Transaction{tx("a", 1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, analyzer.ErrInference)
	assert.Contains(t, err.Error(), "tensor shape mismatch")
}

func TestPredictKeepsAlreadyClassifiedErrors(t *testing.T) {
	inner := fmt.Errorf("%w: HTTP 503", model.ErrInference)
	p, err := analyzer.NewPredictor(&mockModel{err: inner})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), nil)
	assert.Equal(t, inner, err)
}

// ---------------------------------------------------------------------------
// Predictions
// ---------------------------------------------------------------------------

func TestPredictionsMarshalKeepsOrder(t *testing.T) {
	preds := analyzer.Predictions{
		{Label: "Prediction 0", Score: 0.5},
		{Label: "Prediction 1", Score: 0.25},
		{Label: "Prediction 2", Score: 1},
		{Label: "Prediction 10", Score: 0},
	}
	out, err := json.Marshal(preds)
	require.NoError(t, err)
	assert.Equal(t, `{"Prediction 0":0.5,"Prediction 1":0.25,"Prediction 2":1,"Prediction 10":0}`, string(out))
}

func TestPredictionsMarshalEmpty(t *testing.T) {
	out, err := json.Marshal(analyzer.Predictions{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestPredictionsMarshalRejectsNaN(t *testing.T) {
	_, err := json.Marshal(analyzer.Predictions{{Label: "Prediction 0", Score: math.NaN()}})
	assert.Error(t, err)
}

func TestPredictionsMap(t *testing.T) {
	preds := analyzer.Predictions{{Label: "Prediction 0", Score: 0.87}, {Label: "Prediction 1", Score: 0.13}}
	assert.Equal(t, map[string]float64{"Prediction 0": 0.87, "Prediction 1": 0.13}, preds.Map())
}

func TestPredictionsString(t *testing.T) {
	preds := analyzer.Predictions{{Label: "Prediction 0", Score: 0.87}, {Label: "Prediction 1", Score: 2}}
	assert.Equal(t, `{Prediction 0: 0.87, Prediction 1: 2}`, preds.String())
	assert.Equal(t, `{}`, analyzer.Predictions{}.String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Prediction 0", analyzer.Label(0))
	assert.Equal(t, "Prediction 42", analyzer.Label(42))
}

package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Prediction is one labeled model score.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Predictions is the prediction mapping. It keeps the model's output order,
// which a Go map would lose.
type Predictions []Prediction

// Label returns the label for output position i.
func Label(i int) string { return "Prediction " + strconv.Itoa(i) }

func newPredictions(scores []float64) Predictions {
	out := make(Predictions, len(scores))
	for i, s := range scores {
		out[i] = Prediction{Label: Label(i), Score: s}
	}
	return out
}

// Map returns the predictions as an unordered label → score map.
func (p Predictions) Map() map[string]float64 {
	m := make(map[string]float64, len(p))
	for _, pr := range p {
		m[pr.Label] = pr.Score
	}
	return m
}

// Scores returns the raw scores in order.
func (p Predictions) Scores() []float64 {
	s := make([]float64, len(p))
	for i, pr := range p {
		s[i] = pr.Score
	}
	return s
}

// MarshalJSON encodes the predictions as a JSON object whose keys appear in
// model output order.
func (p Predictions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pr := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(pr.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(pr.Score)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pr.Label, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the mapping as {Prediction 0: 0.87, ...}.
func (p Predictions) String() string {
	parts := make([]string, len(p))
	for i, pr := range p {
		parts[i] = pr.Label + ": " + strconv.FormatFloat(pr.Score, 'g', -1, 64)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

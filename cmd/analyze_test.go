package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/Mohsinsiddi/dappai/internal/analyzer"
	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIKey_FlagWins(t *testing.T) {
	called := false
	key := resolveAPIKey("flag", "env", func() string { called = true; return "stored" })
	assert.Equal(t, "flag", key)
	assert.False(t, called, "keychain must not be consulted")
}

func TestResolveAPIKey_EnvBeforeKeychain(t *testing.T) {
	called := false
	key := resolveAPIKey("", "env", func() string { called = true; return "stored" })
	assert.Equal(t, "env", key)
	assert.False(t, called)
}

func TestResolveAPIKey_KeychainFallback(t *testing.T) {
	assert.Equal(t, "stored", resolveAPIKey("", "", func() string { return "stored" }))
	assert.Empty(t, resolveAPIKey("", "", func() string { return "" }))
}

func TestDescribeRunErrorKeepsClass(t *testing.T) {
	tests := []struct {
		err    error
		prefix string
	}{
		{fmt.Errorf("%w: HTTP 500", analyzer.ErrNetwork), "fetching transactions failed"},
		{fmt.Errorf("%w: response has no result", analyzer.ErrDecode), "node response could not be decoded"},
		{fmt.Errorf("%w: HTTP 404", analyzer.ErrInference), "model inference failed"},
	}
	for _, tt := range tests {
		got := describeRunError(tt.err)
		assert.ErrorIs(t, got, tt.err)
		assert.Contains(t, got.Error(), tt.prefix)
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, describeRunError(plain))
}

func TestPrintReportJSON(t *testing.T) {
	var buf bytes.Buffer
	report := &analyzer.Report{
		Model:   "AIAnalyzer",
		Records: 1,
		Predictions: analyzer.Predictions{
			{Label: "Prediction 0", Score: 0.87},
		},
	}
	require.NoError(t, printReport(&buf, report, "json"))
	assert.JSONEq(t, `{"Prediction 0": 0.87}`, buf.String())
}

func TestPrintReportJSONKeepsModelOrder(t *testing.T) {
	var buf bytes.Buffer
	report := &analyzer.Report{Predictions: analyzer.Predictions{
		{Label: "Prediction 0", Score: 1},
		{Label: "Prediction 1", Score: 2},
		{Label: "Prediction 2", Score: 3},
		{Label: "Prediction 10", Score: 4},
	}}
	require.NoError(t, printReport(&buf, report, "json"))

	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte(`"Prediction 2"`)), bytes.Index([]byte(out), []byte(`"Prediction 10"`)))
}

func TestPrintReportTable(t *testing.T) {
	var buf bytes.Buffer
	report := &analyzer.Report{
		Model:       "AIAnalyzer",
		Records:     2,
		Skipped:     []chain.SkippedEntry{{Index: 1, Reason: "missing gasUsed"}},
		Predictions: analyzer.Predictions{{Label: "Prediction 0", Score: 0.87}},
	}
	require.NoError(t, printReport(&buf, report, "table"))

	out := buf.String()
	assert.Contains(t, out, "AIAnalyzer")
	assert.Contains(t, out, "Prediction 0")
	assert.Contains(t, out, "0.87")
}

func TestPrintReportTableNoPredictions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, &analyzer.Report{Model: "AIAnalyzer"}, "table"))
	assert.Contains(t, buf.String(), "no predictions")
}

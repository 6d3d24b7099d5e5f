package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/dappai/internal/analyzer"
	"github.com/Mohsinsiddi/dappai/internal/chain"
)

// PredictionTable renders predictions in model output order.
func PredictionTable(preds analyzer.Predictions) string {
	t := NewTable([]Column{
		{Title: "Label", Width: 18},
		{Title: "Score", Width: 20},
	})
	for _, p := range preds {
		t.AddRow(Row{p.Label, FormatScore(p.Score)})
	}
	return t.Render()
}

// TransactionTable renders fetched records.
func TransactionTable(records []chain.Transaction) string {
	t := NewTable([]Column{
		{Title: "Hash", Width: 14},
		{Title: "Block", Width: 10},
		{Title: "Timestamp", Width: 20},
		{Title: "Gas Used", Width: 12},
	})
	for _, r := range records {
		t.AddRow(Row{
			TruncateHash(r.Hash),
			strconv.FormatUint(r.BlockNumber, 10),
			r.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatUint(r.GasUsed, 10),
		})
	}
	return t.Render()
}

// SkippedTable renders the entries dropped for schema mismatch.
func SkippedTable(skipped []chain.SkippedEntry) string {
	t := NewTable([]Column{
		{Title: "Entry", Width: 6},
		{Title: "Reason", Width: 60},
	})
	for _, s := range skipped {
		t.AddRow(Row{strconv.Itoa(s.Index), s.Reason})
	}
	return t.Render()
}

// SkippedSummary is the one-line warning shown after a run that dropped
// entries. It returns "" when nothing was skipped.
func SkippedSummary(records int, skipped []chain.SkippedEntry) string {
	if len(skipped) == 0 {
		return ""
	}
	noun := "entries"
	if len(skipped) == 1 {
		noun = "entry"
	}
	return Warn(fmt.Sprintf("%d %s skipped for schema mismatch (%d used); run `dappai fetch` for details",
		len(skipped), noun, records))
}

// FormatScore prints a score with the shortest exact representation.
func FormatScore(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}

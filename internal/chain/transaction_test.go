package chain

import (
	"math"
	"testing"
	"time"

	"github.com/Mohsinsiddi/dappai/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ParseResponse — envelope
// ---------------------------------------------------------------------------

func TestParseResponseSingleEntry(t *testing.T) {
	res, err := ParseResponse(fixtures.LoadResponse(t, "single.json"))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Skipped)

	tx := res.Records[0]
	assert.Equal(t, "0xabc", tx.Hash)
	assert.Equal(t, uint64(100), tx.BlockNumber)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tx.Timestamp)
	assert.Equal(t, uint64(21000), tx.GasUsed)
}

func TestParseResponseEmptyResult(t *testing.T) {
	res, err := ParseResponse([]byte(`{"result":[]}`))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Skipped)
}

func TestParseResponseNotJSON(t *testing.T) {
	_, err := ParseResponse([]byte(`<html>502 Bad Gateway</html>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParseResponseTopLevelArray(t *testing.T) {
	_, err := ParseResponse([]byte(`[{"transactionHash":"0x1"}]`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParseResponseNull(t *testing.T) {
	_, err := ParseResponse([]byte(`null`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParseResponseMissingResult(t *testing.T) {
	_, err := ParseResponse([]byte(`{"status":"1","message":"OK"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "result")
}

func TestParseResponseNullResult(t *testing.T) {
	_, err := ParseResponse([]byte(`{"result":null}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParseResponseResultErrorString(t *testing.T) {
	// Etherscan-style failure: result carries a message instead of an array.
	_, err := ParseResponse([]byte(`{"status":"0","message":"NOTOK","result":"Invalid API Key"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestParseResponseResultObject(t *testing.T) {
	_, err := ParseResponse([]byte(`{"result":{"transactionHash":"0x1"}}`))
	assert.ErrorIs(t, err, ErrDecode)
}

// ---------------------------------------------------------------------------
// ParseResponse — per-entry schema checks
// ---------------------------------------------------------------------------

func TestParseResponseMixedFixture(t *testing.T) {
	res, err := ParseResponse(fixtures.LoadResponse(t, "mixed.json"))
	require.NoError(t, err)

	hashes := make([]string, len(res.Records))
	for i, r := range res.Records {
		hashes[i] = r.Hash
	}
	assert.Equal(t, []string{"0x02", "0x04", "0x0a"}, hashes)

	skipped := make([]int, len(res.Skipped))
	for i, s := range res.Skipped {
		skipped[i] = s.Index
	}
	assert.Equal(t, []int{0, 2, 4, 5, 6, 7, 8}, skipped)

	// Every entry is accounted for exactly once.
	assert.Equal(t, 10, len(res.Records)+len(res.Skipped))
}

func TestParseResponseHexQuantitiesAndUnixTimestamp(t *testing.T) {
	res, err := ParseResponse(fixtures.LoadResponse(t, "mixed.json"))
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	tx := res.Records[1]
	assert.Equal(t, "0x04", tx.Hash)
	assert.Equal(t, uint64(0x67), tx.BlockNumber)
	assert.Equal(t, uint64(52000), tx.GasUsed)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 36, 0, time.UTC), tx.Timestamp)
}

func TestParseResponseSkipReasons(t *testing.T) {
	res, err := ParseResponse(fixtures.LoadResponse(t, "mixed.json"))
	require.NoError(t, err)

	reasons := map[int]string{}
	for _, s := range res.Skipped {
		reasons[s.Index] = s.Reason
	}
	assert.Equal(t, "missing gasUsed", reasons[0])
	assert.Equal(t, "blockNumber: not an integer", reasons[2])
	assert.Equal(t, "transactionHash: not a string", reasons[4])
	assert.Equal(t, "timestamp: not an RFC 3339 time", reasons[5])
	assert.Equal(t, "entry is not an object", reasons[6])
	assert.Equal(t, "gasUsed: not an integer", reasons[7])
	assert.Equal(t, "missing gasUsed", reasons[8])
}

func TestParseResponseSkipsQuantitiesAboveMaxInt64(t *testing.T) {
	body := []byte(`{"result":[
		{"transactionHash":"0x1","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":"0xffffffffffffffff"},
		{"transactionHash":"0x2","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":18446744073709551615},
		{"transactionHash":"0x3","blockNumber":"0x8000000000000000","timestamp":"2024-01-01T00:00:00Z","gasUsed":1},
		{"transactionHash":"0x4","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":"0x7fffffffffffffff"}
	]}`)
	res, err := ParseResponse(body)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "0x4", res.Records[0].Hash)
	assert.Equal(t, uint64(math.MaxInt64), res.Records[0].GasUsed)

	assert.Equal(t, []SkippedEntry{
		{Index: 0, Reason: "gasUsed: out of range"},
		{Index: 1, Reason: "gasUsed: out of range"},
		{Index: 2, Reason: "blockNumber: out of range"},
	}, res.Skipped)
	assert.Equal(t, 4, len(res.Records)+len(res.Skipped))
}

func TestParseResponseMissingEachField(t *testing.T) {
	cases := map[string]string{
		"transactionHash": `{"blockNumber":1,"timestamp":"2024-01-01T00:00:00Z","gasUsed":1}`,
		"blockNumber":     `{"transactionHash":"0x1","timestamp":"2024-01-01T00:00:00Z","gasUsed":1}`,
		"timestamp":       `{"transactionHash":"0x1","blockNumber":1,"gasUsed":1}`,
		"gasUsed":         `{"transactionHash":"0x1","blockNumber":1,"timestamp":"2024-01-01T00:00:00Z"}`,
	}
	for field, entry := range cases {
		t.Run(field, func(t *testing.T) {
			res, err := ParseResponse([]byte(`{"result":[` + entry + `]}`))
			require.NoError(t, err)
			assert.Empty(t, res.Records)
			require.Len(t, res.Skipped, 1)
			assert.Equal(t, "missing "+field, res.Skipped[0].Reason)
		})
	}
}

// ---------------------------------------------------------------------------
// field decoders
// ---------------------------------------------------------------------------

func TestDecodeQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    uint64
		wantErr bool
	}{
		{`21000`, 21000, false},
		{`0`, 0, false},
		{`"0x5208"`, 21000, false},
		{`"0X5208"`, 21000, false},
		{`"0x0"`, 0, false},
		{`9223372036854775807`, math.MaxInt64, false},
		{`"0x7fffffffffffffff"`, math.MaxInt64, false},
		{`9223372036854775808`, 0, true},
		{`18446744073709551615`, 0, true},
		{`"0xffffffffffffffff"`, 0, true},
		{`18446744073709551616`, 0, true},
		{`"21000"`, 0, true},
		{`21000.5`, 0, true},
		{`2.1e4`, 0, true},
		{`-1`, 0, true},
		{`"0x"`, 0, true},
		{`"0xzz"`, 0, true},
		{`true`, 0, true},
		{`[1]`, 0, true},
	}
	for _, tt := range tests {
		got, err := decodeQuantity([]byte(tt.raw))
		if tt.wantErr {
			assert.Error(t, err, "raw %s", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %s", tt.raw)
		assert.Equal(t, tt.want, got, "raw %s", tt.raw)
	}
}

func TestDecodeTimestamp(t *testing.T) {
	got, err := decodeTimestamp([]byte(`"2024-03-05T10:20:30+02:00"`))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 20, 30, 0, time.UTC), got)

	got, err = decodeTimestamp([]byte(`1700000000`))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.Unix())
	assert.Equal(t, time.UTC, got.Location())

	for _, raw := range []string{`"2024-01-01"`, `-5`, `1.5`, `false`, `{}`} {
		_, err := decodeTimestamp([]byte(raw))
		assert.Error(t, err, "raw %s", raw)
	}
}

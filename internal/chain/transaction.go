package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is the normalized view of one transaction entry returned by
// the node API.
type Transaction struct {
	Hash        string    `json:"transactionHash"`
	BlockNumber uint64    `json:"blockNumber"`
	Timestamp   time.Time `json:"timestamp"`
	GasUsed     uint64    `json:"gasUsed"`
}

// SkippedEntry records a `result` entry that was dropped because a required
// field was missing or had the wrong type.
type SkippedEntry struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// FetchResult carries the conforming records in response order together with
// every entry that did not conform.
type FetchResult struct {
	Records []Transaction  `json:"records"`
	Skipped []SkippedEntry `json:"skipped"`
}

// Required entry fields, in the order they are checked.
const (
	fieldHash        = "transactionHash"
	fieldBlockNumber = "blockNumber"
	fieldTimestamp   = "timestamp"
	fieldGasUsed     = "gasUsed"
)

// ParseResponse decodes a `{"result":[...]}` payload. A body that is not a
// JSON object, lacks `result`, or whose `result` is not an array is a decode
// error. Individual entries that do not conform are reported in Skipped.
func ParseResponse(body []byte) (*FetchResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %w", ErrDecode, err)
	}
	if envelope == nil {
		return nil, fmt.Errorf("%w: response is null", ErrDecode)
	}

	raw, ok := envelope["result"]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: response has no %q field", ErrDecode, "result")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Etherscan-style APIs put an error string in result on failure.
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			return nil, fmt.Errorf("%w: result is not an array: %s", ErrDecode, msg)
		}
		return nil, fmt.Errorf("%w: result is not an array", ErrDecode)
	}

	res := &FetchResult{Records: make([]Transaction, 0, len(entries))}
	for i, entry := range entries {
		tx, err := decodeEntry(entry)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedEntry{Index: i, Reason: err.Error()})
			continue
		}
		res.Records = append(res.Records, tx)
	}
	return res, nil
}

func decodeEntry(entry json.RawMessage) (Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
		return Transaction{}, errors.New("entry is not an object")
	}

	get := func(name string) (json.RawMessage, error) {
		v, ok := fields[name]
		if !ok || isNull(v) {
			return nil, fmt.Errorf("missing %s", name)
		}
		return v, nil
	}

	var tx Transaction

	raw, err := get(fieldHash)
	if err != nil {
		return Transaction{}, err
	}
	if err := json.Unmarshal(raw, &tx.Hash); err != nil {
		return Transaction{}, fmt.Errorf("%s: not a string", fieldHash)
	}

	if raw, err = get(fieldBlockNumber); err != nil {
		return Transaction{}, err
	}
	if tx.BlockNumber, err = decodeQuantity(raw); err != nil {
		return Transaction{}, fmt.Errorf("%s: %w", fieldBlockNumber, err)
	}

	if raw, err = get(fieldTimestamp); err != nil {
		return Transaction{}, err
	}
	if tx.Timestamp, err = decodeTimestamp(raw); err != nil {
		return Transaction{}, fmt.Errorf("%s: %w", fieldTimestamp, err)
	}

	if raw, err = get(fieldGasUsed); err != nil {
		return Transaction{}, err
	}
	if tx.GasUsed, err = decodeQuantity(raw); err != nil {
		return Transaction{}, fmt.Errorf("%s: %w", fieldGasUsed, err)
	}

	return tx, nil
}

var (
	errNotInteger = errors.New("not an integer")
	errOutOfRange = errors.New("out of range")
)

// decodeQuantity accepts a non-negative integral JSON number or an Ethereum
// hex quantity string ("0x5208"). Decimal strings and fractions are rejected.
// Values above math.MaxInt64 are rejected so every quantity fits a signed
// model feature.
func decodeQuantity(raw json.RawMessage) (uint64, error) {
	n, err := decodeUint(raw)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64 {
		return 0, errOutOfRange
	}
	return n, nil
}

func decodeUint(raw json.RawMessage) (uint64, error) {
	v, err := decodeScalar(raw)
	if err != nil {
		return 0, errNotInteger
	}
	switch x := v.(type) {
	case json.Number:
		n, err := strconv.ParseUint(x.String(), 10, 64)
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	case string:
		if !has0xPrefix(x) {
			return 0, errNotInteger
		}
		n, err := hexutil.DecodeUint64(x)
		if err != nil {
			return 0, fmt.Errorf("invalid hex quantity: %w", err)
		}
		return n, nil
	default:
		return 0, errNotInteger
	}
}

// decodeTimestamp accepts an RFC 3339 string or a non-negative integral
// number of Unix seconds. The result is always in UTC.
func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	v, err := decodeScalar(raw)
	if err != nil {
		return time.Time{}, errors.New("not a timestamp")
	}
	switch x := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, x)
		if err != nil {
			return time.Time{}, errors.New("not an RFC 3339 time")
		}
		return t.UTC(), nil
	case json.Number:
		secs, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil || secs < 0 {
			return time.Time{}, errors.New("not a unix timestamp")
		}
		return time.Unix(secs, 0).UTC(), nil
	default:
		return time.Time{}, errors.New("not a timestamp")
	}
}

func decodeScalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func has0xPrefix(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

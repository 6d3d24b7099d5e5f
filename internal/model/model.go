// Package model defines the inference capability the analyzer depends on and
// the backends that satisfy it.
package model

import (
	"context"
	"errors"
)

// ErrInference is wrapped by every error returned from Infer.
var ErrInference = errors.New("inference error")

// DefaultName is the model name used when none is configured.
const DefaultName = "AIAnalyzer"

// Model is an opaque, externally hosted inference capability.
type Model interface {
	Name() string
	// Infer maps a feature vector to a sequence of scores. The output length
	// is decided by the model and need not match the input length.
	Infer(ctx context.Context, features []int64) ([]float64, error)
}

// Func adapts an ordinary function to the Model interface.
type Func func(ctx context.Context, features []int64) ([]float64, error)

// Name implements Model.
func (f Func) Name() string { return "func" }

// Infer implements Model.
func (f Func) Infer(ctx context.Context, features []int64) ([]float64, error) {
	return f(ctx, features)
}

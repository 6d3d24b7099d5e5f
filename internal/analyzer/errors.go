package analyzer

import (
	"errors"

	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/model"
)

// The three fatal error classes of a run. Each is matched with errors.Is.
var (
	ErrNetwork   = chain.ErrNetwork
	ErrDecode    = chain.ErrDecode
	ErrInference = model.ErrInference
)

// Kind classifies a run error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindDecode
	KindInference
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindInference:
		return "inference"
	default:
		return "unknown"
	}
}

// KindOf reports which class err belongs to.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrInference):
		return KindInference
	default:
		return KindUnknown
	}
}

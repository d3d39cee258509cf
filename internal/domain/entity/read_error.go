package entity

import (
	"errors"
	"fmt"
)

// ReadErrorKind classifies why a balance read produced no value.
type ReadErrorKind string

const (
	// ReadErrorConnectivity covers unreachable RPCs and failing or reverting calls.
	ReadErrorConnectivity ReadErrorKind = "connectivity"
	// ReadErrorConfigGap covers reads skipped because the chain, token or mapping is not configured.
	ReadErrorConfigGap ReadErrorKind = "config_gap"
)

var (
	ErrInvalidAddress      = errors.New("invalid vault address")
	ErrChainUnavailable    = errors.New("chain unavailable")
	ErrInvalidTokenAddress = errors.New("invalid token address")
	ErrStrategyUnmapped    = errors.New("strategy has no receipt token for pair")
)

// ReadError describes a failed read of one (chain, asset) pair.
type ReadError struct {
	Kind    ReadErrorKind
	Op      string
	ChainID int64
	Symbol  string
	Err     error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("[%s] %s chain=%d symbol=%s: %v", e.Kind, e.Op, e.ChainID, e.Symbol, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError wraps err with the read context. A nil err yields nil.
func NewReadError(kind ReadErrorKind, op string, chainID int64, symbol string, err error) error {
	if err == nil {
		return nil
	}
	return &ReadError{Kind: kind, Op: op, ChainID: chainID, Symbol: symbol, Err: err}
}

// ReadErrorKindOf extracts the kind of err, defaulting to connectivity.
func ReadErrorKindOf(err error) ReadErrorKind {
	var re *ReadError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ReadErrorConnectivity
}

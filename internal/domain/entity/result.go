package entity

// ZeroAddress represents the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Result is the outcome of a single balance read. Exactly one of Value and Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful read.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a failed read.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// IsOk reports whether the read succeeded.
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

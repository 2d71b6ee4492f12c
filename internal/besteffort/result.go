// Package besteffort makes "this may fail and the caller may not care" visible in
// signatures. Callers decide whether to inspect, log or drop a Result.
package besteffort

import "log"

type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Log records a failure under component and reports whether the work succeeded.
func (r Result[T]) Log(component, what string) bool {
	if r.Err != nil {
		log.Printf("[%s] %s failed: %v", component, what, r.Err)
		return false
	}
	return true
}

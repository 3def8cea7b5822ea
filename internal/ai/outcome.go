package ai

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/hr-signals/internal/domain"
)

// Outcome is the explicit result of a collaborator call: either a generated
// value or the caller's fallback, together with the cause of the fallback.
type Outcome[T any] struct {
	Value  T
	Source domain.NarrativeSource
	Err    error
}

// Degraded reports whether the fallback branch was taken.
func (o Outcome[T]) Degraded() bool {
	return o.Source == domain.SourceFallback
}

// Resolve runs call bounded by timeout. Any error, or a value rejected by
// accept, yields the fallback. Errors are reported as kind.
func Resolve[T any](ctx context.Context, timeout time.Duration, kind domain.Kind, op string, call func(context.Context) (T, error), accept func(T) bool, fallback func() T) Outcome[T] {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	value, err := call(callCtx)
	if err == nil && accept != nil && !accept(value) {
		err = errors.New("unusable response")
	}
	if err != nil {
		if domain.KindOf(err) != kind {
			err = domain.Wrap(err, kind, op)
		}
		return Outcome[T]{Value: fallback(), Source: domain.SourceFallback, Err: err}
	}

	return Outcome[T]{Value: value, Source: domain.SourceGenerated}
}

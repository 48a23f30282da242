// Package classifier turns free text into an InterpretationResult by asking an
// external language model.
//
// Every failure mode (transport error, timeout, non-success status, an answer
// that does not match the expected JSON shape) is reported as an error
// wrapping ErrClassifierFailure. A well-formed "not a transaction" answer is
// not an error.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"finance-bot/internal/domain"
)

var ErrClassifierFailure = errors.New("classifier failure")

type Classifier interface {
	Interpret(ctx context.Context, text string) (domain.InterpretationResult, error)
}

func failure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrClassifierFailure, fmt.Sprintf(format, args...))
}

// unavailable answers every call with a failure. It is used when no
// credentials are configured so that commands keep working.
type unavailable struct{}

func (unavailable) Interpret(context.Context, string) (domain.InterpretationResult, error) {
	return domain.InterpretationResult{}, failure("no classifier configured")
}

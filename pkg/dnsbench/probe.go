package dnsbench

import (
	"context"
	"fmt"
)

// Probe sends a single query for the Domain and expects it to be answered. It is meant to be called before Run,
// nil is returned only when the nameserver responded with at least one answer record.
// Failure wraps ErrProbeFailed together with the cause.
func (b *Benchmark) Probe(ctx context.Context) error {
	if err := b.init(); err != nil {
		return err
	}
	if _, err := b.Transport.Query(ctx, b.Domain, true); err != nil {
		return fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	return nil
}

package publisher

import (
	"context"
	"errors"

	"video_syncer/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, rows domain.NewRows) error
}

// Multi fans a notification out to every notifier. All notifiers are tried;
// the returned error joins every failure.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, rows domain.NewRows) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Abitto-org/user-app/api"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

// StatusFunc fetches the current status of a purchase reference.
type StatusFunc func(ctx context.Context, reference string) (api.PurchaseStatus, error)

// Poller watches a purchase until its payment reaches a terminal status.
//
// This is the one place the gateway retries: user-initiated mutations are
// resubmitted by the user, but a purchase that has been handed to the
// hosted checkout resolves on the backend's schedule, so the poller asks
// again on a fixed interval. It is bounded — a hard attempt cap — and dies
// with its context, so no timer outlives the view that started it.
type Poller struct {
	fetch       StatusFunc
	interval    time.Duration
	maxAttempts int
	logger      zerolog.Logger
}

func NewPoller(fetch StatusFunc, interval time.Duration, maxAttempts int, logger zerolog.Logger) *Poller {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Poller{fetch: fetch, interval: interval, maxAttempts: maxAttempts, logger: logger}
}

// Wait polls until a terminal status is observed. Transient fetch errors do
// not abort the poll; they consume an attempt and the poller asks again.
// Returns the last observed status alongside the error when the context is
// cancelled or attempts run out.
func (p *Poller) Wait(ctx context.Context, reference string) (api.PurchaseStatus, error) {
	taskID := uuid.NewString()
	logger := p.logger.With().Str("poll_id", taskID).Str("reference", reference).Logger()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last api.PurchaseStatus
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		status, err := p.fetch(ctx, reference)
		switch {
		case err != nil:
			logger.Warn().Int("attempt", attempt).Err(err).Msg("purchase status fetch failed")
		case status.Terminal():
			logger.Debug().Int("attempt", attempt).Str("payment_status", status.PaymentStatus).Msg("purchase resolved")
			return status, nil
		default:
			last = status
		}

		if attempt == p.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return last, apperrors.Wrapf(ctx.Err(), "[Poller Wait] cancelled")
		case <-ticker.C:
		}
	}

	return last, apperrors.Wrapf(apperrors.ErrPollExhausted, "[Poller Wait] reference %s after %d attempts", reference, p.maxAttempts)
}

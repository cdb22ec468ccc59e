package purchase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Abitto-org/user-app/api"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
	"github.com/Abitto-org/user-app/purchase"
)

func TestPollerStopsAtTerminalStatus(t *testing.T) {
	var calls int32
	fetch := func(_ context.Context, ref string) (api.PurchaseStatus, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return api.PurchaseStatus{Reference: ref, PaymentStatus: "PENDING"}, nil
		}
		return api.PurchaseStatus{Reference: ref, PaymentStatus: api.PaymentStatusSuccess}, nil
	}

	poller := purchase.NewPoller(fetch, time.Millisecond, 10, zerolog.Nop())
	status, err := poller.Wait(context.Background(), "ref-1")
	require.NoError(t, err)
	require.Equal(t, api.PaymentStatusSuccess, status.PaymentStatus)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPollerFailedIsTerminal(t *testing.T) {
	fetch := func(_ context.Context, ref string) (api.PurchaseStatus, error) {
		return api.PurchaseStatus{Reference: ref, PaymentStatus: api.PaymentStatusFailed}, nil
	}

	poller := purchase.NewPoller(fetch, time.Millisecond, 10, zerolog.Nop())
	status, err := poller.Wait(context.Background(), "ref-2")
	require.NoError(t, err)
	require.Equal(t, api.PaymentStatusFailed, status.PaymentStatus)
}

func TestPollerToleratesTransientErrors(t *testing.T) {
	var calls int32
	fetch := func(_ context.Context, ref string) (api.PurchaseStatus, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return api.PurchaseStatus{}, errors.New("connection reset")
		}
		return api.PurchaseStatus{Reference: ref, PaymentStatus: api.PaymentStatusSuccess}, nil
	}

	poller := purchase.NewPoller(fetch, time.Millisecond, 10, zerolog.Nop())
	status, err := poller.Wait(context.Background(), "ref-3")
	require.NoError(t, err)
	require.Equal(t, api.PaymentStatusSuccess, status.PaymentStatus)
}

func TestPollerExhaustsAttempts(t *testing.T) {
	fetch := func(_ context.Context, ref string) (api.PurchaseStatus, error) {
		return api.PurchaseStatus{Reference: ref, PaymentStatus: "PENDING"}, nil
	}

	poller := purchase.NewPoller(fetch, time.Millisecond, 3, zerolog.Nop())
	status, err := poller.Wait(context.Background(), "ref-4")
	require.ErrorIs(t, err, apperrors.ErrPollExhausted)
	require.Equal(t, "PENDING", status.PaymentStatus)
}

func TestPollerDiesWithContext(t *testing.T) {
	fetch := func(_ context.Context, ref string) (api.PurchaseStatus, error) {
		return api.PurchaseStatus{Reference: ref, PaymentStatus: "PENDING"}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	poller := purchase.NewPoller(fetch, time.Hour, 10, zerolog.Nop())
	_, err := poller.Wait(ctx, "ref-5")
	require.ErrorIs(t, err, context.Canceled)
}

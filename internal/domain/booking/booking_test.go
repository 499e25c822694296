package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaberth/internal/domain/pricing"
	"seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

func testBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rate := money.Must(15000, "EUR")
	price, err := pricing.Quote(rate, dr)
	require.NoError(t, err)

	b, err := NewBooking(CreateParams{
		ID:        "bk-1",
		RenterID:  "renter-1",
		BoatID:    "boat-1",
		Range:     dr,
		Guests:    4,
		Price:     price,
		CreatedAt: time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingStartsPendingUnpaid(t *testing.T) {
	b := testBooking(t)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentPending, b.Payment)
	assert.True(t, b.IsActive())
	assert.False(t, b.IsTerminal())

	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.created", events[0].EventName())
}

func TestNewBookingValidation(t *testing.T) {
	base := testBooking(t)

	_, err := NewBooking(CreateParams{
		ID:       "bk-2",
		RenterID: "renter-1",
		BoatID:   base.BoatID,
		Range:    base.Range,
		Guests:   0,
		Price:    base.Price,
	})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = NewBooking(CreateParams{
		ID:       "bk-3",
		RenterID: "  ",
		BoatID:   base.BoatID,
		Range:    base.Range,
		Guests:   2,
		Price:    base.Price,
	})
	assert.Error(t, err)
}

func TestValidateDateRange(t *testing.T) {
	now := time.Date(2026, 12, 5, 10, 0, 0, 0, time.UTC)

	future, err := daterange.New(
		time.Date(2026, 12, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NoError(t, ValidateDateRange(future, now))

	// Starting later today is already too late: day granularity.
	today, err := daterange.New(
		time.Date(2026, 12, 5, 18, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateDateRange(today, now), ErrStartNotFuture)

	past, err := daterange.New(
		time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateDateRange(past, now), ErrStartNotFuture)
}

func TestConfirmOnlyFromPending(t *testing.T) {
	b := testBooking(t)
	now := time.Now().UTC()

	require.NoError(t, b.Confirm(now))
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
}

func TestCancelRefundsPaidBooking(t *testing.T) {
	b := testBooking(t)
	now := time.Now().UTC()
	b.MarkPaid(now)

	require.NoError(t, b.Cancel(now))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, PaymentRefunded, b.Payment)
	assert.False(t, b.IsActive())
}

func TestCancelUnpaidKeepsPaymentPending(t *testing.T) {
	b := testBooking(t)

	require.NoError(t, b.Cancel(time.Now().UTC()))
	assert.Equal(t, PaymentPending, b.Payment)
}

func TestTerminalStatesRefuseTransitions(t *testing.T) {
	now := time.Now().UTC()

	cancelled := testBooking(t)
	require.NoError(t, cancelled.Cancel(now))
	assert.ErrorIs(t, cancelled.Cancel(now), ErrInvalidState)
	assert.ErrorIs(t, cancelled.Complete(now), ErrInvalidState)

	completed := testBooking(t)
	require.NoError(t, completed.Complete(now))
	assert.ErrorIs(t, completed.Cancel(now), ErrInvalidState)
	assert.True(t, completed.IsTerminal())
}

func TestForceStatusSkipsTransitionGraph(t *testing.T) {
	b := testBooking(t)
	now := time.Now().UTC()
	require.NoError(t, b.Cancel(now))

	// Admin override resurrects a cancelled booking.
	require.NoError(t, b.ForceStatus(StatusConfirmed, now))
	assert.Equal(t, StatusConfirmed, b.Status)

	assert.ErrorIs(t, b.ForceStatus("bogus", now), ErrInvalidStatus)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("  Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

func mustRange(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	return dr
}

func TestQuoteThreeDayRental(t *testing.T) {
	rate := money.Must(15000, "EUR")
	dr := mustRange(t,
		time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC))

	breakdown, err := Quote(rate, dr)
	require.NoError(t, err)
	assert.Equal(t, 3, breakdown.Days)
	assert.Equal(t, int64(45000), breakdown.Total.Amount)
	assert.Equal(t, "EUR", breakdown.Total.Currency)
	assert.Equal(t, rate, breakdown.DailyRate)
}

func TestQuoteIgnoresTimeOfDay(t *testing.T) {
	rate := money.Must(10000, "EUR")
	dr := mustRange(t,
		time.Date(2026, 12, 5, 22, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 6, 1, 0, 0, 0, time.UTC))

	breakdown, err := Quote(rate, dr)
	require.NoError(t, err)
	assert.Equal(t, 1, breakdown.Days)
	assert.Equal(t, int64(10000), breakdown.Total.Amount)
}

func TestQuoteRejectsNonPositiveRate(t *testing.T) {
	dr := mustRange(t,
		time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC))

	_, err := Quote(money.Money{Amount: 0, Currency: "EUR"}, dr)
	assert.ErrorIs(t, err, ErrNonPositiveRate)

	_, err = Quote(money.Money{Amount: -500, Currency: "EUR"}, dr)
	assert.ErrorIs(t, err, ErrNonPositiveRate)
}

func TestQuoteRejectsMissingCurrency(t *testing.T) {
	dr := mustRange(t,
		time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC))

	_, err := Quote(money.Money{Amount: 10000}, dr)
	assert.ErrorIs(t, err, ErrCurrencyUnset)
}

func TestBreakdownValidate(t *testing.T) {
	rate := money.Must(15000, "EUR")

	valid := Breakdown{Days: 3, DailyRate: rate, Total: rate.Multiply(3)}
	assert.NoError(t, valid.Validate())

	noDays := Breakdown{Days: 0, DailyRate: rate, Total: rate}
	assert.Error(t, noDays.Validate())
}

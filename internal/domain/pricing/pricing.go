package pricing

import (
	"context"
	"errors"

	"seaberth/internal/domain/boats"
	"seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

var (
	ErrNonPositiveRate = errors.New("pricing: daily rate must be positive")
	ErrCurrencyUnset   = errors.New("pricing: currency must be defined")
)

// Breakdown is the price snapshot copied into a booking at creation time.
// It is never recomputed afterwards, so owner rate edits cannot rewrite
// historical totals.
type Breakdown struct {
	Days      int
	DailyRate money.Money
	Total     money.Money
}

func (b Breakdown) Validate() error {
	if b.DailyRate.Currency == "" {
		return ErrCurrencyUnset
	}
	if !b.DailyRate.IsPositive() {
		return ErrNonPositiveRate
	}
	if b.Days < 1 {
		return errors.New("pricing: days must be at least one")
	}
	return nil
}

// Quote computes the billable day count and total for a rate and range. Pure:
// same inputs, same output, no side effects.
func Quote(dailyRate money.Money, dr daterange.DateRange) (Breakdown, error) {
	if dailyRate.Currency == "" {
		return Breakdown{}, ErrCurrencyUnset
	}
	if !dailyRate.IsPositive() {
		return Breakdown{}, ErrNonPositiveRate
	}
	if err := dr.Validate(); err != nil {
		return Breakdown{}, err
	}
	days := dr.Days()
	return Breakdown{
		Days:      days,
		DailyRate: dailyRate,
		Total:     dailyRate.Multiply(int64(days)),
	}, nil
}

// Calculator quotes a rental of the given boat over the given range.
type Calculator interface {
	Quote(ctx context.Context, boat *boats.Boat, dr daterange.DateRange) (Breakdown, error)
}

// StandardCalculator prices straight off the boat's current daily rate.
type StandardCalculator struct{}

func (StandardCalculator) Quote(_ context.Context, boat *boats.Boat, dr daterange.DateRange) (Breakdown, error) {
	if boat == nil {
		return Breakdown{}, boats.ErrNotFound
	}
	return Quote(boat.DailyRate, dr)
}

var _ Calculator = StandardCalculator{}

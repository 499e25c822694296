package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"seaberth/internal/domain/boats"
	"seaberth/internal/domain/pricing"
	"seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/events"
)

var (
	ErrNotFound       = errors.New("booking: not found")
	ErrInvalidGuests  = errors.New("booking: guests count must be positive")
	ErrInvalidState   = errors.New("booking: invalid state transition")
	ErrInvalidStatus  = errors.New("booking: unknown status")
	ErrStartNotFuture = errors.New("booking: start date must be in the future")
	ErrDateConflict   = errors.New("booking: dates overlap an active booking")
	ErrNotRenter      = errors.New("booking: booking belongs to another renter")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ActiveStatuses are the statuses that reserve the boat: only pending and
// confirmed bookings block an overlapping range. Completed frees the boat once
// the rental is over; cancelled never blocks.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID              BookingID
	RenterID        string
	BoatID          boats.BoatID
	Range           daterange.DateRange
	Guests          int
	SpecialRequests string
	Price           pricing.Breakdown
	Status          Status
	Payment         PaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

type ListParams struct {
	Status Status // empty means all
	Page   int    // 1-based
	Limit  int
}

type ListResult struct {
	Items []*Booking
	Total int
}

func (p ListParams) Normalized() ListParams {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = 20
	}
	if out.Limit > 100 {
		out.Limit = 100
	}
	return out
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// CreateIfAvailable persists a new booking only if no active booking on
	// the same boat overlaps its range, atomically with respect to concurrent
	// creations. Returns ErrDateConflict otherwise.
	CreateIfAvailable(ctx context.Context, b *Booking) error
	Save(ctx context.Context, b *Booking) error
	ListByRenter(ctx context.Context, renterID string) ([]*Booking, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	// HasConflict reports whether any active booking on the boat overlaps dr
	// (closed-interval comparison). Existence check, not enumeration.
	HasConflict(ctx context.Context, boatID boats.BoatID, dr daterange.DateRange) (bool, error)
	// SweepCompleted promotes every active booking whose end date lies before
	// now to completed and returns the number mutated. Idempotent.
	SweepCompleted(ctx context.Context, now time.Time) (int64, error)
	DeleteByRenterOrBoats(ctx context.Context, renterID string, boatIDs []boats.BoatID) (int64, error)
}

type CreateParams struct {
	ID              BookingID
	RenterID        string
	BoatID          boats.BoatID
	Range           daterange.DateRange
	Guests          int
	SpecialRequests string
	Price           pricing.Breakdown
	CreatedAt       time.Time
}

// ValidateDateRange rejects ranges that do not start strictly in the future.
// Comparison is at day granularity: a start of "later today" is already too late.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	if !dr.Start.After(daterange.Normalize(now)) {
		return ErrStartNotFuture
	}
	return nil
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests < 1 {
		return nil, ErrInvalidGuests
	}
	if strings.TrimSpace(params.RenterID) == "" {
		return nil, errors.New("booking: renter id required")
	}
	if err := params.Price.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		RenterID:        params.RenterID,
		BoatID:          params.BoatID,
		Range:           params.Range,
		Guests:          params.Guests,
		SpecialRequests: strings.TrimSpace(params.SpecialRequests),
		Price:           params.Price,
		Status:          StatusPending,
		Payment:         PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(BookingCreated{BookingID: b.ID, BoatID: b.BoatID, RenterID: b.RenterID, Range: b.Range, Guests: b.Guests, Total: b.Price.Total, At: now})
	return b, nil
}

// IsActive reports whether the booking currently reserves the boat.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.touch(now)
	b.Record(BookingConfirmed{BookingID: b.ID, BoatID: b.BoatID, Range: b.Range, At: b.UpdatedAt})
	return nil
}

// Cancel moves an active booking to cancelled. Terminal states refuse the
// transition; a paid booking flips its payment status to refunded.
func (b *Booking) Cancel(now time.Time) error {
	if b.IsTerminal() {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	if b.Payment == PaymentPaid {
		b.Payment = PaymentRefunded
	}
	b.touch(now)
	b.Record(BookingCancelled{BookingID: b.ID, BoatID: b.BoatID, Range: b.Range, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.IsTerminal() {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.touch(now)
	b.Record(BookingCompleted{BookingID: b.ID, BoatID: b.BoatID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) MarkPaid(now time.Time) {
	b.Payment = PaymentPaid
	b.touch(now)
}

// ForceStatus overwrites the status unconditionally. Administrative override:
// only the enum is validated, the transition graph is not consulted.
func (b *Booking) ForceStatus(status Status, now time.Time) error {
	parsed, err := ParseStatus(string(status))
	if err != nil {
		return err
	}
	b.Status = parsed
	b.touch(now)
	b.Record(BookingStatusOverridden{BookingID: b.ID, Status: parsed, At: b.UpdatedAt})
	return nil
}

func (b *Booking) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	b.UpdatedAt = now.UTC()
}

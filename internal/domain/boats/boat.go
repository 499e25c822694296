package boats

import (
	"context"
	"errors"
	"strings"
	"time"

	"seaberth/internal/domain/shared/events"
	"seaberth/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("boats: not found")
	ErrNameRequired     = errors.New("boats: name is required")
	ErrNameTaken        = errors.New("boats: name already used at this location")
	ErrLocationRequired = errors.New("boats: location is required")
	ErrInvalidType      = errors.New("boats: type must be sailboat or motorboat")
	ErrInvalidDailyRate = errors.New("boats: daily rate must be positive")
	ErrInvalidCapacity  = errors.New("boats: capacity must be a positive integer")
	ErrInvalidLength    = errors.New("boats: length must be positive")
	ErrNotOwner         = errors.New("boats: boat belongs to another owner")
)

type BoatID string

// BoatType is stored lower-case.
type BoatType string

const (
	TypeSailboat  BoatType = "sailboat"
	TypeMotorboat BoatType = "motorboat"
)

func ParseBoatType(raw string) (BoatType, error) {
	switch BoatType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeSailboat:
		return TypeSailboat, nil
	case TypeMotorboat:
		return TypeMotorboat, nil
	default:
		return "", ErrInvalidType
	}
}

// Boat is the pricing and capacity input for every booking. DailyRate is read
// at booking time and snapshotted into the booking; later rate edits never
// touch history.
type Boat struct {
	ID           BoatID
	OwnerID      string
	Name         string
	Type         BoatType
	LengthMeters float64
	Capacity     int
	DailyRate    money.Money
	PhotoURL     string
	Location     string
	Rating       float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BoatID) (*Boat, error)
	// Save persists the boat, enforcing the unique (name, location) pair.
	Save(ctx context.Context, boat *Boat) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Boat, error)
	// IDsByOwner resolves the boat identifiers owned by a user, the first
	// step of every cascade deletion.
	IDsByOwner(ctx context.Context, ownerID string) ([]BoatID, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

type CreateParams struct {
	ID           BoatID
	OwnerID      string
	Name         string
	Type         BoatType
	LengthMeters float64
	Capacity     int
	DailyRate    money.Money
	PhotoURL     string
	Location     string
	CreatedAt    time.Time
}

func NewBoat(params CreateParams) (*Boat, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	boatType, err := ParseBoatType(string(params.Type))
	if err != nil {
		return nil, err
	}
	if !params.DailyRate.IsPositive() {
		return nil, ErrInvalidDailyRate
	}
	if params.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if params.LengthMeters <= 0 {
		return nil, ErrInvalidLength
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return nil, errors.New("boats: owner id required")
	}

	now := params.CreatedAt.UTC()
	b := &Boat{
		ID:           params.ID,
		OwnerID:      params.OwnerID,
		Name:         name,
		Type:         boatType,
		LengthMeters: params.LengthMeters,
		Capacity:     params.Capacity,
		DailyRate:    params.DailyRate,
		PhotoURL:     strings.TrimSpace(params.PhotoURL),
		Location:     location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.Record(BoatRegistered{BoatID: b.ID, OwnerID: b.OwnerID, Name: b.Name, Type: b.Type, Location: b.Location, At: now})
	return b, nil
}

// UpdateRating stores the recomputed review average, already rounded.
func (b *Boat) UpdateRating(average float64, now time.Time) {
	b.Rating = average
	b.touch(now)
}

func (b *Boat) UpdateDailyRate(rate money.Money, now time.Time) error {
	if !rate.IsPositive() {
		return ErrInvalidDailyRate
	}
	b.DailyRate = rate
	b.touch(now)
	return nil
}

func (b *Boat) SetPhoto(url string, now time.Time) {
	b.PhotoURL = strings.TrimSpace(url)
	b.touch(now)
}

func (b *Boat) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	b.UpdatedAt = now.UTC()
}

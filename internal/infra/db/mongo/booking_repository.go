package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainpricing "seaberth/internal/domain/pricing"
	domainrange "seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "boat_id", Value: 1}, {Key: "status", Value: 1}, {Key: "range.start", Value: 1}},
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "renter_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// CreateIfAvailable inserts the booking only when no active booking on the
// same boat overlaps. The check and the insert run inside the surrounding
// session transaction, which keeps the pair atomic.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domainbooking.Booking) error {
	conflict, err := r.HasConflict(ctx, b.BoatID, b.Range)
	if err != nil {
		return err
	}
	if conflict {
		return domainbooking.ErrDateConflict
	}
	doc := newBookingDocument(b)
	doc.Version = b.Version + 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"renter_id": renterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *BookingRepository) List(ctx context.Context, params domainbooking.ListParams) (domainbooking.ListResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainbooking.ListResult{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainbooking.ListResult{}, err
	}
	defer cur.Close(ctx)

	result := domainbooking.ListResult{Total: int(total)}
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return domainbooking.ListResult{}, err
		}
		result.Items = append(result.Items, doc.toAggregate())
	}
	return result, cur.Err()
}

// HasConflict runs the closed-interval overlap predicate against active
// bookings: an overlap exists when neither range starts after the other ends.
func (r *BookingRepository) HasConflict(ctx context.Context, boatID domainboats.BoatID, dr domainrange.DateRange) (bool, error) {
	filter := bson.M{
		"boat_id":     string(boatID),
		"status":      bson.M{"$in": activeStatusStrings()},
		"range.start": bson.M{"$lte": dr.End.UnixMilli()},
		"range.end":   bson.M{"$gte": dr.Start.UnixMilli()},
	}
	err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// SweepCompleted promotes active bookings that ended before now in one
// UpdateMany, so reruns match nothing and the sweep stays idempotent.
func (r *BookingRepository) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	nowMs := now.UTC().UnixMilli()
	filter := bson.M{
		"status":    bson.M{"$in": activeStatusStrings()},
		"range.end": bson.M{"$lt": domainrange.Normalize(now).UnixMilli()},
	}
	update := bson.M{
		"$set": bson.M{"status": string(domainbooking.StatusCompleted), "updated_at": nowMs},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *BookingRepository) DeleteByRenterOrBoats(ctx context.Context, renterID string, boatIDs []domainboats.BoatID) (int64, error) {
	ids := make([]string, 0, len(boatIDs))
	for _, id := range boatIDs {
		ids = append(ids, string(id))
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"renter_id": renterID},
		bson.M{"boat_id": bson.M{"$in": ids}},
	}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(domainbooking.ActiveStatuses))
	for _, s := range domainbooking.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

type bookingDocument struct {
	ID              string        `bson:"_id"`
	RenterID        string        `bson:"renter_id"`
	BoatID          string        `bson:"boat_id"`
	Range           rangeDocument `bson:"range"`
	Guests          int           `bson:"guests"`
	SpecialRequests string        `bson:"special_requests,omitempty"`
	Price           priceDocument `bson:"price"`
	Status          string        `bson:"status"`
	Payment         string        `bson:"payment"`
	CreatedAt       int64         `bson:"created_at"`
	UpdatedAt       int64         `bson:"updated_at"`
	Version         int64         `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

type priceDocument struct {
	Days       int    `bson:"days"`
	DailyRate  int64  `bson:"daily_rate"`
	TotalCents int64  `bson:"total_cents"`
	Currency   string `bson:"currency"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:              string(b.ID),
		RenterID:        b.RenterID,
		BoatID:          string(b.BoatID),
		Range:           rangeDocument{Start: b.Range.Start.UnixMilli(), End: b.Range.End.UnixMilli()},
		Guests:          b.Guests,
		SpecialRequests: b.SpecialRequests,
		Price: priceDocument{
			Days:       b.Price.Days,
			DailyRate:  b.Price.DailyRate.Amount,
			TotalCents: b.Price.Total.Amount,
			Currency:   b.Price.Total.Currency,
		},
		Status:    string(b.Status),
		Payment:   string(b.Payment),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:              domainbooking.BookingID(d.ID),
		RenterID:        d.RenterID,
		BoatID:          domainboats.BoatID(d.BoatID),
		Range:           domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		Guests:          d.Guests,
		SpecialRequests: d.SpecialRequests,
		Price: domainpricing.Breakdown{
			Days:      d.Price.Days,
			DailyRate: money.Money{Amount: d.Price.DailyRate, Currency: d.Price.Currency},
			Total:     money.Money{Amount: d.Price.TotalCents, Currency: d.Price.Currency},
		},
		Status:    domainbooking.Status(d.Status),
		Payment:   domainbooking.PaymentStatus(d.Payment),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

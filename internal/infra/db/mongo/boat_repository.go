package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainboats "seaberth/internal/domain/boats"
	"seaberth/internal/domain/shared/money"
)

type BoatRepository struct {
	col *mongo.Collection
}

func NewBoatRepository(db *mongo.Database) *BoatRepository {
	col := db.Collection("agg_boat")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "name_key", Value: 1}, {Key: "location_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	return &BoatRepository{col: col}
}

func (r *BoatRepository) ByID(ctx context.Context, id domainboats.BoatID) (*domainboats.Boat, error) {
	var doc boatDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainboats.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BoatRepository) Save(ctx context.Context, boat *domainboats.Boat) error {
	doc := newBoatDocument(boat)
	filter := bson.M{"_id": doc.ID, "version": boat.Version}
	doc.Version = boat.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainboats.ErrNameTaken
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	boat.Version = doc.Version
	return nil
}

func (r *BoatRepository) Search(ctx context.Context, params domainboats.SearchParams) (domainboats.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.Type != "" {
		filter["type"] = opts.Type
	}
	if opts.Location != "" {
		filter["location_key"] = locationKey(opts.Location)
	}
	if opts.MinCapacity > 0 {
		filter["capacity"] = bson.M{"$gte": opts.MinCapacity}
	}
	price := bson.M{}
	if opts.PriceMinCents > 0 {
		price["$gte"] = opts.PriceMinCents
	}
	if opts.PriceMaxCents > 0 {
		price["$lte"] = opts.PriceMaxCents
	}
	if len(price) > 0 {
		filter["daily_rate_cents"] = price
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainboats.SearchResult{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "daily_rate_cents", Value: 1}, {Key: "rating", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainboats.SearchResult{}, err
	}
	defer cur.Close(ctx)

	result := domainboats.SearchResult{Total: int(total)}
	for cur.Next(ctx) {
		var doc boatDocument
		if err := cur.Decode(&doc); err != nil {
			return domainboats.SearchResult{}, err
		}
		result.Items = append(result.Items, doc.toAggregate())
	}
	return result, cur.Err()
}

func (r *BoatRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainboats.Boat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainboats.Boat
	for cur.Next(ctx) {
		var doc boatDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *BoatRepository) IDsByOwner(ctx context.Context, ownerID string) ([]domainboats.BoatID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []domainboats.BoatID
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, domainboats.BoatID(doc.ID))
	}
	return ids, cur.Err()
}

func (r *BoatRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type boatDocument struct {
	ID             string  `bson:"_id"`
	OwnerID        string  `bson:"owner_id"`
	Name           string  `bson:"name"`
	NameKey        string  `bson:"name_key"`
	Type           string  `bson:"type"`
	LengthMeters   float64 `bson:"length_meters"`
	Capacity       int     `bson:"capacity"`
	DailyRateCents int64   `bson:"daily_rate_cents"`
	Currency       string  `bson:"currency"`
	PhotoURL       string  `bson:"photo_url,omitempty"`
	Location       string  `bson:"location"`
	LocationKey    string  `bson:"location_key"`
	Rating         float64 `bson:"rating"`
	CreatedAt      int64   `bson:"created_at"`
	UpdatedAt      int64   `bson:"updated_at"`
	Version        int64   `bson:"version"`
}

func newBoatDocument(b *domainboats.Boat) boatDocument {
	return boatDocument{
		ID:             string(b.ID),
		OwnerID:        b.OwnerID,
		Name:           b.Name,
		NameKey:        locationKey(b.Name),
		Type:           string(b.Type),
		LengthMeters:   b.LengthMeters,
		Capacity:       b.Capacity,
		DailyRateCents: b.DailyRate.Amount,
		Currency:       b.DailyRate.Currency,
		PhotoURL:       b.PhotoURL,
		Location:       b.Location,
		LocationKey:    locationKey(b.Location),
		Rating:         b.Rating,
		CreatedAt:      b.CreatedAt.UnixMilli(),
		UpdatedAt:      b.UpdatedAt.UnixMilli(),
		Version:        b.Version,
	}
}

func (d boatDocument) toAggregate() *domainboats.Boat {
	return &domainboats.Boat{
		ID:           domainboats.BoatID(d.ID),
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		Type:         domainboats.BoatType(d.Type),
		LengthMeters: d.LengthMeters,
		Capacity:     d.Capacity,
		DailyRate:    money.Money{Amount: d.DailyRateCents, Currency: d.Currency},
		PhotoURL:     d.PhotoURL,
		Location:     d.Location,
		Rating:       d.Rating,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
}

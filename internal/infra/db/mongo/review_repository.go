package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainreviews "seaberth/internal/domain/reviews"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("agg_review")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "boat_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "boat_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &ReviewRepository{col: col}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ByAuthorAndBoat(ctx context.Context, authorID string, boatID domainboats.BoatID) (*domainreviews.Review, error) {
	var doc reviewDocument
	err := r.col.FindOne(ctx, bson.M{"author_id": authorID, "boat_id": string(boatID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByBoat(ctx context.Context, params domainreviews.ListParams) (domainreviews.ListResult, error) {
	opts := params.Normalized()
	filter := bson.M{"boat_id": string(opts.BoatID)}
	if opts.Rating > 0 {
		filter["rating"] = opts.Rating
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainreviews.ListResult{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainreviews.ListResult{}, err
	}
	defer cur.Close(ctx)

	result := domainreviews.ListResult{Total: int(total)}
	for cur.Next(ctx) {
		var doc reviewDocument
		if err := cur.Decode(&doc); err != nil {
			return domainreviews.ListResult{}, err
		}
		result.Items = append(result.Items, doc.toAggregate())
	}
	return result, cur.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := newReviewDocument(review)
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreviews.ErrDuplicate
		}
		return err
	}
	return nil
}

// IncrementHelpful bumps the counter with $inc, so concurrent votes all land.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc reviewDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": string(id)}, bson.M{"$inc": bson.M{"helpful": 1}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// AverageRating aggregates the mean rating server-side and rounds it to one
// decimal place.
func (r *ReviewRepository) AverageRating(ctx context.Context, boatID domainboats.BoatID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"boat_id": string(boatID)}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, cur.Err()
	}
	var out struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.Decode(&out); err != nil {
		return 0, err
	}
	return domainreviews.Round1(out.Avg), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreviews.ReviewID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreviews.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) DeleteByAuthorOrBoats(ctx context.Context, authorID string, boatIDs []domainboats.BoatID) (int64, error) {
	ids := make([]string, 0, len(boatIDs))
	for _, id := range boatIDs {
		ids = append(ids, string(id))
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"author_id": authorID},
		bson.M{"boat_id": bson.M{"$in": ids}},
	}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	AuthorID  string `bson:"author_id"`
	BoatID    string `bson:"boat_id"`
	BookingID string `bson:"booking_id,omitempty"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment"`
	Helpful   int64  `bson:"helpful"`
	CreatedAt int64  `bson:"created_at"`
}

func newReviewDocument(r *domainreviews.Review) reviewDocument {
	return reviewDocument{
		ID:        string(r.ID),
		AuthorID:  r.AuthorID,
		BoatID:    string(r.BoatID),
		BookingID: string(r.BookingID),
		Rating:    r.Rating,
		Comment:   r.Comment,
		Helpful:   r.Helpful,
		CreatedAt: r.CreatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		AuthorID:  d.AuthorID,
		BoatID:    domainboats.BoatID(d.BoatID),
		BookingID: domainbooking.BookingID(d.BookingID),
		Rating:    d.Rating,
		Comment:   d.Comment,
		Helpful:   d.Helpful,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

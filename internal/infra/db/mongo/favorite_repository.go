package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainboats "seaberth/internal/domain/boats"
	domainfavorites "seaberth/internal/domain/favorites"
)

type FavoriteRepository struct {
	col *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	col := db.Collection("agg_favorite")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "boat_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &FavoriteRepository{col: col}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *domainfavorites.Favorite) error {
	doc := favoriteDocument{
		ID:        string(fav.ID),
		UserID:    fav.UserID,
		BoatID:    string(fav.BoatID),
		CreatedAt: fav.CreatedAt.UnixMilli(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainfavorites.ErrAlreadyFavorite
		}
		return err
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID string, boatID domainboats.BoatID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "boat_id": string(boatID)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainfavorites.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domainfavorites.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainfavorites.Favorite
	for cur.Next(ctx) {
		var doc favoriteDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domainfavorites.Favorite{
			ID:        domainfavorites.FavoriteID(doc.ID),
			UserID:    doc.UserID,
			BoatID:    domainboats.BoatID(doc.BoatID),
			CreatedAt: timestampToTime(doc.CreatedAt),
		})
	}
	return out, cur.Err()
}

func (r *FavoriteRepository) DeleteByUserOrBoats(ctx context.Context, userID string, boatIDs []domainboats.BoatID) (int64, error) {
	ids := make([]string, 0, len(boatIDs))
	for _, id := range boatIDs {
		ids = append(ids, string(id))
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"user_id": userID},
		bson.M{"boat_id": bson.M{"$in": ids}},
	}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type favoriteDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	BoatID    string `bson:"boat_id"`
	CreatedAt int64  `bson:"created_at"`
}

package mongo

import (
	"context"
	"errors"
	"time"

	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository using
// MongoDB. The profile document's _id is the owning user's id, so reads
// and writes are plain point operations.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Get retrieves the profile for the given user.
func (r *mongoProfileRepository) Get(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error) {
	var profile domain.PlayerProfile
	filter := bson.M{"_id": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the full profile document, creating it if needed. This is
// the only write path for onboarding completion and weekly review, so a
// review that fails earlier never leaves a half-written document behind.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.PlayerProfile) error {
	if profile.UserID.IsZero() {
		return errors.New("profile user id is required")
	}
	profile.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": profile.UserID}
	update := bson.M{"$set": profile}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// UpdateSessions replaces only the current week's session list.
func (r *mongoProfileRepository) UpdateSessions(ctx context.Context, userID primitive.ObjectID, sessions []domain.TrainingSession) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$set": bson.M{
			"currentSessions": sessions,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes creates necessary indexes for the profiles collection.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

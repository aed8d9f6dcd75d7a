package repository

import (
	"context"

	"nextlevel/academy-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with player accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository is the durable owner of player profiles: one document
// per user, keyed by the user's id. Get returns ErrNotFound for new users;
// callers must treat that (and any other read failure) as "no profile yet",
// never as fatal.
type ProfileRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.PlayerProfile, error)
	Upsert(ctx context.Context, profile *domain.PlayerProfile) error
	// UpdateSessions replaces only the current week's session list, for
	// completion toggles that should not rewrite the whole document.
	UpdateSessions(ctx context.Context, userID primitive.ObjectID, sessions []domain.TrainingSession) error
}

// UploadRepository defines the interface for assessment clip metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
	Confirm(ctx context.Context, id primitive.ObjectID, size int64) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Upload, error)
}

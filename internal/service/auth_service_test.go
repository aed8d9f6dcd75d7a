package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return primitive.NilObjectID, errors.New("user with this email already exists")
	}
	user.ID = primitive.NewObjectID()
	stored := *user
	r.byEmail[user.Email] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

const testSecret = "test-secret"

func newAuthService(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewAuthService(repo, testSecret, time.Hour), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Minh", "minh@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked from Register")
	}

	token, loggedIn, err := svc.Login(ctx, "minh@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn.Email != "minh@example.com" || loggedIn.PasswordHash != "" {
		t.Errorf("login user = %+v", loggedIn)
	}

	// The token must carry the user id and verify with the secret.
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not parse: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("uid claim = %q, want %q", claims.UserID, user.ID.Hex())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Minh", "minh@example.com", "secret123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, "Other", "minh@example.com", "different"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Minh", "minh@example.com", "secret123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, user, err := svc.Login(ctx, "minh@example.com", "wrong")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("error = %v, want ErrAuthenticationFailed", err)
	}
	if user != nil {
		t.Error("user returned on failed login")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("error = %v, want ErrAuthenticationFailed", err)
	}
}

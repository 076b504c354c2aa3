package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/wishlist-backend/pkg/auth"
	"github.com/angelmondragon/wishlist-backend/pkg/config"
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/angelmondragon/wishlist-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "wishlist",
	ExpirationMinutes: 30,
}

func testHasher() *security.Hasher {
	return security.NewHasher(config.PasswordConfig{
		MinLength:        8,
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestServiceLoginIssuesTokenBoundToSession(t *testing.T) {
	user := newTestUser(t, "reader@example.com", "correct-horse")
	users := &stubUsers{users: []*models.User{user}}
	sessions := newStubSessions()
	svc := buildTestService(t, users, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  Reader@Example.com ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, claims.UserID)
	}
	if _, ok := sessions.live[claims.ID]; !ok {
		t.Fatalf("expected session %s to be stored", claims.ID)
	}
	if users.lastLogin[user.ID].IsZero() {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	active := newTestUser(t, "active@example.com", "correct-horse")
	inactive := newTestUser(t, "inactive@example.com", "correct-horse")
	inactive.IsActive = false
	users := &stubUsers{users: []*models.User{active, inactive}}
	sessions := newStubSessions()
	svc := buildTestService(t, users, sessions)

	cases := []LoginRequest{
		{Email: "active@example.com", Password: "wrong-password"},
		{Email: "missing@example.com", Password: "correct-horse"},
		{Email: "inactive@example.com", Password: "correct-horse"},
		{Email: "", Password: "correct-horse"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("%q: expected validation error, got %v", req.Email, err)
		}
	}
	if len(sessions.live) != 0 {
		t.Fatalf("expected no sessions, got %d", len(sessions.live))
	}
}

func TestServiceLoginSessionFailure(t *testing.T) {
	user := newTestUser(t, "reader@example.com", "correct-horse")
	sessions := newStubSessions()
	sessions.startErr = errors.New("redis down")
	svc := buildTestService(t, &stubUsers{users: []*models.User{user}}, sessions)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct-horse"})
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	sessions := newStubSessions()
	sessions.live["abc"] = uuid.New()
	svc := buildTestService(t, &stubUsers{}, sessions)

	if err := svc.Logout(context.Background(), "abc"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.live["abc"]; ok {
		t.Fatalf("expected session to be revoked")
	}
	if err := svc.Logout(context.Background(), " "); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for blank access id, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected error without dependencies")
	}
}

func buildTestService(t *testing.T, users *stubUsers, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       users,
		Hasher:         testHasher(),
		SessionManager: sessions,
		JWTConfig:      testJWT,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func newTestUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Reader",
		IsActive:     true,
	}
}

type stubUsers struct {
	users     []*models.User
	lastLogin map[uuid.UUID]time.Time
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if s.lastLogin == nil {
		s.lastLogin = map[uuid.UUID]time.Time{}
	}
	s.lastLogin[id] = at
	return nil
}

type stubSessions struct {
	live     map[string]uuid.UUID
	startErr error
	checkErr error
}

func newStubSessions() *stubSessions {
	return &stubSessions{live: map[string]uuid.UUID{}}
}

func (s *stubSessions) Start(_ context.Context, userID uuid.UUID) (string, error) {
	if s.startErr != nil {
		return "", s.startErr
	}
	id := uuid.NewString()
	s.live[id] = userID
	return id, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.live, accessID)
	return nil
}

func (s *stubSessions) HasSession(_ context.Context, accessID string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	_, ok := s.live[accessID]
	return ok, nil
}

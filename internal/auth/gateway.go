package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgAuth "github.com/angelmondragon/wishlist-backend/pkg/auth"
	"github.com/angelmondragon/wishlist-backend/pkg/config"
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type identityLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Gateway turns a bearer token into an Identity.
type Gateway struct {
	users    identityLookup
	sessions sessionChecker
	jwtCfg   config.JWTConfig
}

// NewGateway wires the token verifier.
func NewGateway(users identityLookup, sessions sessionChecker, cfg config.JWTConfig) (*Gateway, error) {
	if users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session checker is required")
	}
	return &Gateway{users: users, sessions: sessions, jwtCfg: cfg}, nil
}

// Authenticate verifies the token signature, its live session and the owning account.
func (g *Gateway) Authenticate(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication credentials were not provided")
	}
	claims, err := pkgAuth.ParseAccessToken(g.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	ok, err := g.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	user, err := g.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user inactive")
	}
	return identityFromUser(user, claims.ID), nil
}

// IsAdmin reports whether the identity holds the staff or superuser role.
func (g *Gateway) IsAdmin(id *Identity) bool {
	return id != nil && id.IsAdmin()
}

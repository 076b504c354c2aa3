package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/wishlist-backend/internal/auth"
	"github.com/angelmondragon/wishlist-backend/pkg/db"
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/angelmondragon/wishlist-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages user accounts.
type Service interface {
	Register(ctx context.Context, input CreateUserInput) (*ProfileDTO, error)
	CreateSuperuser(ctx context.Context, input CreateUserInput) (*ProfileDTO, error)
	Me(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	Remove(ctx context.Context, caller auth.Identity, target *uuid.UUID) (removedSelf bool, err error)
	List(ctx context.Context, caller auth.Identity) ([]UserDTO, error)
}

// ServiceParams bundles the user service dependencies.
type ServiceParams struct {
	Repo   *Repository
	Tx     db.TxRunner
	Hasher *security.Hasher
}

type service struct {
	repo   *Repository
	tx     db.TxRunner
	hasher *security.Hasher
}

// NewService builds the user service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, hasher: params.Hasher}, nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, input CreateUserInput) (*ProfileDTO, error) {
	return s.create(ctx, input, false)
}

func (s *service) CreateSuperuser(ctx context.Context, input CreateUserInput) (*ProfileDTO, error) {
	return s.create(ctx, input, true)
}

func (s *service) create(ctx context.Context, input CreateUserInput, superuser bool) (*ProfileDTO, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return NewProfileDTO(user), nil
}

func (s *service) hashPassword(password string) (string, error) {
	if err := s.hasher.Check(password); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", s.hasher.MinLength()))
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewProfileDTO(user), nil
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		fields["name"] = name
	}
	if input.Password != nil {
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return s.Me(ctx, userID)
}

// Remove deletes the caller, or target when the caller is an admin. Wishlist entries of
// the removed account go in the same transaction.
func (s *service) Remove(ctx context.Context, caller auth.Identity, target *uuid.UUID) (bool, error) {
	victim := caller.UserID
	if target != nil && *target != uuid.Nil && *target != caller.UserID {
		if !caller.IsAdmin() {
			return false, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can remove other users")
		}
		victim = *target
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.DeleteWishlistItems(ctx, victim); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist items")
		}
		deleted, err := repo.Delete(ctx, victim)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return victim == caller.UserID, nil
}

func (s *service) List(ctx context.Context, caller auth.Identity) ([]UserDTO, error) {
	if !caller.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

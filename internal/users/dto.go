package users

import (
	"time"

	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ProfileDTO is what a user sees about their own account.
type ProfileDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDTO is the admin listing shape. Credentials are never included.
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserInput holds the registration payload after boundary validation.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfileInput carries optional profile changes.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// NewProfileDTO maps a user to its profile view.
func NewProfileDTO(u *models.User) *ProfileDTO {
	if u == nil {
		return nil
	}
	return &ProfileDTO{Name: u.Name, Email: u.Email}
}

// FromModel maps a user to the admin listing shape.
func FromModel(u *models.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
	}
}

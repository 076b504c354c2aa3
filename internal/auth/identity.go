package auth

import (
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Identity is the authenticated principal behind a request.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	IsStaff     bool
	IsSuperuser bool
	AccessID    string
}

// IsAdmin reports whether the identity may manage other accounts.
func (i Identity) IsAdmin() bool {
	return i.IsStaff || i.IsSuperuser
}

func identityFromUser(u *models.User, accessID string) *Identity {
	return &Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		AccessID:    accessID,
	}
}

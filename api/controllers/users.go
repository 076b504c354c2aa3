package controllers

import (
	"net/http"

	"github.com/angelmondragon/wishlist-backend/api/middleware"
	"github.com/angelmondragon/wishlist-backend/api/responses"
	"github.com/angelmondragon/wishlist-backend/api/validators"
	"github.com/angelmondragon/wishlist-backend/internal/auth"
	"github.com/angelmondragon/wishlist-backend/internal/users"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/angelmondragon/wishlist-backend/pkg/logger"
	"github.com/google/uuid"
)

const maxNameLength = 255

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=255"`
}

func (r createUserRequest) toInput() users.CreateUserInput {
	return users.CreateUserInput{
		Email:    r.Email,
		Password: r.Password,
		Name:     validators.SanitizeString(r.Name, maxNameLength),
	}
}

type updateMeRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Password *string `json:"password,omitempty"`
}

type removeUserRequest struct {
	UserID *string `json:"user_id,omitempty"`
}

// CreateUser registers a regular account.
func CreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return createAccount(svc, logg, false)
}

// CreateSuperuser registers a staff and superuser account. Routed behind RequireAdmin.
func CreateSuperuser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return createAccount(svc, logg, true)
}

func createAccount(svc users.Service, logg *logger.Logger, superuser bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		create := svc.Register
		if superuser {
			create = svc.CreateSuperuser
		}
		profile, err := create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// Token exchanges credentials for a bearer token.
func Token(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Logout revokes the session behind the presented token.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Logout(r.Context(), id.AccessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// Me returns the caller's profile.
func Me(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r, logg)
		if !ok {
			return
		}
		profile, err := svc.Me(r.Context(), id.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UpdateMe applies a partial profile update.
func UpdateMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r, logg)
		if !ok {
			return
		}

		var body updateMeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateMe(r.Context(), id.UserID, users.UpdateProfileInput{
			Name:     body.Name,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// RemoveUser deletes the caller, or the given user_id when the caller is an admin.
// Deleting oneself also revokes the current session.
func RemoveUser(svc users.Service, sessions auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r, logg)
		if !ok {
			return
		}

		var body removeUserRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		var target *uuid.UUID
		if body.UserID != nil {
			parsed, err := validators.ParseUUID(*body.UserID, "user_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			target = &parsed
		}

		removedSelf, err := svc.Remove(r.Context(), *id, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if removedSelf && sessions != nil {
			if err := sessions.Logout(r.Context(), id.AccessID); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "users.remove.session_revoke_failed")
			}
		}
		responses.WriteNoContent(w)
	}
}

// ListUsers returns every account. Admin only.
func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r, logg)
		if !ok {
			return
		}
		out, err := svc.List(r.Context(), *id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func identity(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*auth.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication credentials were not provided"))
		return nil, false
	}
	return id, true
}

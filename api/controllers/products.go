package controllers

import (
	"net/http"

	"github.com/angelmondragon/wishlist-backend/api/responses"
	"github.com/angelmondragon/wishlist-backend/api/validators"
	product "github.com/angelmondragon/wishlist-backend/internal/products"
	"github.com/angelmondragon/wishlist-backend/pkg/logger"
)

type createProductRequest struct {
	ID          string   `json:"id" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Image       string   `json:"image" validate:"required,max=255"`
	Brand       string   `json:"brand" validate:"required,max=255"`
	Title       string   `json:"title" validate:"required,max=255"`
	ReviewScore *float64 `json:"review_score,omitempty"`
}

// CreateProduct seeds a product under a caller-supplied catalog id.
func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUID(body.ID, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.CreateProduct(r.Context(), product.CreateProductInput{
			ID:          id,
			Price:       body.Price,
			Image:       validators.SanitizeString(body.Image, 255),
			Brand:       validators.SanitizeString(body.Brand, 255),
			Title:       validators.SanitizeString(body.Title, 255),
			ReviewScore: body.ReviewScore,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// GetProduct returns a locally stored product.
func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// DeleteProduct removes a product together with every wishlist entry pointing at it.
func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

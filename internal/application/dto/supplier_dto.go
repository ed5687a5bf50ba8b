package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// CreateSupplierRequest alta ad hoc de un proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// SupplierRatingDTO calificación histórica de un proveedor.
type SupplierRatingDTO struct {
	POID           string    `json:"po_id"`
	DeliveryRating int       `json:"delivery_rating"`
	QualityRating  int       `json:"quality_rating"`
	PriceRating    int       `json:"price_rating"`
	Notes          string    `json:"notes,omitempty"`
	RatedBy        string    `json:"rated_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// SupplierResponse proveedor con su calificación agregada.
type SupplierResponse struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Contact string              `json:"contact,omitempty"`
	Email   string              `json:"email,omitempty"`
	Rating  decimal.Decimal     `json:"rating"`
	Ratings []SupplierRatingDTO `json:"ratings,omitempty"`
}

// ToSupplierResponse arma el DTO desde la entidad y sus calificaciones.
func ToSupplierResponse(s *entity.Supplier, ratings []*entity.SupplierRating) *SupplierResponse {
	rs := make([]SupplierRatingDTO, 0, len(ratings))
	for _, r := range ratings {
		rs = append(rs, SupplierRatingDTO{
			POID:           r.POID,
			DeliveryRating: r.DeliveryRating,
			QualityRating:  r.QualityRating,
			PriceRating:    r.PriceRating,
			Notes:          r.Notes,
			RatedBy:        r.RatedBy,
			CreatedAt:      r.CreatedAt,
		})
	}
	return &SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Contact: s.Contact,
		Email:   s.Email,
		Rating:  s.Rating,
		Ratings: rs,
	}
}

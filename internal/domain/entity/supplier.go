package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier proveedor. Rating es derivado: promedio de los promedios
// tridimensionales de cada calificación histórica, redondeado a 1 decimal.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	Email     string
	Rating    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierRating calificación de un proveedor ligada a una OC.
// Invariante: a lo sumo una calificación por orden de compra.
type SupplierRating struct {
	ID             string
	SupplierID     string
	POID           string
	DeliveryRating int // 1–5
	QualityRating  int // 1–5
	PriceRating    int // 1–5
	Notes          string
	RatedBy        string
	CreatedAt      time.Time
}

// Mean promedio de las tres dimensiones de esta calificación.
func (r SupplierRating) Mean() decimal.Decimal {
	sum := r.DeliveryRating + r.QualityRating + r.PriceRating
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(3))
}

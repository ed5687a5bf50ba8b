package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre
// PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(s *entity.Supplier) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO suppliers (id, name, contact, email, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Contact, s.Email, s.Rating, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.getOne(`SELECT id, name, contact, email, rating, created_at, updated_at FROM suppliers WHERE id = $1`, id)
}

// GetByName busca por nombre exacto sin distinguir mayúsculas.
func (r *SupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	return r.getOne(`SELECT id, name, contact, email, rating, created_at, updated_at FROM suppliers WHERE lower(name) = lower($1)`, name)
}

func (r *SupplierRepo) getOne(query, arg string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&s.ID, &s.Name, &s.Contact, &s.Email, &s.Rating, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) UpdateRating(id string, rating decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE suppliers SET rating = $2, updated_at = now() WHERE id = $1`,
		id, rating,
	)
	if err != nil {
		return fmt.Errorf("update supplier rating: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, name, contact, email, rating, created_at, updated_at
		FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var sups []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Rating, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		sups = append(sups, &s)
	}
	return sups, rows.Err()
}

func (r *SupplierRepo) CreateRating(rt *entity.SupplierRating) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO supplier_ratings (id, supplier_id, po_id, delivery_rating, quality_rating, price_rating, notes, rated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rt.ID, rt.SupplierID, rt.POID, rt.DeliveryRating, rt.QualityRating, rt.PriceRating,
		rt.Notes, rt.RatedBy, rt.CreatedAt,
	)
	if err != nil {
		// po_id tiene constraint UNIQUE: una calificación por OC.
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRated
		}
		return fmt.Errorf("insert supplier rating: %w", err)
	}
	return nil
}

// GetRatingByPO devuelve nil si la OC no tiene calificación.
func (r *SupplierRepo) GetRatingByPO(poID string) (*entity.SupplierRating, error) {
	var rt entity.SupplierRating
	err := r.q.QueryRow(context.Background(), `
		SELECT id, supplier_id, po_id, delivery_rating, quality_rating, price_rating, notes, rated_by, created_at
		FROM supplier_ratings WHERE po_id = $1`,
		poID,
	).Scan(&rt.ID, &rt.SupplierID, &rt.POID, &rt.DeliveryRating, &rt.QualityRating, &rt.PriceRating, &rt.Notes, &rt.RatedBy, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating by po: %w", err)
	}
	return &rt, nil
}

func (r *SupplierRepo) ListRatingsBySupplier(supplierID string) ([]*entity.SupplierRating, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, supplier_id, po_id, delivery_rating, quality_rating, price_rating, notes, rated_by, created_at
		FROM supplier_ratings WHERE supplier_id = $1 ORDER BY created_at DESC`,
		supplierID,
	)
	if err != nil {
		return nil, fmt.Errorf("list supplier ratings: %w", err)
	}
	defer rows.Close()

	var rts []*entity.SupplierRating
	for rows.Next() {
		var rt entity.SupplierRating
		if err := rows.Scan(&rt.ID, &rt.SupplierID, &rt.POID, &rt.DeliveryRating, &rt.QualityRating, &rt.PriceRating, &rt.Notes, &rt.RatedBy, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier rating: %w", err)
		}
		rts = append(rts, &rt)
	}
	return rts, rows.Err()
}

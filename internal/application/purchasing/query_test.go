package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/application/apptest"
	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

// seedPOsForQuery inserta tres OCs de dos owners distintos con el mismo
// proveedor: dos en draft y una approved asignada al manager.
func seedPOsForQuery(s *apptest.MemStore) {
	now := time.Now()
	s.Suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", Name: "Maderas del Norte"}
	seed := []struct {
		id       string
		owner    string
		assigned string
		status   entity.POStatus
	}{
		{"po-1", testOwnerID, "", entity.POStatusDraft},
		{"po-2", testOwnerID, testManagerID, entity.POStatusApproved},
		{"po-3", "u-otro-owner", "", entity.POStatusDraft},
	}
	for _, p := range seed {
		s.POs[p.id] = &entity.PurchaseOrder{
			ID:         p.id,
			PONumber:   "PO-" + p.id,
			SupplierID: "sup-1",
			OwnerID:    p.owner,
			AssignedTo: p.assigned,
			Status:     p.status,
			CreatedAt:  now,
			UpdatedAt:  now,
			Items: []entity.POItem{{
				ID:        "line-" + p.id,
				POID:      p.id,
				ItemID:    "it-1",
				ItemName:  "Tablero MDF",
				Quantity:  2,
				UnitPrice: decimal.NewFromInt(30),
			}},
		}
	}
}

func TestQueryPO_ListFiltraPorEstado(t *testing.T) {
	s := apptest.NewMemStore()
	seedPOsForQuery(s)
	uc := purchasing.NewQueryPOUseCase(s.PORepo(), s.SupRepo())

	// El filtro de estado aplica sobre la visibilidad del owner: de sus dos
	// OCs solo la approved pasa el filtro.
	out, err := uc.List(context.Background(), testOwnerID, entity.RoleOwner, "approved", dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "po-2", out[0].ID)
	assert.Equal(t, "approved", out[0].Status)
	assert.Equal(t, "Maderas del Norte", out[0].SupplierName)
	// Totales de presentación: 2 × 30 = 60 de subtotal.
	assert.Equal(t, "60", out[0].Subtotal.String())
}

func TestQueryPO_ListVisibilidadPorRol(t *testing.T) {
	s := apptest.NewMemStore()
	seedPOsForQuery(s)
	uc := purchasing.NewQueryPOUseCase(s.PORepo(), s.SupRepo())

	// Sin filtro de estado el owner ve solo las suyas.
	out, err := uc.List(context.Background(), testOwnerID, entity.RoleOwner, "", dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	// El manager ve solo las que tiene asignadas.
	out, err = uc.List(context.Background(), testManagerID, entity.RoleManager, "", dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "po-2", out[0].ID)

	// Compras tiene visibilidad global.
	out, err = uc.List(context.Background(), "u-compras", entity.RolePurchasing, "", dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

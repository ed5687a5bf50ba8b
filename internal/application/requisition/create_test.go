package requisition_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/application/apptest"
	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

func TestCreate_ItemNuevoSeCreaConStockCero(t *testing.T) {
	s := apptest.NewMemStore()
	uc := requisition.NewCreateUseCase(s.Tx())

	r, err := uc.Create(context.Background(), dto.CreateRequisitionRequest{
		ItemName:     "Cola blanca 1kg",
		Quantity:     6,
		UnitPrice:    3.20,
		Department:   "Ensamble",
		SupplierName: "Químicos del Sur",
	}, testRequesterID, "Solicitante")
	require.NoError(t, err)

	assert.Equal(t, entity.ReqStatusPendingApproval, r.Status)
	assert.Equal(t, testRequesterID, r.RequestedBy)
	assert.Equal(t, "Ensamble", r.Department)
	assert.False(t, r.Auto)

	// El ítem desconocido nace en inventario con stock cero.
	item, err := s.InvRepo().GetByName("Cola blanca 1kg")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(0), item.Quantity)
	assert.Equal(t, item.ID, r.ItemID)

	// Proveedor preferido creado sobre la marcha.
	sup, err := s.SupRepo().GetByName("Químicos del Sur")
	require.NoError(t, err)
	require.NotNil(t, sup)
	assert.Equal(t, sup.ID, r.SupplierID)

	hist := s.History[r.ID]
	require.Len(t, hist, 1)
	assert.Contains(t, hist[0].Note, "Ensamble")
}

func TestCreate_PrecioCeroTomaElDelItem(t *testing.T) {
	s := apptest.NewMemStore()
	s.Items["it-7"] = &entity.InventoryItem{
		ID:        "it-7",
		Name:      "Tarugo 8mm",
		Quantity:  50,
		UnitPrice: decimal.NewFromFloat(0.10),
	}
	uc := requisition.NewCreateUseCase(s.Tx())

	r, err := uc.Create(context.Background(), dto.CreateRequisitionRequest{
		ItemID:     "it-7",
		ItemName:   "Tarugo 8mm",
		Quantity:   100,
		Department: "Ensamble",
	}, testRequesterID, "Solicitante")
	require.NoError(t, err)

	assert.Equal(t, "0.1", r.UnitPrice.String(), "sin precio explícito se hereda el del ítem")
	assert.Equal(t, "Tarugo 8mm", r.ItemName)
}

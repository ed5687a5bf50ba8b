package purchasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/application/apptest"
	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

func TestCreatePO_AltaCompleta(t *testing.T) {
	s := apptest.NewMemStore()
	s.Suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", Name: "Maderas del Valle"}
	uc := purchasing.NewCreatePOUseCase(s.Tx(), s.SupRepo(), &apptest.PONumberGen{})

	po, err := uc.Create(context.Background(), testOwnerID, "Don Mochkris", entity.RoleOwner, dto.CreatePORequest{
		SupplierID:           "sup-1",
		ExpectedDeliveryDate: "2026-09-15",
		Notes:                "Pedido para el lote de comedores",
		Items: []dto.CreatePOItemRequest{
			{ItemName: "Tablón de roble", Quantity: 20, UnitPrice: 12.50},
			{ItemName: "Barniz mate", Description: "Galón", Quantity: 4, UnitPrice: 12.50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-TEST-1", po.PONumber)
	assert.Equal(t, entity.POStatusDraft, po.Status)
	assert.Equal(t, testOwnerID, po.OwnerID)
	assert.Empty(t, po.AssignedTo, "un owner no queda auto-asignado")
	require.Len(t, po.Items, 2)

	// Subtotal: 20×12.50 + 4×12.50 = 300.
	assert.Equal(t, "300", po.Subtotal().String())

	// Los ítems desconocidos se crean en inventario con valores por defecto.
	item, err := s.InvRepo().GetByName("Tablón de roble")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(0), item.Quantity)
	assert.Equal(t, int64(entity.DefaultRestockThreshold), item.RestockThreshold)

	hist := s.History[po.ID]
	require.Len(t, hist, 1)
	assert.Equal(t, "draft", hist[0].Status)
}

func TestCreatePO_ManagerCreadorQuedaAsignado(t *testing.T) {
	s := apptest.NewMemStore()
	s.Suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", Name: "Maderas del Valle"}
	uc := purchasing.NewCreatePOUseCase(s.Tx(), s.SupRepo(), &apptest.PONumberGen{})

	po, err := uc.Create(context.Background(), testManagerID, "Gerente", entity.RoleManager, dto.CreatePORequest{
		SupplierID:           "sup-1",
		ExpectedDeliveryDate: "2026-09-15",
		Items:                []dto.CreatePOItemRequest{{ItemName: "Bisagra", Quantity: 100, UnitPrice: 0.80}},
	})
	require.NoError(t, err)
	assert.Equal(t, testManagerID, po.AssignedTo)
}

func TestCreatePO_ProveedorInexistente(t *testing.T) {
	s := apptest.NewMemStore()
	uc := purchasing.NewCreatePOUseCase(s.Tx(), s.SupRepo(), &apptest.PONumberGen{})

	_, err := uc.Create(context.Background(), testOwnerID, "Don Mochkris", entity.RoleOwner, dto.CreatePORequest{
		SupplierID:           "sup-fantasma",
		ExpectedDeliveryDate: "2026-09-15",
		Items:                []dto.CreatePOItemRequest{{ItemName: "Bisagra", Quantity: 1, UnitPrice: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreatePO_FechaInvalida(t *testing.T) {
	s := apptest.NewMemStore()
	s.Suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", Name: "Maderas del Valle"}
	uc := purchasing.NewCreatePOUseCase(s.Tx(), s.SupRepo(), &apptest.PONumberGen{})

	_, err := uc.Create(context.Background(), testOwnerID, "Don Mochkris", entity.RoleOwner, dto.CreatePORequest{
		SupplierID:           "sup-1",
		ExpectedDeliveryDate: "15/09/2026",
		Items:                []dto.CreatePOItemRequest{{ItemName: "Bisagra", Quantity: 1, UnitPrice: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "expected_delivery_date", ve.Fields[0].Field)
}

func TestCreatePO_SinLineasFalla(t *testing.T) {
	s := apptest.NewMemStore()
	s.Suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", Name: "Maderas del Valle"}
	uc := purchasing.NewCreatePOUseCase(s.Tx(), s.SupRepo(), &apptest.PONumberGen{})

	_, err := uc.Create(context.Background(), testOwnerID, "Don Mochkris", entity.RoleOwner, dto.CreatePORequest{
		SupplierID:           "sup-1",
		ExpectedDeliveryDate: "2026-09-15",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

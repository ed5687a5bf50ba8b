package requisition_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/application/apptest"
	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

const testPurchasingID = "u-purchasing"

func seedForwardedReq(s *apptest.MemStore) *entity.Requisition {
	r := seedApprovedReq(s, 5, 2)
	r.Status = entity.ReqStatusForwarded
	return r
}

func TestGeneratePO_DesdeRequisicionReenviada(t *testing.T) {
	s := apptest.NewMemStore()
	seedForwardedReq(s)
	uc := requisition.NewGeneratePOUseCase(s.Tx(), &apptest.PONumberGen{})

	po, err := uc.Generate(context.Background(), "req-1",
		dto.GeneratePORequest{SupplierName: "Abrasivos Industriales"},
		testPurchasingID, "Compras", entity.RolePurchasing)
	require.NoError(t, err)

	// La OC nace en borrador con una sola línea tomada del snapshot de la RF.
	assert.Equal(t, "PO-TEST-1", po.PONumber)
	assert.Equal(t, entity.POStatusDraft, po.Status)
	assert.Equal(t, testPurchasingID, po.OwnerID)
	assert.Equal(t, "req-1", po.RequisitionID)
	require.Len(t, po.Items, 1)
	assert.Equal(t, "Lija grano 120", po.Items[0].ItemName)
	assert.Equal(t, int64(5), po.Items[0].Quantity)
	assert.Equal(t, "0.75", po.Items[0].UnitPrice.String())

	// El proveedor desconocido se crea sobre la marcha.
	sup, err := s.SupRepo().GetByName("Abrasivos Industriales")
	require.NoError(t, err)
	require.NotNil(t, sup)
	assert.Equal(t, sup.ID, po.SupplierID)

	// Ambos lados quedan ligados y con historial.
	r := s.Reqs["req-1"]
	assert.Equal(t, entity.ReqStatusPOGenerated, r.Status)
	assert.Equal(t, po.ID, r.POID)
	require.Len(t, s.History[po.ID], 1)
	require.Len(t, s.History["req-1"], 1)
	assert.Contains(t, s.History["req-1"][0].Note, po.PONumber)
}

func TestGeneratePO_ReutilizaProveedorExistente(t *testing.T) {
	s := apptest.NewMemStore()
	seedForwardedReq(s)
	s.Suppliers["sup-9"] = &entity.Supplier{ID: "sup-9", Name: "Abrasivos Industriales"}
	uc := requisition.NewGeneratePOUseCase(s.Tx(), &apptest.PONumberGen{})

	po, err := uc.Generate(context.Background(), "req-1",
		dto.GeneratePORequest{SupplierName: "Abrasivos Industriales"},
		testPurchasingID, "Compras", entity.RolePurchasing)
	require.NoError(t, err)
	assert.Equal(t, "sup-9", po.SupplierID)
	assert.Len(t, s.Suppliers, 1)
}

func TestGeneratePO_SoloCompras(t *testing.T) {
	s := apptest.NewMemStore()
	seedForwardedReq(s)
	uc := requisition.NewGeneratePOUseCase(s.Tx(), &apptest.PONumberGen{})

	_, err := uc.Generate(context.Background(), "req-1",
		dto.GeneratePORequest{SupplierName: "Abrasivos Industriales"},
		testCustodianID, "Bodeguero", entity.RoleCustodian)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Empty(t, s.POs)
}

func TestGeneratePO_RequiereEstadoReenviada(t *testing.T) {
	s := apptest.NewMemStore()
	seedApprovedReq(s, 5, 2) // approved, no forwarded
	uc := requisition.NewGeneratePOUseCase(s.Tx(), &apptest.PONumberGen{})

	_, err := uc.Generate(context.Background(), "req-1",
		dto.GeneratePORequest{SupplierName: "Abrasivos Industriales"},
		testPurchasingID, "Compras", entity.RolePurchasing)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

package requisition_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/application/apptest"
	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

// seedPurchasedPO inserta una OC comprada de 10 lijas, ligada a la
// requisición req-1 (ya en po_generated), con stock cero en bodega.
func seedPurchasedPO(s *apptest.MemStore) *entity.PurchaseOrder {
	r := seedApprovedReq(s, 10, 0)
	r.Status = entity.ReqStatusPOGenerated
	r.POID = "po-1"

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:            "po-1",
		PONumber:      "PO-TEST-SEED",
		SupplierID:    "sup-1",
		OwnerID:       testPurchasingID,
		RequisitionID: "req-1",
		Status:        entity.POStatusPurchased,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []entity.POItem{{
			ID:        "line-1",
			POID:      "po-1",
			ItemID:    "it-1",
			ItemName:  "Lija grano 120",
			Quantity:  10,
			UnitPrice: decimal.NewFromFloat(0.75),
		}},
	}
	s.POs[po.ID] = po
	return po
}

func TestReceiveDelivery_EntregaConforme(t *testing.T) {
	s := apptest.NewMemStore()
	seedPurchasedPO(s)
	uc := requisition.NewReceiveDeliveryUseCase(s.Tx())

	po, err := uc.Receive(context.Background(), "po-1", dto.ReceiveDeliveryRequest{},
		testCustodianID, "Bodeguero", entity.RoleCustodian)
	require.NoError(t, err)

	// La OC queda completada con todas las líneas recibidas.
	assert.Equal(t, entity.POStatusCompleted, po.Status)
	assert.Equal(t, int64(10), po.Items[0].ReceivedQty)
	require.NotNil(t, po.ReceivedAt)

	// El material entró a bodega.
	assert.Equal(t, int64(10), s.Items["it-1"].Quantity)

	// Historial: recepción y cierre.
	hist := s.History["po-1"]
	require.Len(t, hist, 2)
	assert.Equal(t, "received", hist[0].Status)
	assert.Equal(t, "completed", hist[1].Status)

	// La requisición de origen también se cierra.
	assert.Equal(t, entity.ReqStatusCompleted, s.Reqs["req-1"].Status)
	reqHist := s.History["req-1"]
	require.Len(t, reqHist, 1)
	assert.Contains(t, reqHist[0].Note, "completada")
}

func TestReceiveDelivery_EntregaDanadaDevuelveAlProveedor(t *testing.T) {
	s := apptest.NewMemStore()
	seedPurchasedPO(s)
	uc := requisition.NewReceiveDeliveryUseCase(s.Tx())

	po, err := uc.Receive(context.Background(), "po-1",
		dto.ReceiveDeliveryRequest{Damaged: true, Notes: "Cajas mojadas en el transporte"},
		testCustodianID, "Bodeguero", entity.RoleCustodian)
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusCancelled, po.Status)
	// Nada entró a bodega.
	assert.Equal(t, int64(0), s.Items["it-1"].Quantity)
	assert.Equal(t, int64(0), s.POs["po-1"].Items[0].ReceivedQty)

	hist := s.History["po-1"]
	require.Len(t, hist, 1)
	assert.Equal(t, "cancelled", hist[0].Status)
	assert.Equal(t, "Cajas mojadas en el transporte", hist[0].Note)

	// La requisición sigue abierta a la espera de una nueva OC.
	assert.Equal(t, entity.ReqStatusPOGenerated, s.Reqs["req-1"].Status)
}

func TestReceiveDelivery_SoloOCCompradas(t *testing.T) {
	s := apptest.NewMemStore()
	po := seedPurchasedPO(s)
	po.Status = entity.POStatusApproved
	uc := requisition.NewReceiveDeliveryUseCase(s.Tx())

	_, err := uc.Receive(context.Background(), "po-1", dto.ReceiveDeliveryRequest{},
		testCustodianID, "Bodeguero", entity.RoleCustodian)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, int64(0), s.Items["it-1"].Quantity)
}

func TestReceiveDelivery_SoloBodega(t *testing.T) {
	s := apptest.NewMemStore()
	seedPurchasedPO(s)
	uc := requisition.NewReceiveDeliveryUseCase(s.Tx())

	_, err := uc.Receive(context.Background(), "po-1", dto.ReceiveDeliveryRequest{},
		testPurchasingID, "Compras", entity.RolePurchasing)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, entity.POStatusPurchased, s.POs["po-1"].Status)
}

func TestReceiveDelivery_OCInexistente(t *testing.T) {
	s := apptest.NewMemStore()
	uc := requisition.NewReceiveDeliveryUseCase(s.Tx())

	_, err := uc.Receive(context.Background(), "po-fantasma", dto.ReceiveDeliveryRequest{},
		testCustodianID, "Bodeguero", entity.RoleCustodian)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

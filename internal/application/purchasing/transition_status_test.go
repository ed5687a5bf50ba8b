package purchasing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/application/apptest"
	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

const (
	testOwnerID   = "u-owner"
	testManagerID = "u-manager"
)

// seedPO inserta una OC con una línea (10 unidades de it-1) y su ítem de
// inventario con stock cero.
func seedPO(s *apptest.MemStore, status entity.POStatus) *entity.PurchaseOrder {
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:           "po-1",
		PONumber:     "PO-TEST-SEED",
		SupplierID:   "sup-1",
		OwnerID:      testOwnerID,
		Status:       status,
		ExpectedDate: now.AddDate(0, 0, 7),
		CreatedAt:    now,
		UpdatedAt:    now,
		Items: []entity.POItem{{
			ID:        "line-1",
			POID:      "po-1",
			ItemID:    "it-1",
			ItemName:  "Tornillo 3/4",
			Quantity:  10,
			UnitPrice: decimal.NewFromInt(2),
		}},
	}
	if status != entity.POStatusDraft {
		po.AssignedTo = testManagerID
	}
	s.POs[po.ID] = po
	s.Items["it-1"] = &entity.InventoryItem{
		ID:               "it-1",
		Name:             "Tornillo 3/4",
		Quantity:         0,
		Unit:             entity.DefaultUnit,
		RestockThreshold: entity.DefaultRestockThreshold,
		RestockQty:       entity.DefaultRestockQty,
		UnitPrice:        decimal.NewFromInt(2),
	}
	return po
}

func TestTransition_AprobarAsignaManager(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusDraft)
	notifier := &apptest.NotifierRecorder{}
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), notifier)

	po, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:       "po-1",
		Target:     entity.POStatusApproved,
		ActorID:    testOwnerID,
		ActorName:  "Don Mochkris",
		ActorRole:  entity.RoleOwner,
		AssignedTo: testManagerID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusApproved, po.Status)
	assert.Equal(t, testManagerID, po.AssignedTo, "la aprobación asigna al manager en la misma transición")
	assert.Equal(t, testOwnerID, po.ApprovedBy)
	require.NotNil(t, po.ApprovedAt)

	// Persistido, con entrada de historial.
	stored := s.POs["po-1"]
	assert.Equal(t, entity.POStatusApproved, stored.Status)
	hist := s.History["po-1"]
	require.Len(t, hist, 1)
	assert.Equal(t, "approved", hist[0].Status)
	assert.Equal(t, "Don Mochkris", hist[0].ActorName)

	// Notificación mejor-esfuerzo tras el commit.
	assert.Equal(t, []string{"approved"}, notifier.Calls)
}

func TestTransition_AprobarSinManagerFalla(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusDraft)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusApproved,
		ActorID:   testOwnerID,
		ActorRole: entity.RoleOwner,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "assigned_to", ve.Fields[0].Field)

	// Nada se mutó.
	assert.Equal(t, entity.POStatusDraft, s.POs["po-1"].Status)
	assert.Empty(t, s.History["po-1"])
}

func TestTransition_AristaIlegal(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusDraft)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	// draft no salta directo a purchased.
	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusPurchased,
		ActorID:   testOwnerID,
		ActorRole: entity.RoleOwner,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestTransition_RolEquivocadoRechazado(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusDraft)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	// Un manager no aprueba OCs, eso es del owner.
	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:       "po-1",
		Target:     entity.POStatusApproved,
		ActorID:    testManagerID,
		ActorRole:  entity.RoleManager,
		AssignedTo: testManagerID,
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestTransition_OwnerAjenoNoOpera(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusDraft)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:       "po-1",
		Target:     entity.POStatusApproved,
		ActorID:    "u-otro-owner",
		ActorRole:  entity.RoleOwner,
		AssignedTo: testManagerID,
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden),
		"un owner solo opera sus propias OCs")
}

func TestTransition_ManagerNoAsignadoNoCompra(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusApproved)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusPurchased,
		ActorID:   "u-otro-manager",
		ActorRole: entity.RoleManager,
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden),
		"solo el manager asignado marca la compra")
}

func TestTransition_MarcarComprada(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusApproved)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	po, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:          "po-1",
		Target:        entity.POStatusPurchased,
		ActorID:       testManagerID,
		ActorName:     "Gerente",
		ActorRole:     entity.RoleManager,
		InvoiceNumber: "F-0042",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusPurchased, po.Status)
	assert.Equal(t, "F-0042", po.InvoiceNumber)
	require.NotNil(t, po.PurchasedAt)

	hist := s.History["po-1"]
	require.Len(t, hist, 1)
	assert.Contains(t, hist[0].Note, "F-0042")
}

func TestTransition_RecepcionParcialLuegoCompleta(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusPurchased)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	// Primera entrega: 4 de 10 → partially_received, inventario +4.
	po, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusReceived,
		ActorID:   testManagerID,
		ActorRole: entity.RoleManager,
		Items:     []purchasing.ReceivedItem{{ItemID: "it-1", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, po.Status,
		"con líneas incompletas el estado se resuelve a partially_received")
	assert.Equal(t, int64(4), po.Items[0].ReceivedQty)
	assert.Equal(t, int64(4), s.Items["it-1"].Quantity)

	// Segunda entrega: reporta 10 pero ya había 4; se recorta a lo ordenado.
	po, err = uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusReceived,
		ActorID:   testManagerID,
		ActorRole: entity.RoleManager,
		Items:     []purchasing.ReceivedItem{{ItemID: "it-1", Quantity: 10, DiscrepancyNote: "caja golpeada"}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, po.Status)
	assert.Equal(t, int64(10), po.Items[0].ReceivedQty, "ReceivedQty nunca supera lo ordenado")
	assert.Equal(t, "caja golpeada", po.Items[0].DiscrepancyNote)
	// Inventario solo sube por el delta efectivo (6), no por lo reportado.
	assert.Equal(t, int64(10), s.Items["it-1"].Quantity)
	require.NotNil(t, po.ReceivedAt)

	// Dos recepciones = dos entradas de historial.
	assert.Len(t, s.History["po-1"], 2)
}

func TestTransition_RecepcionSinCantidadesFalla(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusPurchased)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusReceived,
		ActorID:   testManagerID,
		ActorRole: entity.RoleManager,
		Items:     []purchasing.ReceivedItem{{ItemID: "it-1", Quantity: 0}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, int64(0), s.Items["it-1"].Quantity)
}

func TestTransition_RecepcionSinLineasDeLaOrdenFalla(t *testing.T) {
	s := apptest.NewMemStore()
	seedPO(s, entity.POStatusPurchased)
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	// La entrega reporta un ítem que no es línea de la orden: no hay nada
	// que recibir, así que no puede quedar registrada una recepción.
	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-1",
		Target:    entity.POStatusReceived,
		ActorID:   testManagerID,
		ActorRole: entity.RoleManager,
		Items:     []purchasing.ReceivedItem{{ItemID: "it-inexistente", Quantity: 5}},
	})
	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items", ve.Fields[0].Field)

	// Nada se mutó: ni estado, ni líneas, ni inventario, ni historial.
	stored := s.POs["po-1"]
	assert.Equal(t, entity.POStatusPurchased, stored.Status)
	assert.Nil(t, stored.ReceivedAt)
	assert.Equal(t, int64(0), stored.Items[0].ReceivedQty)
	assert.Equal(t, int64(0), s.Items["it-1"].Quantity)
	assert.Empty(t, s.History["po-1"])
}

func TestTransition_OCInexistente(t *testing.T) {
	s := apptest.NewMemStore()
	uc := purchasing.NewTransitionPOUseCase(s.Tx(), nil)

	_, err := uc.Transition(context.Background(), purchasing.TransitionInput{
		POID:      "po-fantasma",
		Target:    entity.POStatusApproved,
		ActorID:   testOwnerID,
		ActorRole: entity.RoleOwner,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

package workflow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la tabla de transiciones de órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransitionPO_AristasLegales(t *testing.T) {
	casos := []struct {
		from, to entity.POStatus
	}{
		{entity.POStatusDraft, entity.POStatusApproved},
		{entity.POStatusDraft, entity.POStatusCancelled},
		{entity.POStatusApproved, entity.POStatusPurchased},
		{entity.POStatusApproved, entity.POStatusCancelled},
		{entity.POStatusPurchased, entity.POStatusReceived},
		{entity.POStatusPurchased, entity.POStatusPartiallyReceived},
		// Entrega dañada devuelta al proveedor.
		{entity.POStatusPurchased, entity.POStatusCancelled},
		{entity.POStatusPartiallyReceived, entity.POStatusReceived},
		// Recepciones parciales repetidas.
		{entity.POStatusPartiallyReceived, entity.POStatusPartiallyReceived},
		{entity.POStatusReceived, entity.POStatusCompleted},
	}
	for _, c := range casos {
		assert.True(t, workflow.CanTransitionPO(c.from, c.to),
			"%s → %s debe ser legal", c.from, c.to)
	}
}

func TestCanTransitionPO_AristasIlegales(t *testing.T) {
	casos := []struct {
		from, to entity.POStatus
	}{
		// No se salta la aprobación ni la compra.
		{entity.POStatusDraft, entity.POStatusPurchased},
		{entity.POStatusDraft, entity.POStatusReceived},
		{entity.POStatusDraft, entity.POStatusCompleted},
		{entity.POStatusApproved, entity.POStatusReceived},
		{entity.POStatusApproved, entity.POStatusCompleted},
		// No hay marcha atrás.
		{entity.POStatusApproved, entity.POStatusDraft},
		{entity.POStatusPurchased, entity.POStatusApproved},
		{entity.POStatusReceived, entity.POStatusPurchased},
		// received no se cancela: el material ya entró a bodega.
		{entity.POStatusReceived, entity.POStatusCancelled},
	}
	for _, c := range casos {
		assert.False(t, workflow.CanTransitionPO(c.from, c.to),
			"%s → %s debe ser ilegal", c.from, c.to)
	}
}

func TestCanTransitionPO_EstadosTerminales(t *testing.T) {
	destinos := []entity.POStatus{
		entity.POStatusDraft, entity.POStatusApproved, entity.POStatusPurchased,
		entity.POStatusPartiallyReceived, entity.POStatusReceived,
		entity.POStatusCompleted, entity.POStatusCancelled,
	}
	for _, terminal := range []entity.POStatus{entity.POStatusCompleted, entity.POStatusCancelled} {
		assert.True(t, terminal.Terminal())
		for _, to := range destinos {
			assert.False(t, workflow.CanTransitionPO(terminal, to),
				"desde %s no debe salir ninguna transición (ni a %s)", terminal, to)
		}
	}
}

func TestCheckPOTransition_ErrorDetallado(t *testing.T) {
	err := workflow.CheckPOTransition(entity.POStatusDraft, entity.POStatusReceived)
	require.Error(t, err)

	// El error envuelve el centinela y detalla el par intentado.
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "purchase_order", te.Entity)
	assert.Equal(t, "draft", te.From)
	assert.Equal(t, "received", te.To)

	assert.NoError(t, workflow.CheckPOTransition(entity.POStatusDraft, entity.POStatusApproved))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la tabla de transiciones de requisiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransitionRequisition_CaminoFeliz(t *testing.T) {
	// Camino largo: aprobada → sin stock → compras → OC → completada.
	camino := []entity.ReqStatus{
		entity.ReqStatusPendingApproval,
		entity.ReqStatusApproved,
		entity.ReqStatusForwarded,
		entity.ReqStatusPOGenerated,
		entity.ReqStatusCompleted,
	}
	for i := 0; i < len(camino)-1; i++ {
		assert.True(t, workflow.CanTransitionRequisition(camino[i], camino[i+1]),
			"%s → %s debe ser legal", camino[i], camino[i+1])
	}

	// Camino corto: aprobada y entregada directo de bodega.
	assert.True(t, workflow.CanTransitionRequisition(entity.ReqStatusApproved, entity.ReqStatusDelivered))
	// Rechazo del aprobador.
	assert.True(t, workflow.CanTransitionRequisition(entity.ReqStatusPendingApproval, entity.ReqStatusRejected))
}

func TestCanTransitionRequisition_AristasIlegales(t *testing.T) {
	casos := []struct {
		from, to entity.ReqStatus
	}{
		// Sin firma del aprobador no hay entrega ni compras.
		{entity.ReqStatusPendingApproval, entity.ReqStatusDelivered},
		{entity.ReqStatusPendingApproval, entity.ReqStatusForwarded},
		{entity.ReqStatusPendingApproval, entity.ReqStatusPOGenerated},
		// Una aprobada no se completa sin pasar por la OC.
		{entity.ReqStatusApproved, entity.ReqStatusCompleted},
		{entity.ReqStatusApproved, entity.ReqStatusPOGenerated},
		// Estados terminales.
		{entity.ReqStatusRejected, entity.ReqStatusApproved},
		{entity.ReqStatusCompleted, entity.ReqStatusPendingApproval},
		{entity.ReqStatusDelivered, entity.ReqStatusCompleted},
	}
	for _, c := range casos {
		assert.False(t, workflow.CanTransitionRequisition(c.from, c.to),
			"%s → %s debe ser ilegal", c.from, c.to)
	}
}

func TestCheckRequisitionTransition_ErrorDetallado(t *testing.T) {
	err := workflow.CheckRequisitionTransition(entity.ReqStatusRejected, entity.ReqStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "requisition", te.Entity)
}

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

const testApproverID = "u-approver"

func seedPendingReq(s *apptest.MemStore) {
	seedApprovedReq(s, 3, 5)
	s.Reqs["req-1"].Status = entity.ReqStatusPendingApproval
}

func TestSign_Aprobar(t *testing.T) {
	s := apptest.NewMemStore()
	seedPendingReq(s)
	uc := requisition.NewSignUseCase(s.Tx())

	r, err := uc.Sign(context.Background(), "req-1", dto.SignRequisitionRequest{Approve: true},
		testApproverID, "VP Operaciones", entity.RoleApprover)
	require.NoError(t, err)

	assert.Equal(t, entity.ReqStatusApproved, r.Status)
	hist := s.History["req-1"]
	require.Len(t, hist, 1)
	assert.Equal(t, "approved", hist[0].Status)
	assert.Contains(t, hist[0].Note, "Aprobada por")
}

func TestSign_Rechazar(t *testing.T) {
	s := apptest.NewMemStore()
	seedPendingReq(s)
	uc := requisition.NewSignUseCase(s.Tx())

	r, err := uc.Sign(context.Background(), "req-1",
		dto.SignRequisitionRequest{Approve: false, Notes: "Sin presupuesto este mes"},
		testApproverID, "VP Operaciones", entity.RoleApprover)
	require.NoError(t, err)

	assert.Equal(t, entity.ReqStatusRejected, r.Status)
	hist := s.History["req-1"]
	require.Len(t, hist, 1)
	assert.Equal(t, "Sin presupuesto este mes", hist[0].Note)
}

func TestSign_SoloElAprobadorFirma(t *testing.T) {
	s := apptest.NewMemStore()
	seedPendingReq(s)
	uc := requisition.NewSignUseCase(s.Tx())

	_, err := uc.Sign(context.Background(), "req-1", dto.SignRequisitionRequest{Approve: true},
		testRequesterID, "Solicitante", entity.RoleRequester)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, entity.ReqStatusPendingApproval, s.Reqs["req-1"].Status)
}

func TestSign_YaFirmadaNoSeRefirma(t *testing.T) {
	s := apptest.NewMemStore()
	seedApprovedReq(s, 3, 5) // ya en approved

	uc := requisition.NewSignUseCase(s.Tx())
	_, err := uc.Sign(context.Background(), "req-1", dto.SignRequisitionRequest{Approve: true},
		testApproverID, "VP Operaciones", entity.RoleApprover)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestSign_RequisicionInexistente(t *testing.T) {
	s := apptest.NewMemStore()
	uc := requisition.NewSignUseCase(s.Tx())

	_, err := uc.Sign(context.Background(), "req-fantasma", dto.SignRequisitionRequest{Approve: true},
		testApproverID, "VP Operaciones", entity.RoleApprover)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

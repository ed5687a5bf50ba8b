package workflow

import (
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

// Action acción del workflow sujeta a autorización por rol.
type Action string

const (
	ActionApprovePO       Action = "approve_po"
	ActionCancelPO        Action = "cancel_po"
	ActionMarkPurchased   Action = "mark_purchased"
	ActionReceiveItems    Action = "receive_items"
	ActionCompletePO      Action = "complete_po"
	ActionRateSupplier    Action = "rate_supplier"
	ActionSignRequisition Action = "sign_requisition"
	ActionCustodianCheck  Action = "custodian_check"
	ActionGeneratePO      Action = "generate_po"
	ActionReceiveDelivery Action = "receive_delivery"
)

// actionRule roles permitidos y estados de OC desde los que aplica la acción.
// Statuses vacío = la acción no depende del estado de una OC.
type actionRule struct {
	Roles    []string
	Statuses []entity.POStatus
}

var actionRules = map[Action]actionRule{
	ActionApprovePO:     {Roles: []string{entity.RoleOwner}, Statuses: []entity.POStatus{entity.POStatusDraft}},
	ActionCancelPO:      {Roles: []string{entity.RoleOwner}, Statuses: []entity.POStatus{entity.POStatusDraft, entity.POStatusApproved}},
	ActionMarkPurchased: {Roles: []string{entity.RoleManager}, Statuses: []entity.POStatus{entity.POStatusApproved}},
	ActionReceiveItems:  {Roles: []string{entity.RoleManager}, Statuses: []entity.POStatus{entity.POStatusPurchased, entity.POStatusPartiallyReceived}},
	ActionCompletePO:    {Roles: []string{entity.RoleManager}, Statuses: []entity.POStatus{entity.POStatusReceived}},
	ActionRateSupplier:  {Roles: []string{entity.RoleManager}, Statuses: []entity.POStatus{entity.POStatusReceived, entity.POStatusCompleted}},

	ActionSignRequisition: {Roles: []string{entity.RoleApprover}},
	ActionCustodianCheck:  {Roles: []string{entity.RoleCustodian}},
	ActionGeneratePO:      {Roles: []string{entity.RolePurchasing}},
	ActionReceiveDelivery: {Roles: []string{entity.RoleCustodian}},
}

// RoleAllowed indica si el rol está en la lista de la acción.
func RoleAllowed(role string, action Action) bool {
	rule, ok := actionRules[action]
	return ok && containsStr(rule.Roles, role)
}

// StatusAllows indica si la acción aplica sobre una OC en el estado dado.
// Para acciones sin Statuses el estado se ignora.
func StatusAllows(action Action, status entity.POStatus) bool {
	rule, ok := actionRules[action]
	if !ok {
		return false
	}
	if len(rule.Statuses) == 0 {
		return true
	}
	for _, s := range rule.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanPerform indica si el rol puede ejecutar la acción sobre una OC en el
// estado dado.
func CanPerform(role string, action Action, status entity.POStatus) bool {
	return RoleAllowed(role, action) && StatusAllows(action, status)
}

// Authorize retorna ForbiddenActionError (con rol y roles requeridos) cuando
// CanPerform es falso. El rechazo nunca es silencioso.
func Authorize(role string, action Action, status entity.POStatus) error {
	if CanPerform(role, action, status) {
		return nil
	}
	rule := actionRules[action]
	return &domain.ForbiddenActionError{Role: role, Action: string(action), Required: rule.Roles}
}

// ActionForPOTransition acción que gobierna la arista from → to.
// La legalidad de la arista se valida aparte (CheckPOTransition).
func ActionForPOTransition(from, to entity.POStatus) Action {
	switch to {
	case entity.POStatusApproved:
		return ActionApprovePO
	case entity.POStatusCancelled:
		return ActionCancelPO
	case entity.POStatusPurchased:
		return ActionMarkPurchased
	case entity.POStatusReceived, entity.POStatusPartiallyReceived:
		return ActionReceiveItems
	case entity.POStatusCompleted:
		return ActionCompletePO
	}
	return ""
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

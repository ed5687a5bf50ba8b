package entity

import "time"

// Roles del flujo de compras (conjunto cerrado).
const (
	RoleOwner      = "owner"      // dueño: aprueba y asigna órdenes de compra
	RoleManager    = "manager"    // gerente asignado: compra, recibe y califica
	RoleRequester  = "requester"  // departamento solicitante: crea requisiciones
	RoleApprover   = "approver"   // VP: firma o rechaza requisiciones
	RoleCustodian  = "custodian"  // bodega: verifica stock y recibe entregas
	RolePurchasing = "purchasing" // compras: genera OC desde requisiciones
)

// KnownRole indica si role pertenece al conjunto cerrado de roles.
func KnownRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleRequester, RoleApprover, RoleCustodian, RolePurchasing:
		return true
	}
	return false
}

// User usuario del sistema con rol de workflow.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // ver constantes Role*
	Department   string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package entity

import "time"

// HistoryEntry entrada del historial embebido de una requisición u orden de
// compra. La entidad dueña es la única que referencia sus entradas.
type HistoryEntry struct {
	ID        string
	EntityID  string // ID de la OC o requisición dueña
	Timestamp time.Time
	ActorID   string
	ActorName string
	Status    string // estado resultante tras el evento
	Note      string
}

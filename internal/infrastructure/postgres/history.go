package postgres

import (
	"context"
	"fmt"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// La tabla status_history es compartida: guarda la cadena de auditoría de
// órdenes de compra y requisiciones, solo inserción.

func appendHistory(q Querier, e *entity.HistoryEntry) error {
	_, err := q.Exec(context.Background(), `
		INSERT INTO status_history (id, entity_id, ts, actor_id, actor_name, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.EntityID, e.Timestamp, e.ActorID, e.ActorName, e.Status, e.Note,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func listHistory(q Querier, entityID string) ([]entity.HistoryEntry, error) {
	rows, err := q.Query(context.Background(), `
		SELECT id, entity_id, ts, actor_id, actor_name, status, note
		FROM status_history WHERE entity_id = $1 ORDER BY ts, id`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []entity.HistoryEntry
	for rows.Next() {
		var e entity.HistoryEntry
		if err := rows.Scan(&e.ID, &e.EntityID, &e.Timestamp, &e.ActorID, &e.ActorName, &e.Status, &e.Note); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

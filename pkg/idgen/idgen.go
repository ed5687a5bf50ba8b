package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// PONumberGen genera números de orden visibles (PO-xxxx) únicos y
// ordenables en el tiempo, basados en IDs snowflake.
type PONumberGen struct {
	node *snowflake.Node
}

// NewPONumberGen crea el generador. nodeID distingue instancias de la API
// que corren en paralelo (0–1023).
func NewPONumberGen(nodeID int64) (*PONumberGen, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("idgen: crear nodo snowflake: %w", err)
	}
	return &PONumberGen{node: node}, nil
}

// Next devuelve el siguiente número de orden de compra.
func (g *PONumberGen) Next() string {
	return "PO-" + g.node.Generate().Base36()
}

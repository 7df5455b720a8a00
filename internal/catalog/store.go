// Package catalog exposes the store inventory: read-only product records
// browsed by the frontend to build carts.
package catalog

import (
	"context"
	"fmt"

	"github.com/luislem95/api-gestor-pedidos/internal/storage"
)

// Category is the partition discriminator for inventory records.
const Category = "inventario"

// Item is one sellable product.
type Item struct {
	Category   string  `dynamodbav:"tipo" json:"tipo"`
	ID         string  `dynamodbav:"id" json:"id"`
	Name       string  `dynamodbav:"nombre" json:"nombre"`
	Price      float64 `dynamodbav:"precio" json:"precio"`
	Quantity   int     `dynamodbav:"cantidad" json:"cantidad"`
	Image      string  `dynamodbav:"imagen,omitempty" json:"imagen,omitempty"`
	Electronic bool    `dynamodbav:"electronico,omitempty" json:"electronico,omitempty"`
}

type Store struct {
	table    *storage.Table
	category string
}

func NewStore(table *storage.Table) *Store {
	return &Store{
		table:    table,
		category: Category,
	}
}

// List returns every inventory item. An empty inventory is an empty slice.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := s.table.Query(ctx, s.category, &items); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

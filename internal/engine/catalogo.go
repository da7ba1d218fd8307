package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoEncontrado is returned by Catalogo lookups when the id does not exist.
var ErrNoEncontrado = errors.New("no encontrado en el catálogo")

// ProductoCatalogo is the read-only snapshot the engine works with. Prices are
// copied into cart lines at add-time; later catalog changes never touch a cart.
type ProductoCatalogo struct {
	ID         uuid.UUID
	Nombre     string
	Precio     decimal.Decimal
	Categorias []uuid.UUID
}

// EnCategoria reports whether the product belongs to the given category.
func (p *ProductoCatalogo) EnCategoria(categoriaID uuid.UUID) bool {
	for _, c := range p.Categorias {
		if c == categoriaID {
			return true
		}
	}
	return false
}

// Catalogo is the external catalog collaborator. Implementations may hit a
// database or a cache; the engine only depends on these three lookups.
type Catalogo interface {
	Producto(ctx context.Context, id uuid.UUID) (*ProductoCatalogo, error)
	ProductosPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]ProductoCatalogo, error)
	Plantilla(ctx context.Context, id uuid.UUID) (*PlantillaPromocion, error)
}

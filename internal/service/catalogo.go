package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"andespos/internal/engine"
	"andespos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// plantillaCacheTTL keeps the eligibility hot path off the database between
// catalog edits. Templates change rarely; 60s staleness is acceptable.
const plantillaCacheTTL = 60 * time.Second

const plantillaCachePrefix = "catalogo:plantilla:"

// catalogoAdapter implements engine.Catalogo on top of the GORM repositories,
// with a Redis read-through cache for promotion templates. rdb may be nil
// (unit tests) — the adapter then goes straight to the repository.
type catalogoAdapter struct {
	catalogo repository.CatalogoRepository
	promos   repository.PromocionRepository
	rdb      *redis.Client
}

// NewCatalogo builds the engine's catalog collaborator.
func NewCatalogo(catalogo repository.CatalogoRepository, promos repository.PromocionRepository, rdb *redis.Client) engine.Catalogo {
	return &catalogoAdapter{catalogo: catalogo, promos: promos, rdb: rdb}
}

func (a *catalogoAdapter) Producto(ctx context.Context, id uuid.UUID) (*engine.ProductoCatalogo, error) {
	p, err := a.catalogo.FindProducto(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, engine.ErrNoEncontrado
		}
		return nil, err
	}
	return p.Snapshot(), nil
}

func (a *catalogoAdapter) ProductosPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]engine.ProductoCatalogo, error) {
	productos, err := a.catalogo.ProductosPorCategoria(ctx, categoriaID)
	if err != nil {
		return nil, err
	}
	out := make([]engine.ProductoCatalogo, 0, len(productos))
	for i := range productos {
		out = append(out, *productos[i].Snapshot())
	}
	return out, nil
}

func (a *catalogoAdapter) Plantilla(ctx context.Context, id uuid.UUID) (*engine.PlantillaPromocion, error) {
	if cached := a.plantillaDesdeCache(ctx, id); cached != nil {
		return cached, nil
	}

	p, err := a.promos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, engine.ErrNoEncontrado
		}
		return nil, err
	}

	snapshot := p.AEngine()
	a.guardarEnCache(ctx, id, snapshot)
	return snapshot, nil
}

func (a *catalogoAdapter) plantillaDesdeCache(ctx context.Context, id uuid.UUID) *engine.PlantillaPromocion {
	if a.rdb == nil {
		return nil
	}
	raw, err := a.rdb.Get(ctx, plantillaCachePrefix+id.String()).Bytes()
	if err != nil {
		return nil // miss or redis down — fall through to the repo
	}
	var p engine.PlantillaPromocion
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

func (a *catalogoAdapter) guardarEnCache(ctx context.Context, id uuid.UUID, p *engine.PlantillaPromocion) {
	if a.rdb == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := a.rdb.Set(ctx, plantillaCachePrefix+id.String(), raw, plantillaCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("catalogo: cache de plantilla no disponible")
	}
}

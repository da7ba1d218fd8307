package repository

import (
	"context"

	"andespos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoRepository is the read side of the product catalog. The engine
// never sees GORM — services project these records onto engine snapshots.
type CatalogoRepository interface {
	FindProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	ProductosPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error)
	ListProductos(ctx context.Context) ([]model.Producto, error)
	ListCategorias(ctx context.Context) ([]model.Categoria, error)
	CreateCategoria(ctx context.Context, c *model.Categoria) error
	CreateProducto(ctx context.Context, p *model.Producto) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) FindProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categorias").Where("activo = true").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogoRepo) ProductosPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categorias").
		Joins("JOIN producto_categorias pc ON pc.producto_id = productos.id").
		Where("pc.categoria_id = ? AND productos.activo = true", categoriaID).
		Order("productos.nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *catalogoRepo) ListProductos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Categorias").Where("activo = true").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *catalogoRepo) ListCategorias(ctx context.Context) ([]model.Categoria, error) {
	var categorias []model.Categoria
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&categorias).Error
	return categorias, err
}

func (r *catalogoRepo) CreateCategoria(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogoRepo) CreateProducto(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

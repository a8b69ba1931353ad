package repository

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// ProductRepository catálogo de productos. Los listados van ordenados por categoría y nombre.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Product, error)
	// Search coincidencia parcial sin distinguir mayúsculas en nombre, categoría o descripción.
	Search(ctx context.Context, query string) ([]*entity.Product, error)
}

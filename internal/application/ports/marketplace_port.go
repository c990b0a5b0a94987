package ports

import (
	"context"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// CatalogAPI puerto hacia la API pública del marketplace (sin autenticación).
type CatalogAPI interface {
	Categories(ctx context.Context, siteID string) ([]entity.Category, error)
	Category(ctx context.Context, categoryID string) (*entity.Category, error)
	CategoryAttributes(ctx context.Context, categoryID string) ([]entity.CategoryAttribute, error)
	PredictCategory(ctx context.Context, siteID, title string, limit int) ([]entity.CategoryPrediction, error)
}

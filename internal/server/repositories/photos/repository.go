package photos

import (
	"context"

	"github.com/dmitrijs2005/photoshare/internal/server/models"
)

// Repository is the metadata record store keyed by original filename.
// Upsert replaces any existing record at the key entirely; Get and List
// serve the browsing collaborators and are never called by the pipeline.
type Repository interface {
	Upsert(ctx context.Context, record *models.PhotoRecord) error
	GetByFilename(ctx context.Context, filename string) (*models.PhotoRecord, error)
	List(ctx context.Context) ([]*models.PhotoRecord, error)
}

package documentos

import (
	"context"

	"github.com/gestion-contratistas/portal/internal/server/models"
)

type Repository interface {
	GetBySolicitudID(ctx context.Context, solicitudID int64) (*models.Documento, error)
	// Upsert records the storage key for a solicitud's bundle. Concurrent
	// writers for the same solicitud resolve last-writer-wins.
	Upsert(ctx context.Context, doc *models.Documento) error
}

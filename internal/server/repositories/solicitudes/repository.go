package solicitudes

import (
	"context"

	"github.com/gestion-contratistas/portal/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Solicitud, error)
	Colaboradores(ctx context.Context, solicitudID int64) ([]*models.Colaborador, error)
}

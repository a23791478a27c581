package users

import (
	"context"

	"github.com/gestion-contratistas/portal/internal/server/models"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetPolicyDocumentKey(ctx context.Context, id string, key string) error
}

package documentos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/dbx"
	"github.com/gestion-contratistas/portal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetBySolicitudID(ctx context.Context, solicitudID int64) (*models.Documento, error) {
	query :=
		`SELECT solicitud_id, storage_key, created_at FROM sst_documentos
		 WHERE solicitud_id = $1
		 `

	doc := &models.Documento{}
	err := r.db.QueryRowContext(ctx, query, solicitudID).Scan(&doc.SolicitudID, &doc.StorageKey, &doc.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return doc, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.Documento) error {
	query :=
		`INSERT INTO sst_documentos (solicitud_id, storage_key)
		 VALUES ($1, $2)
		 ON CONFLICT (solicitud_id)
		 DO UPDATE SET
			storage_key = EXCLUDED.storage_key,
			created_at = now()
		 `

	res, err := r.db.ExecContext(ctx, query, doc.SolicitudID, doc.StorageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}

	return nil
}

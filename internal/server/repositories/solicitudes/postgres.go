package solicitudes

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

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Solicitud, error) {
	query :=
		`SELECT id, usuario_id, interventor_id, empresa, inicio_obra, fin_obra, estado
		 FROM solicitudes
		 WHERE id = $1
		 `

	s := &models.Solicitud{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UsuarioID, &s.InterventorID, &s.Empresa, &s.InicioObra, &s.FinObra, &s.Estado)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return s, nil
}

// Colaboradores returns the active workers attached to a solicitud, in the
// order they appear in the generated report.
func (r *PostgresRepository) Colaboradores(ctx context.Context, solicitudID int64) ([]*models.Colaborador, error) {
	query :=
		`SELECT id, cedula, nombre FROM colaboradores
		 WHERE solicitud_id = $1 AND estado = true
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, solicitudID)
	if err != nil {
		return nil, fmt.Errorf("failed to select colaboradores: %w", err)
	}

	var result []*models.Colaborador

	defer rows.Close()
	for rows.Next() {
		item := models.Colaborador{}
		if err := rows.Scan(&item.ID, &item.Cedula, &item.Nombre); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

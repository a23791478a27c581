package repomanager

import (
	"github.com/gestion-contratistas/portal/internal/dbx"
	"github.com/gestion-contratistas/portal/internal/server/repositories/documentos"
	"github.com/gestion-contratistas/portal/internal/server/repositories/solicitudes"
	"github.com/gestion-contratistas/portal/internal/server/repositories/users"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Solicitudes(db dbx.DBTX) solicitudes.Repository {
	return solicitudes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Documentos(db dbx.DBTX) documentos.Repository {
	return documentos.NewPostgresRepository(db)
}

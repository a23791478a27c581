// Package repomanager hands out per-aggregate repositories bound to a
// database handle. Passing a dbx.DBTX lets services run a repository against
// either the pool or an open transaction.
package repomanager

import (
	"github.com/gestion-contratistas/portal/internal/dbx"
	"github.com/gestion-contratistas/portal/internal/server/repositories/documentos"
	"github.com/gestion-contratistas/portal/internal/server/repositories/solicitudes"
	"github.com/gestion-contratistas/portal/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Solicitudes(db dbx.DBTX) solicitudes.Repository
	Documentos(db dbx.DBTX) documentos.Repository
}

package models

import "time"

// Solicitud is a contractor work request. Document bundles are generated
// per solicitud.
type Solicitud struct {
	ID            int64
	UsuarioID     string
	InterventorID string
	Empresa       string
	InicioObra    time.Time
	FinObra       time.Time
	Estado        string
}

// Colaborador is a worker attached to a solicitud and listed in the
// generated report.
type Colaborador struct {
	ID     int64
	Cedula string
	Nombre string
}

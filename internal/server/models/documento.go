package models

import "time"

// Documento records the durable storage location of a generated bundle.
// StorageKey is an opaque locator (bucket is configuration); retrieval goes
// through short-lived presigned URLs, never through stored credentials.
type Documento struct {
	SolicitudID int64
	StorageKey  string
	CreatedAt   time.Time
}

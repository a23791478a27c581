package documentos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/server/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestGetBySolicitudID_Found(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"solicitud_id", "storage_key", "created_at"}).
		AddRow(int64(42), "sst-documents/Solicitud_42.zip", time.Now())
	mock.ExpectQuery("SELECT solicitud_id, storage_key").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	doc, err := repo.GetBySolicitudID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetBySolicitudID error: %v", err)
	}
	if doc.StorageKey != "sst-documents/Solicitud_42.zip" {
		t.Fatalf("unexpected storage key: %q", doc.StorageKey)
	}
}

func TestGetBySolicitudID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT solicitud_id, storage_key").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"solicitud_id", "storage_key", "created_at"}))

	_, err := repo.GetBySolicitudID(context.Background(), 999)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO sst_documentos").
		WithArgs(int64(42), "sst-documents/Solicitud_42.zip").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.Documento{
		SolicitudID: 42,
		StorageKey:  "sst-documents/Solicitud_42.zip",
	})
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

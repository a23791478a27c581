package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/dbx"
	"github.com/gestion-contratistas/portal/internal/logging"
	"github.com/gestion-contratistas/portal/internal/netx"
	sc "github.com/gestion-contratistas/portal/internal/server/config"
	"github.com/gestion-contratistas/portal/internal/server/models"
	"github.com/gestion-contratistas/portal/internal/server/notifications"
	"github.com/gestion-contratistas/portal/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Messages surfaced verbatim to the end user.
const (
	MsgDocumentoGenerado   = "Documento generado correctamente"
	MsgDocumentoRecuperado = "URL de descarga recuperada correctamente"
)

// GenerationResult is the outcome of a successful Generate call. URL is a
// presigned download link valid for the configured TTL.
type GenerationResult struct {
	URL     string
	Message string
	Reused  bool
}

// DocumentService assembles document bundles, stores them in object storage
// and issues short-lived presigned download URLs. It holds no per-request
// state; concurrent Generate calls for the same solicitud resolve
// last-writer-wins on the persisted locator.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	publisher   notifications.Publisher
	httpClient  *http.Client
}

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config,
	logger logging.Logger, publisher notifications.Publisher) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		logger:      logger.With("module", "documents"),
		publisher:   publisher,
		httpClient:  &http.Client{},
	}
}

// BundleStorageKey returns a fresh object key for a solicitud's bundle.
func BundleStorageKey(solicitudID int64) string {
	return fmt.Sprintf("sst-documents/Solicitud_%d_%v.zip", solicitudID, uuid.New())
}

// PolicyStorageKey returns a fresh object key for a user's policy-acceptance
// document.
func PolicyStorageKey(userID string) string {
	return fmt.Sprintf("politicas-aceptacion/%s_%d.html", userID, time.Now().UnixMilli())
}

func (s *DocumentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// presignedGetURL signs a GET URL for key, valid for the configured TTL.
// The TTL is policy, not a parameter: callers cannot stretch it. Signing is
// bounded by SignTimeout; a storage service that cannot be reached in time
// surfaces common.ErrUpstreamUnavailable.
func (s *DocumentService) presignedGetURL(ctx context.Context, key string) (string, error) {

	ctx, cancel := context.WithTimeout(ctx, s.config.SignTimeout)
	defer cancel()

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.SignedURLTTL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	return req.URL, nil
}

// presignedPutURL signs an upload URL for a fresh key.
func (s *DocumentService) presignedPutURL(ctx context.Context, key string) (string, error) {

	ctx, cancel := context.WithTimeout(ctx, s.config.SignTimeout)
	defer cancel()

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.SignedURLTTL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	return req.URL, nil
}

// Generate produces the document bundle for a solicitud, uploads it and
// persists its locator. If a bundle was already recorded, the stored locator
// is reused and no new bundle is built. The whole operation runs on the
// caller's goroutine without any process-wide lock, so slow generations do
// not stall unrelated requests.
func (s *DocumentService) Generate(ctx context.Context, solicitudID int64) (*GenerationResult, error) {

	docRepo := s.repomanager.Documentos(s.db)

	existing, err := docRepo.GetBySolicitudID(ctx, solicitudID)
	if err == nil {
		url, err := s.presignedGetURL(ctx, existing.StorageKey)
		if err != nil {
			return nil, err
		}
		return &GenerationResult{URL: url, Message: MsgDocumentoRecuperado, Reused: true}, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	// The report must be rendered from one consistent snapshot.
	var solicitud *models.Solicitud
	var colaboradores []*models.Colaborador
	var contratista, interventor *models.User

	err = dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		solRepo := s.repomanager.Solicitudes(tx)
		userRepo := s.repomanager.Users(tx)

		if solicitud, err = solRepo.GetByID(ctx, solicitudID); err != nil {
			return err
		}

		if colaboradores, err = solRepo.Colaboradores(ctx, solicitudID); err != nil {
			return fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
		}

		if contratista, err = userRepo.GetByID(ctx, solicitud.UsuarioID); err != nil {
			return fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
		}
		if interventor, err = userRepo.GetByID(ctx, solicitud.InterventorID); err != nil {
			return fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bundle, err := buildBundle(solicitud, colaboradores, contratista.Username, interventor.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}

	key := BundleStorageKey(solicitudID)

	putURL, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := netx.UploadToPresignedURL(ctx, s.httpClient, putURL, "application/zip", bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	doc := &models.Documento{SolicitudID: solicitudID, StorageKey: key}
	if err := docRepo.Upsert(ctx, doc); err != nil {
		return nil, err
	}

	url, err := s.presignedGetURL(ctx, key)
	if err != nil {
		return nil, err
	}

	event := notifications.DocumentoGeneradoEvent{
		SolicitudID: solicitudID,
		StorageKey:  key,
		GeneratedBy: contratista.Username,
		GeneratedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, fmt.Sprintf("%d", solicitudID), event); err != nil {
		// The bundle is already stored; a broker outage must not fail the request.
		s.logger.Warn(ctx, "event publish failed", "solicitud_id", solicitudID, "error", err.Error())
	}

	return &GenerationResult{URL: url, Message: MsgDocumentoGenerado}, nil
}

// DownloadURL issues a presigned URL for a previously generated bundle.
// Returns common.ErrorNotFound when no bundle was ever generated.
func (s *DocumentService) DownloadURL(ctx context.Context, solicitudID int64) (string, error) {

	docRepo := s.repomanager.Documentos(s.db)

	doc, err := docRepo.GetBySolicitudID(ctx, solicitudID)
	if err != nil {
		return "", err
	}

	return s.presignedGetURL(ctx, doc.StorageKey)
}

// PolicyDocumentURL issues a presigned URL for the user's policy-acceptance
// document. Returns common.ErrorNotFound when the user does not exist or
// never had the document generated.
func (s *DocumentService) PolicyDocumentURL(ctx context.Context, userID string) (string, error) {

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if user.PolicyDocumentKey == "" {
		return "", common.ErrorNotFound
	}

	return s.presignedGetURL(ctx, user.PolicyDocumentKey)
}

// GeneratePolicyAcceptance renders the policy-acceptance record for a user,
// uploads it and stores the key on the user row. Re-generating replaces the
// previous document reference.
func (s *DocumentService) GeneratePolicyAcceptance(ctx context.Context, userID, clientIP string) (string, error) {

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	html, err := renderPolicyAcceptance(user, clientIP, time.Now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}

	key := PolicyStorageKey(userID)

	putURL, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return "", err
	}

	if err := netx.UploadToPresignedURL(ctx, s.httpClient, putURL, "text/html", html); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	if err := userRepo.SetPolicyDocumentKey(ctx, userID, key); err != nil {
		return "", err
	}

	return s.presignedGetURL(ctx, key)
}

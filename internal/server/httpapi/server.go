// Package httpapi exposes the portal over HTTP: login/logout, role-gated
// document generation and signed download redirects.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gestion-contratistas/portal/internal/logging"
	sc "github.com/gestion-contratistas/portal/internal/server/config"
	"github.com/gestion-contratistas/portal/internal/server/models"
	"github.com/gestion-contratistas/portal/internal/server/services"
)

type userSvc interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
}

type documentSvc interface {
	Generate(ctx context.Context, solicitudID int64) (*services.GenerationResult, error)
	DownloadURL(ctx context.Context, solicitudID int64) (string, error)
	PolicyDocumentURL(ctx context.Context, userID string) (string, error)
	GeneratePolicyAcceptance(ctx context.Context, userID, clientIP string) (string, error)
}

type HTTPServer struct {
	address     string
	config      *sc.Config
	logger      logging.Logger
	userService userSvc
	docService  documentSvc
}

func NewHTTPServer(c *sc.Config, l logging.Logger, us *services.UserService, ds *services.DocumentService) *HTTPServer {
	return &HTTPServer{
		address:     c.EndpointAddrHTTP,
		config:      c,
		logger:      l.With("module", "http_server"),
		userService: us,
		docService:  ds,
	}
}

// Handler builds the full route tree. Split out from Run so tests can mount
// it on an httptest server.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	s.mountRoutes(r)
	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

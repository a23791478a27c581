package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/server/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// parseCredentials accepts either a JSON body or a classic form post.
func parseCredentials(r *http.Request) (*credentials, error) {
	if r.Header.Get("Content-Type") == "application/json" {
		var c credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, nil
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := parseCredentials(r)
	if err != nil || creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Usuario y contraseña son requeridos")
		return
	}

	user, err := s.userService.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	token, err := s.userService.IssueToken(user)
	if err != nil {
		s.logger.Error(r.Context(), "token issue failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(s.config.TokenValidityDuration.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"role":     user.Role,
			"redirect": homeFor(user.Role),
		})
		return
	}
	http.Redirect(w, r, homeFor(user.Role), http.StatusFound)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func solicitudID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// handleGenerarDocumentos builds (or recovers) the document bundle for a
// solicitud and answers with a short-lived download URL.
func (s *HTTPServer) handleGenerarDocumentos(w http.ResponseWriter, r *http.Request) {
	id, err := solicitudID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identificador de solicitud inválido")
		return
	}

	res, err := s.docService.Generate(r.Context(), id)
	if err != nil {
		s.writeDocumentError(w, r, err)
		return
	}

	writeSuccess(w, res.URL, res.Message)
}

// handleDescargarSolicitud issues a fresh signed URL for an already
// generated bundle. It never triggers generation.
func (s *HTTPServer) handleDescargarSolicitud(w http.ResponseWriter, r *http.Request) {
	id, err := solicitudID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identificador de solicitud inválido")
		return
	}

	url, err := s.docService.DownloadURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Documento no encontrado")
			return
		}
		s.writeDocumentError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeSuccess(w, url, "URL de descarga recuperada correctamente")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// handleVerPolitica redirects to a presigned URL for the user's stored
// policy-acceptance document. The artifact itself is never proxied.
func (s *HTTPServer) handleVerPolitica(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	url, err := s.docService.PolicyDocumentURL(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "Documento no encontrado", http.StatusNotFound)
			return
		}
		s.logger.Error(r.Context(), "policy document lookup failed", "user_id", userID, "error", err.Error())
		http.Error(w, "Error al generar el enlace de descarga", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// handleAceptarPolitica records the caller's acceptance of the data-handling
// policy and returns a link to the generated record.
func (s *HTTPServer) handleAceptarPolitica(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	url, err := s.docService.GeneratePolicyAcceptance(r.Context(), claims.UserID, ip)
	if err != nil {
		s.writeDocumentError(w, r, err)
		return
	}

	writeSuccess(w, url, "Constancia de aceptación generada correctamente")
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDocumentError maps document lifecycle errors onto HTTP statuses.
func (s *HTTPServer) writeDocumentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Solicitud no encontrada")
	case errors.Is(err, common.ErrUpstreamUnavailable):
		s.logger.Error(r.Context(), "storage unavailable", "error", err.Error())
		writeError(w, http.StatusBadGateway, "El servicio de almacenamiento no está disponible")
	case errors.Is(err, common.ErrGenerationFailed):
		s.logger.Error(r.Context(), "generation failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error al generar el documento")
	default:
		s.logger.Error(r.Context(), "unexpected error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}

// mountRoutes wires the public and role-gated routes.
func (s *HTTPServer) mountRoutes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate([]byte(s.config.SecretKey)))

		r.Post("/api/aceptar-politica", s.handleAceptarPolitica)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleSst))
			r.Post("/api/sst/generar-documentos/{id}", s.handleGenerarDocumentos)
			r.Get("/descargar-solicitud/{id}", s.handleDescargarSolicitud)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin))
			r.Get("/ver-politica/{id}", s.handleVerPolitica)
		})
	})
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/logging"
	sc "github.com/gestion-contratistas/portal/internal/server/config"
	"github.com/gestion-contratistas/portal/internal/server/models"
	"github.com/gestion-contratistas/portal/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeUserSvc struct {
	user     *models.User
	loginErr error
	token    string
	tokenErr error
}

func (f *fakeUserSvc) Login(ctx context.Context, username, password string) (*models.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func (f *fakeUserSvc) IssueToken(user *models.User) (string, error) {
	return f.token, f.tokenErr
}

type fakeDocSvc struct {
	genRes    *services.GenerationResult
	genErr    error
	dlURL     string
	dlErr     error
	policyURL string
	policyErr error
	acceptURL string
	acceptErr error
}

func (f *fakeDocSvc) Generate(ctx context.Context, solicitudID int64) (*services.GenerationResult, error) {
	return f.genRes, f.genErr
}
func (f *fakeDocSvc) DownloadURL(ctx context.Context, solicitudID int64) (string, error) {
	return f.dlURL, f.dlErr
}
func (f *fakeDocSvc) PolicyDocumentURL(ctx context.Context, userID string) (string, error) {
	return f.policyURL, f.policyErr
}
func (f *fakeDocSvc) GeneratePolicyAcceptance(ctx context.Context, userID, clientIP string) (string, error) {
	return f.acceptURL, f.acceptErr
}

func newTestServer(u userSvc, d documentSvc) *HTTPServer {
	cfg := &sc.Config{
		SecretKey:             string(testSecret),
		TokenValidityDuration: time.Hour,
	}
	return &HTTPServer{
		address:     "127.0.0.1:0",
		config:      cfg,
		logger:      nopLogger{},
		userService: u,
		docService:  d,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestHandleLogin(t *testing.T) {
	user := &models.User{ID: "u1", Username: "maria", Role: models.RoleSst}

	t.Run("form login redirects to role home", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{user: user, token: "tok123"}, &fakeDocSvc{})
		h := s.Handler()

		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader("username=maria&password=s3cret"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/sst" {
			t.Fatalf("expected 302 to /sst, got %d %q", rec.Code, rec.Header().Get("Location"))
		}

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != common.TokenCookieName {
			t.Fatalf("expected a session cookie, got %v", cookies)
		}
		if cookies[0].Value != "tok123" || !cookies[0].HttpOnly {
			t.Fatalf("cookie must carry the token and be HttpOnly: %+v", cookies[0])
		}
	})

	t.Run("json login returns role and redirect", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{user: user, token: "tok123"}, &fakeDocSvc{})
		h := s.Handler()

		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":"maria","password":"s3cret"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["redirect"] != "/sst" || body["role"] != models.RoleSst {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{loginErr: common.ErrorUnauthorized}, &fakeDocSvc{})
		h := s.Handler()

		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader("username=maria&password=wrong"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{})
		h := s.Handler()

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=maria"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleLogout(t *testing.T) {
	s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{})
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 302 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected an expired cookie, got %v", cookies)
	}
}

func sstRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: issueToken(t, models.RoleSst, time.Hour)})
	return req
}

func TestHandleGenerarDocumentos(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{genRes: &services.GenerationResult{
			URL:     "https://signed.example/doc.zip",
			Message: "Documento generado correctamente",
		}})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, sstRequest(t, http.MethodPost, "/api/sst/generar-documentos/42"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["success"] != true || body["url"] != "https://signed.example/doc.zip" ||
			body["message"] != "Documento generado correctamente" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("unknown solicitud", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{genErr: common.ErrorNotFound})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, sstRequest(t, http.MethodPost, "/api/sst/generar-documentos/999"))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["success"] != false {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("storage unavailable", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{genErr: common.ErrUpstreamUnavailable})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, sstRequest(t, http.MethodPost, "/api/sst/generar-documentos/42"))

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, sstRequest(t, http.MethodPost, "/api/sst/generar-documentos/abc"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleDescargarSolicitud(t *testing.T) {
	t.Run("browser gets a redirect", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{dlURL: "https://signed.example/doc.zip"})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, sstRequest(t, http.MethodGet, "/descargar-solicitud/42"))

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://signed.example/doc.zip" {
			t.Fatalf("expected 302 to the signed URL, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("never generated", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{dlErr: common.ErrorNotFound})
		h := s.Handler()

		req := sstRequest(t, http.MethodGet, "/descargar-solicitud/42")
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleVerPolitica(t *testing.T) {
	adminCookie := func(t *testing.T, req *http.Request) *http.Request {
		req.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: issueToken(t, models.RoleAdmin, time.Hour)})
		return req
	}

	t.Run("redirects to signed url", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{policyURL: "https://signed.example/pol.html"})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, adminCookie(t, httptest.NewRequest(http.MethodGet, "/ver-politica/u7", nil)))

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://signed.example/pol.html" {
			t.Fatalf("expected 302 to the signed URL, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("no stored document", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{policyErr: common.ErrorNotFound})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, adminCookie(t, httptest.NewRequest(http.MethodGet, "/ver-politica/u7", nil)))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Documento no encontrado") {
			t.Fatalf("unexpected body: %q", rec.Body.String())
		}
	})

	t.Run("non-admin is turned away", func(t *testing.T) {
		s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{policyURL: "https://signed.example/pol.html"})
		h := s.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, sstRequest(t, http.MethodGet, "/ver-politica/u7"))

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/sst" {
			t.Fatalf("expected 302 to /sst, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})
}

func TestHandleAceptarPolitica(t *testing.T) {
	s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{acceptURL: "https://signed.example/const.html"})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, sstRequest(t, http.MethodPost, "/api/aceptar-politica"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["url"] != "https://signed.example/const.html" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeUserSvc{}, &fakeDocSvc{})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gestion-contratistas/portal/internal/server/models"
)

// Home views per role. Browser-facing denials and post-login redirects land
// on the caller's own view, never on the protected resource.
var roleHome = map[string]string{
	models.RoleAdmin:        "/admin",
	models.RoleContratista:  "/contratista",
	models.RoleSst:          "/sst",
	models.RoleInterventor:  "/interventor",
	models.RoleSeguridad:    "/seguridad",
	models.RoleCapacitacion: "/capacitacion",
}

func homeFor(role string) string {
	if home, ok := roleHome[role]; ok {
		return home
	}
	return "/login"
}

// wantsJSON reports whether the client expects a JSON body rather than a
// redirect. API routes and explicit Accept headers count as JSON clients.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, url, message string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"url":     url,
		"message": message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

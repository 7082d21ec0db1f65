// Package respond centraliza la escritura de respuestas JSON.
// Antes writeJSON vivía duplicado en cada handler; con más de tres módulos ya valía extraerlo.
package respond

import (
	"encoding/json"
	"net/http"
	"time"

	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrorBody es el formato único de error de la API.
type ErrorBody struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

var log = logger.NewFromEnv()

// SetLogger reemplaza el logger usado para errores internos.
func SetLogger(l logger.Logger) {
	if l != nil {
		log = l
	}
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Text(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error traduce err a status + ErrorBody. Los internos se loguean y no filtran detalle.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()

	if kind == apperr.KindInternal {
		log.Error("request failed", map[string]any{
			"request_id": chimw.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"error":      err,
		})
	}

	JSON(w, status, ErrorBody{
		Status:    status,
		Message:   apperr.PublicMessage(err),
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
	})
}

// DecodeJSON lee el body en v; cualquier fallo es un error de validación.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return apperr.Validation("request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid json")
	}
	return nil
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/respond"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover reemplaza a chimw.Recoverer para responder con el ErrorBody de la API.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered", map[string]any{
					"request_id": chimw.GetReqID(r.Context()),
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})
				respond.Error(w, r, apperr.Internal(fmt.Errorf("panic: %v", rec), "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package notifications

import (
	"net/http"
	"time"

	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/mine", mineHandler(svc))
		nr.Get("/{id}", getHandler(svc))
	})
}

type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// mineHandler godoc
// @Summary Mis notificaciones
// @Tags notifications
// @Produce json
// @Success 200 {array} notificationResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /api/notifications/mine [get]
func mineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Mine(r.Context(), middleware.Actor(r.Context()))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toResponse(n))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(n))
	}
}

func toResponse(n Notification) notificationResponse {
	return notificationResponse{ID: n.ID, UserID: n.UserID, Content: n.Content, CreatedAt: n.CreatedAt}
}

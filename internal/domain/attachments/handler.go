package attachments

import (
	"net/http"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"
	"vetcare-api/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

const maxAttachmentBytes = 20 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	staff := middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet)

	r.Route("/diagnostic-attachment", func(ar chi.Router) {
		ar.Get("/all-by-anamnesis/{id}", listHandler(svc))
		ar.Get("/url/{id}", urlHandler(svc))
		ar.Get("/{id}", getHandler(svc))
		ar.With(staff).Post("/new", uploadHandler(svc))
		ar.With(staff).Delete("/{id}", deleteHandler(svc))
	})
}

type attachmentResponse struct {
	ID             string    `json:"id"`
	AnamnesisID    string    `json:"anamnesis"`
	FileName       string    `json:"fileName"`
	FileType       string    `json:"fileType"`
	FileURL        string    `json:"fileUrl"`
	Recommendation string    `json:"recommendation"`
	UploadDate     time.Time `json:"uploadDate"`
}

// uploadHandler godoc
// @Summary Subir adjunto de diagnóstico
// @Tags diagnostic-attachment
// @Accept multipart/form-data
// @Produce json
// @Param anamnesis formData string true "anamnesis id"
// @Param recommendation formData string false "recomendación"
// @Param file formData file true "archivo"
// @Success 201 {object} attachmentResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Failure 500 {object} respond.ErrorBody
// @Router /api/diagnostic-attachment/new [post]
func uploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, closeFn, err := respond.FormFile(r, "file", maxAttachmentBytes)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		defer closeFn()

		a, err := svc.Save(r.Context(), middleware.Actor(r.Context()),
			r.FormValue("anamnesis"), r.FormValue("recommendation"),
			storage.Object{
				Name:        up.Filename,
				ContentType: up.ContentType,
				Size:        up.Size,
				Body:        up.Body,
			})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(a))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(a))
	}
}

func urlHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := svc.URL(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByAnamnesis(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]attachmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func toResponse(a Attachment) attachmentResponse {
	return attachmentResponse{
		ID:             a.ID,
		AnamnesisID:    a.AnamnesisID,
		FileName:       a.FileName,
		FileType:       a.ContentType,
		FileURL:        a.FileURL,
		Recommendation: a.Recommendation,
		UploadDate:     a.UploadedAt,
	}
}

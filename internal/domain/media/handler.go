package media

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/storage"
	"github.com/spotnsend/spotnsend-api/internal/pkg/validator"
)

const presignTTL = 15 * time.Minute

// PresignRequest asks for an upload slot in object storage
type PresignRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
}

// PresignResponse carries the upload URL and the public URL to reference in
// a report's media list afterwards
type PresignResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

// Handler issues presigned upload URLs. The API never proxies file bytes;
// clients upload straight to object storage.
type Handler struct {
	storage *storage.S3Storage
}

// NewHandler creates media handler
func NewHandler(s3 *storage.S3Storage) *Handler {
	return &Handler{storage: s3}
}

// Presign handles POST /media/presign
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	var req PresignRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}
	if !strings.HasPrefix(req.ContentType, "image/") && !strings.HasPrefix(req.ContentType, "video/") {
		response.BadRequest(w, "Unsupported content type")
		return
	}

	userID := middleware.GetUserID(r.Context())
	key := fmt.Sprintf("reports/%s/%s%s",
		userID, uuid.New(), strings.ToLower(path.Ext(req.FileName)))

	uploadURL, err := h.storage.PresignPut(r.Context(), key, req.ContentType, presignTTL)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, &PresignResponse{
		UploadURL: uploadURL,
		PublicURL: h.storage.PublicURL(key),
		Key:       key,
		ExpiresIn: int(presignTTL.Seconds()),
	})
}

// Routes returns media router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/presign", h.Presign)
	return r
}

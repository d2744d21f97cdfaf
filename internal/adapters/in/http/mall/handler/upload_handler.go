package mallHandler

import (
	"context"
	"io"
	"log"
	"net/http"

	"caterhub/internal/adapters/in/http/middleware"
	"caterhub/internal/adapters/out/cloudinary"
	usecase "caterhub/internal/application/usecase"
)

// ImageUploader is the outbound port for product image storage.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, content io.Reader) (cloudinary.UploadResult, error)
}

// UploadHandler serves POST /mall/seller/uploads: multipart image upload for
// product media (seller or admin).
type UploadHandler struct {
	uploader ImageUploader
	roles    roleResolver
}

func NewUploadHandler(uploader ImageUploader, users *usecase.UserUsecase) http.Handler {
	return &UploadHandler{uploader: uploader, roles: roleResolver{users: users}}
}

const maxUploadBytes = 10 << 20 // 10MB

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeErr(w, http.StatusInternalServerError, "upload handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, err := h.roles.resolve(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	if role != "seller" && role != "admin" {
		writeErr(w, http.StatusForbidden, "seller role required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.uploader.Upload(r.Context(), hdr.Filename, file)
	if err != nil {
		log.Printf("[mall_upload] upload failed uid=%s err=%v", uid, err)
		writeErr(w, http.StatusBadGateway, "image upload failed")
		return
	}

	log.Printf("[mall_upload] upload ok uid=%s publicId=%s", uid, res.PublicID)
	writeJSON(w, http.StatusCreated, res)
}

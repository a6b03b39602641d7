package wire

import (
	"order-upload/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUpload(r chi.Router, uploadHandler *adaptor.UploadHandler) {
	r.Post("/api/upload/{orderNumber}", uploadHandler.Upload)
}

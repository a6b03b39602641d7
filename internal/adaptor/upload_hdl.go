package adaptor

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"order-upload/internal/dto/request"
	"order-upload/internal/usecase"
	"order-upload/pkg/utils"

	"go.uber.org/zap"
)

const (
	multipartMemory = 32 << 20
	formOverhead    = 1 << 20
)

type UploadHandler struct {
	service usecase.UploadService
	maxBody int64
	log     *zap.Logger
}

func NewUploadHandler(service usecase.UploadService, limits utils.UploadConfig, log *zap.Logger) *UploadHandler {
	maxVideo, maxImage := limits.MaxVideoBytes, limits.MaxImageBytes
	if maxVideo <= 0 {
		maxVideo = utils.DefaultMaxVideoBytes
	}
	if maxImage <= 0 {
		maxImage = utils.DefaultMaxImageBytes
	}
	return &UploadHandler{
		service: service,
		maxBody: maxVideo + maxImage + formOverhead,
		log:     log.With(zap.String("handler", "upload")),
	}
}

// Upload handles POST /api/upload/{orderNumber}
// multipart fields: video, image, songRequest
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	orderNumber, ok := orderNumberParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseBadRequest(w, fmt.Sprintf("Upload exceeds %d MiB", h.maxBody/utils.MiB), nil)
			return
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	video, closeVideo, err := formFile(r, "video")
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid video file", nil)
		return
	}
	defer closeVideo()

	image, closeImage, err := formFile(r, "image")
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid image file", nil)
		return
	}
	defer closeImage()

	order, err := h.service.Upload(r.Context(), &request.UploadRequest{
		OrderNumber: orderNumber,
		Video:       video,
		Image:       image,
		SongRequest: r.FormValue("songRequest"),
	})
	if err != nil {
		handleServiceError(w, h.log, err, "upload")
		return
	}

	utils.ResponseSuccess(w, "Files uploaded successfully", order)
}

// formFile returns nil for a missing part so the service reports which
// field is required.
func formFile(r *http.Request, field string) (*request.UploadFile, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &request.UploadFile{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	}, func() { closeQuietly(file) }, nil
}

func closeQuietly(f multipart.File) {
	_ = f.Close()
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"order-upload/internal/data/entity"
	"order-upload/internal/dto/request"
	"order-upload/internal/dto/response"
	"order-upload/pkg/metrics"
	"order-upload/pkg/storage"
	"order-upload/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	kindVideo = "video"
	kindImage = "image"

	defaultSongRequestLen = 500
	fallbackExtension     = "bin"
	maxExtensionLen       = 10
)

type UploadService interface {
	Upload(ctx context.Context, req *request.UploadRequest) (*response.OrderResponse, error)
}

type uploadService struct {
	orders OrderService
	store  storage.ObjectStore
	limits utils.UploadConfig
	log    *zap.Logger
}

func NewUploadService(orders OrderService, store storage.ObjectStore, limits utils.UploadConfig, log *zap.Logger) UploadService {
	if limits.MaxVideoBytes <= 0 {
		limits.MaxVideoBytes = utils.DefaultMaxVideoBytes
	}
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = utils.DefaultMaxImageBytes
	}
	if limits.MaxSongRequestLen <= 0 {
		limits.MaxSongRequestLen = defaultSongRequestLen
	}
	return &uploadService{
		orders: orders,
		store:  store,
		limits: limits,
		log:    log.With(zap.String("service", "upload")),
	}
}

// Upload stores the customer's video and image, then flips the order to
// uploaded. A storage failure leaves the order pending so the customer can
// resubmit. Each attempt writes under its own prefix, so an attempt that
// loses the race never touches the objects the winner committed.
func (s *uploadService) Upload(ctx context.Context, req *request.UploadRequest) (resp *response.OrderResponse, err error) {
	defer func() {
		metrics.UploadsTotal.WithLabelValues(uploadResult(err)).Inc()
	}()

	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	req.SongRequest = strings.TrimSpace(req.SongRequest)
	if req.OrderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrValidation)
	}

	order, err := s.orders.GetOrder(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order.HasUploaded {
		return nil, fmt.Errorf("%w: files for order %s were already uploaded", ErrConflict, order.OrderNumber)
	}

	if err := s.validate(req); err != nil {
		s.log.Warn("Upload rejected", zap.String("order_number", req.OrderNumber), zap.Error(err))
		return nil, err
	}

	attempt := utils.GenerateUploadID()

	videoKey := objectKey(order.OrderNumber, attempt, kindVideo, req.Video.Filename)
	videoURL, err := s.put(ctx, videoKey, kindVideo, req.Video)
	if err != nil {
		return nil, err
	}

	imageKey := objectKey(order.OrderNumber, attempt, kindImage, req.Image.Filename)
	imageURL, err := s.put(ctx, imageKey, kindImage, req.Image)
	if err != nil {
		s.discard(ctx, videoKey)
		return nil, err
	}

	resp, err = s.orders.UpdateOrder(ctx, order.OrderNumber, entity.OrderUpload{
		VideoURL:    videoURL,
		ImageURL:    imageURL,
		SongRequest: req.SongRequest,
	})
	if err != nil {
		s.discard(ctx, videoKey, imageKey)
		return nil, err
	}

	s.log.Info("Upload stored",
		zap.String("order_number", order.OrderNumber),
		zap.String("attempt", attempt),
		zap.Int64("video_bytes", req.Video.Size),
		zap.Int64("image_bytes", req.Image.Size))

	return resp, nil
}

// validate checks the files and song request. The order number is already
// trimmed and resolved by the caller.
func (s *uploadService) validate(req *request.UploadRequest) error {
	switch {
	case req.Video == nil:
		return fmt.Errorf("%w: video file is required", ErrValidation)
	case req.Image == nil:
		return fmt.Errorf("%w: image file is required", ErrValidation)
	case req.SongRequest == "":
		return fmt.Errorf("%w: song request is required", ErrValidation)
	case utf8.RuneCountInString(req.SongRequest) > s.limits.MaxSongRequestLen:
		return fmt.Errorf("%w: song request must be at most %d characters", ErrValidation, s.limits.MaxSongRequestLen)
	}

	if err := checkSize(kindVideo, req.Video, s.limits.MaxVideoBytes); err != nil {
		return err
	}
	return checkSize(kindImage, req.Image, s.limits.MaxImageBytes)
}

// discard removes objects written by a failed attempt. It outlives a
// cancelled request context so a disconnecting client leaves no orphans.
func (s *uploadService) discard(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("Failed to remove orphaned object", zap.Error(err), zap.String("key", key))
		}
	}
}

func (s *uploadService) put(ctx context.Context, key, kind string, file *request.UploadFile) (string, error) {
	contentType := sniffContentType(file.Body)

	url, err := s.store.Put(ctx, key, file.Body, file.Size, contentType)
	if err != nil {
		s.log.Error("Failed to store file",
			zap.Error(err),
			zap.String("key", key),
			zap.String("kind", kind))
		return "", fmt.Errorf("%w: store %s: %v", ErrStorage, kind, err)
	}

	metrics.UploadBytes.WithLabelValues(kind).Add(float64(file.Size))
	return url, nil
}

func checkSize(kind string, file *request.UploadFile, limit int64) error {
	if file.Size <= 0 {
		return fmt.Errorf("%w: %s file is empty", ErrValidation, kind)
	}
	if file.Size > limit {
		return fmt.Errorf("%w: %s file exceeds %d MiB", ErrValidation, kind, limit/utils.MiB)
	}
	return nil
}

// objectKey derives orders/<orderNumber>/<attempt>/<kind>.<ext> from the
// original filename.
func objectKey(orderNumber, attempt, kind, filename string) string {
	return fmt.Sprintf("orders/%s/%s/%s.%s", orderNumber, attempt, kind, extension(filename))
}

func extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || len(ext) > maxExtensionLen {
		return fallbackExtension
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fallbackExtension
		}
	}
	return ext
}

// sniffContentType reads the file header and rewinds the body.
func sniffContentType(body io.ReadSeeker) string {
	mtype, err := mimetype.DetectReader(body)
	if _, seekErr := body.Seek(0, io.SeekStart); seekErr != nil || err != nil {
		return "application/octet-stream"
	}
	return mtype.String()
}

func uploadResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}

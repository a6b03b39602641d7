package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"order-upload/internal/data/entity"
	"order-upload/internal/dto/request"
	"order-upload/internal/dto/response"
	"order-upload/internal/usecase"
	"order-upload/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubOrderService struct {
	err      error
	gotOrder string
	search   string
}

func (s *stubOrderService) CreateOrder(_ context.Context, req *request.OrderNumberRequest) (*response.OrderResponse, error) {
	s.gotOrder = req.OrderNumber
	if s.err != nil {
		return nil, s.err
	}
	return &response.OrderResponse{ID: 1, OrderNumber: req.OrderNumber, State: entity.OrderStatusPending}, nil
}

func (s *stubOrderService) GetOrder(_ context.Context, n string) (*response.OrderResponse, error) {
	return &response.OrderResponse{OrderNumber: n}, s.err
}

func (s *stubOrderService) VerifyOrder(_ context.Context, req *request.OrderNumberRequest) (*response.OrderResponse, error) {
	s.gotOrder = req.OrderNumber
	if s.err != nil {
		return nil, s.err
	}
	return &response.OrderResponse{OrderNumber: req.OrderNumber}, nil
}

func (s *stubOrderService) ListOrders(_ context.Context, search string) ([]*response.OrderResponse, error) {
	s.search = search
	if s.err != nil {
		return nil, s.err
	}
	return []*response.OrderResponse{}, nil
}

func (s *stubOrderService) UpdateOrder(context.Context, string, entity.OrderUpload) (*response.OrderResponse, error) {
	return nil, s.err
}

func (s *stubOrderService) DeleteOrder(_ context.Context, n string) error {
	s.gotOrder = n
	return s.err
}

type stubUploadService struct {
	err         error
	orderNumber string
	video       []byte
	videoName   string
	image       []byte
	song        string
	hadVideo    bool
}

func (s *stubUploadService) Upload(_ context.Context, req *request.UploadRequest) (*response.OrderResponse, error) {
	s.orderNumber = req.OrderNumber
	s.song = req.SongRequest
	if req.Video != nil {
		s.hadVideo = true
		s.videoName = req.Video.Filename
		s.video, _ = io.ReadAll(req.Video.Body)
	}
	if req.Image != nil {
		s.image, _ = io.ReadAll(req.Image.Body)
	}
	if s.err != nil {
		return nil, s.err
	}
	song := req.SongRequest
	return &response.OrderResponse{OrderNumber: req.OrderNumber, HasUploaded: true, SongRequest: &song}, nil
}

type stubAuthService struct {
	err    error
	logout string
}

func (s *stubAuthService) Register(_ context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.AuthResponse{
		User:      response.UserResponse{ID: 5, Username: req.Username},
		Token:     "11111111-1111-1111-1111-111111111111",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	return s.Register(ctx, &request.RegisterRequest{Username: req.Username})
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.logout = token
	return s.err
}

func (s *stubAuthService) CurrentUser(_ context.Context, id int64) (*response.UserResponse, error) {
	return &response.UserResponse{ID: id, Username: "shop", IsSeller: true}, s.err
}

func (s *stubAuthService) Authenticate(context.Context, string) (*utils.Principal, error) {
	return nil, usecase.ErrUnauthorized
}

func (s *stubAuthService) CreateSeller(context.Context, *request.RegisterRequest) (*response.UserResponse, error) {
	return nil, s.err
}

func (s *stubAuthService) CleanExpiredSessions(context.Context) error { return nil }

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", usecase.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: dup", usecase.ErrConflict), http.StatusBadRequest},
		{fmt.Errorf("%w: A1", usecase.ErrNotFound), http.StatusNotFound},
		{usecase.ErrForbidden, http.StatusForbidden},
		{usecase.ErrUnauthorized, http.StatusUnauthorized},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: s3 down", usecase.ErrStorage), http.StatusInternalServerError},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, false, decode(t, rec)["status"])
		})
	}
}

func TestOrderHandlers(t *testing.T) {
	svc := &stubOrderService{}
	h := NewOrderHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.CreateOrder(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"orderNumber":"A100"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "A100", data["orderNumber"])
	assert.Nil(t, data["videoUrl"])
	assert.Contains(t, data, "videoUrl")

	rec = httptest.NewRecorder()
	h.CreateOrder(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ListOrders(rec, httptest.NewRequest(http.MethodGet, "/api/orders?search=a1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1", svc.search)
	assert.Equal(t, []any{}, decode(t, rec)["data"])

	rec = httptest.NewRecorder()
	h.VerifyOrder(rec, httptest.NewRequest(http.MethodPost, "/api/verify-order", strings.NewReader(`{"orderNumber":"A100"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.err = fmt.Errorf("%w: cannot delete", usecase.ErrConflict)
	r := chi.NewRouter()
	r.Delete("/api/orders/{orderNumber}", h.DeleteOrder)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/A%23100", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A#100", svc.gotOrder)
}

func TestOrderNumberParamDecodesOnce(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/orders/A100", "A100"},
		{"/api/orders/A%2541", "A%41"},
		{"/api/orders/%25", "%"},
		{"/api/orders/B%231", "B#1"},
		{"/api/orders/Q%3F1", "Q?1"},
		{"/api/orders/A%2F1", "A/1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			svc := &stubOrderService{}
			r := chi.NewRouter()
			r.Delete("/api/orders/{orderNumber}", NewOrderHandler(svc, zap.NewNop()).DeleteOrder)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, svc.gotOrder)
		})
	}
}

func TestUploadHandlerPercentOrderNumber(t *testing.T) {
	svc := &stubUploadService{}
	h := NewUploadHandler(svc, utils.UploadConfig{}, zap.NewNop())

	body, contentType := multipartBody(t,
		map[string]string{"songRequest": "song"},
		map[string][]byte{"video": []byte("v"), "image": []byte("i")},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/A%2541", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	uploadRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A%41", svc.orderNumber)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRouter(h *UploadHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/upload/{orderNumber}", h.Upload)
	return r
}

func TestUploadHandlerParsesMultipart(t *testing.T) {
	svc := &stubUploadService{}
	h := NewUploadHandler(svc, utils.UploadConfig{}, zap.NewNop())

	body, contentType := multipartBody(t,
		map[string]string{"songRequest": "Happy Birthday"},
		map[string][]byte{"video": []byte("video-bytes"), "image": []byte("image-bytes")},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/A100", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	uploadRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A100", svc.orderNumber)
	assert.Equal(t, "Happy Birthday", svc.song)
	assert.Equal(t, "video.bin", svc.videoName)
	assert.Equal(t, []byte("video-bytes"), svc.video)
	assert.Equal(t, []byte("image-bytes"), svc.image)
	assert.Equal(t, true, decode(t, rec)["data"].(map[string]any)["hasUploaded"])
}

func TestUploadHandlerMissingFilePassesNil(t *testing.T) {
	svc := &stubUploadService{err: fmt.Errorf("%w: video file is required", usecase.ErrValidation)}
	h := NewUploadHandler(svc, utils.UploadConfig{}, zap.NewNop())

	body, contentType := multipartBody(t,
		map[string]string{"songRequest": "x"},
		map[string][]byte{"image": []byte("img")},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/A100", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	uploadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, svc.hadVideo)
}

func TestUploadHandlerRejectsOversizedBody(t *testing.T) {
	svc := &stubUploadService{}
	h := NewUploadHandler(svc, utils.UploadConfig{MaxVideoBytes: 16, MaxImageBytes: 16}, zap.NewNop())

	body, contentType := multipartBody(t, nil, map[string][]byte{"video": make([]byte, 2*utils.MiB)})
	req := httptest.NewRequest(http.MethodPost, "/api/upload/A100", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	uploadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.orderNumber)
}

func TestUploadHandlerStorageFailure(t *testing.T) {
	svc := &stubUploadService{err: fmt.Errorf("%w: put video", usecase.ErrStorage)}
	h := NewUploadHandler(svc, utils.UploadConfig{}, zap.NewNop())

	body, contentType := multipartBody(t,
		map[string]string{"songRequest": "x"},
		map[string][]byte{"video": []byte("v"), "image": []byte("i")},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/A100", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	uploadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandlersSetAndClearCookie(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, utils.SessionConfig{CookieName: "sid"}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"shop","password":"secret123"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", cookies[0].Value)

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"username":"ab","password":"secret123"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req = req.WithContext(utils.SetTokenContext(req.Context(), "tok"))
	rec = httptest.NewRecorder()
	h.Logout(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", svc.logout)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	req = httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), utils.Principal{UserID: 9, IsSeller: true}))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["data"].(map[string]any)["isSeller"])
}

package request

import "io"

const MaxOrderNumberLen = 100

// OrderNumberRequest is the body of POST /api/orders and POST /api/verify-order.
type OrderNumberRequest struct {
	OrderNumber string `json:"orderNumber" validate:"required,max=100,orderno"`
}

// UploadFile is one multipart file part. Body must support seeking so the
// content type can be sniffed before the bytes are forwarded.
type UploadFile struct {
	Filename string
	Size     int64
	Body     io.ReadSeeker
}

// UploadRequest is the parsed multipart body of POST /api/upload/{orderNumber}.
type UploadRequest struct {
	OrderNumber string
	Video       *UploadFile
	Image       *UploadFile
	SongRequest string
}

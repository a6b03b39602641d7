package entity

// OrderStatus is derived from HasUploaded; it is never stored.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusUploaded OrderStatus = "uploaded"
)

// Order columns video_url, image_url and song_request are NULL until the
// single upload transition sets all three together. Empty strings here mean
// NULL in the table.
type Order struct {
	Base
	OrderNumber string `db:"order_number"`
	VideoURL    string `db:"video_url"`
	ImageURL    string `db:"image_url"`
	SongRequest string `db:"song_request"`
	HasUploaded bool   `db:"has_uploaded"`
}

func (o *Order) Status() OrderStatus {
	if o.HasUploaded {
		return OrderStatusUploaded
	}
	return OrderStatusPending
}

// OrderUpload carries the fields written by the pending -> uploaded transition.
type OrderUpload struct {
	VideoURL    string
	ImageURL    string
	SongRequest string
}

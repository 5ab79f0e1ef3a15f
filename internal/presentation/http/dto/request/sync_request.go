package request

import "time"

// SyncCustomerRequest is one offline-created customer in a push batch
type SyncCustomerRequest struct {
	LocalID   string   `json:"local_id" binding:"required"`
	Token     string   `json:"token"`
	Name      string   `json:"name" binding:"required"`
	Phone     *string  `json:"phone"`
	Address   *string  `json:"address"`
	Channel   *string  `json:"channel"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// SyncVisitRequest is one offline-recorded visit in a push batch
type SyncVisitRequest struct {
	LocalID     string     `json:"local_id" binding:"required"`
	Token       string     `json:"token"`
	CustomerRef string     `json:"customer_ref" binding:"required"`
	CheckInAt   time.Time  `json:"check_in_at" binding:"required"`
	CheckInLat  float64    `json:"check_in_lat"`
	CheckInLng  float64    `json:"check_in_lng"`
	CheckOutAt  *time.Time `json:"check_out_at"`
	CheckOutLat *float64   `json:"check_out_lat"`
	CheckOutLng *float64   `json:"check_out_lng"`
	Notes       *string    `json:"notes"`
}

// SyncInvoiceRequest is one offline-posted invoice in a push batch
type SyncInvoiceRequest struct {
	LocalID     string               `json:"local_id" binding:"required"`
	Token       string               `json:"token"`
	CustomerRef string               `json:"customer_ref" binding:"required"`
	InvoiceDate string               `json:"invoice_date"`
	IsCredit    bool                 `json:"is_credit"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SyncPushRequest represents one push batch
type SyncPushRequest struct {
	Customers []SyncCustomerRequest `json:"customers" binding:"dive"`
	Visits    []SyncVisitRequest    `json:"visits" binding:"dive"`
	Invoices  []SyncInvoiceRequest  `json:"invoices" binding:"dive"`
}

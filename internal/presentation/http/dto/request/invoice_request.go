package request

// InvoiceLineRequest is one requested invoice line
type InvoiceLineRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required"` // pieces
}

// CreateInvoiceRequest represents a create invoice request. Totals are not
// accepted from the client; the server derives them.
type CreateInvoiceRequest struct {
	CustomerID  string               `json:"customer_id" binding:"required,uuid"`
	InvoiceDate string               `json:"invoice_date"` // YYYY-MM-DD, empty = today
	IsCredit    bool                 `json:"is_credit"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

package request

// ReceiptLineRequest is one arriving batch on a stock receipt
type ReceiptLineRequest struct {
	ProductID  string `json:"product_id" binding:"required,uuid"`
	BatchNo    string `json:"batch_no" binding:"required"`
	ExpiryDate string `json:"expiry_date" binding:"required"` // YYYY-MM-DD
	Quantity   int    `json:"quantity" binding:"required"`
	UnitCost   string `json:"unit_cost"`
}

// CreateReceiptRequest represents a create stock receipt request
type CreateReceiptRequest struct {
	SupplierName *string              `json:"supplier_name"`
	ReceiptDate  string               `json:"receipt_date" binding:"required"` // YYYY-MM-DD
	Lines        []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

package request

// CreateTenantRequest represents a create tenant request
type CreateTenantRequest struct {
	Code string  `json:"code" binding:"required,min=2,max=50"`
	Name string  `json:"name" binding:"required,min=2,max=255"`
	City *string `json:"city"`
}

// SchemeRequest represents a create discount scheme request
type SchemeRequest struct {
	TenantID      *string `json:"tenant_id"` // nil = global
	ProductID     *string `json:"product_id"`
	BrandID       *string `json:"brand_id"`
	Name          string  `json:"name" binding:"required"`
	StartDate     string  `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate       string  `json:"end_date" binding:"required"`
	FromQty       int     `json:"from_qty" binding:"required"`
	ToQty         *int    `json:"to_qty"`
	PayoutType    int     `json:"payout_type"`
	AmountLess    string  `json:"amount_less"`
	FreeProductID *string `json:"free_product_id"`
	FreeQty       int     `json:"free_qty"`
}

package request

// CreateCustomerRequest represents a create customer request
type CreateCustomerRequest struct {
	Name      string   `json:"name" binding:"required,min=2,max=255"`
	Phone     *string  `json:"phone"`
	Address   *string  `json:"address"`
	Channel   *string  `json:"channel"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

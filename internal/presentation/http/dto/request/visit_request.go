package request

// CheckInRequest represents a visit check-in request
type CheckInRequest struct {
	CustomerID string  `json:"customer_id" binding:"required,uuid"`
	Latitude   float64 `json:"latitude" binding:"required"`
	Longitude  float64 `json:"longitude" binding:"required"`
}

// CheckOutRequest represents a visit check-out request
type CheckOutRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Notes     *string `json:"notes"`
}

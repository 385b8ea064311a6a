package orders

// OrderResponse represents an order response
type OrderResponse struct {
	OrderID string
	Status  string
	PnL     float64
}

// Placeholder file to satisfy imports


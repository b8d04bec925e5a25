package dto

// CreateCheckoutRequest POST /api/paddle/create-checkout.
type CreateCheckoutRequest struct {
	UserID    string `json:"userId"`
	PackageID string `json:"packageId"`
}

// CreateCheckoutResponse id de la transacción creada en Paddle.
type CreateCheckoutResponse struct {
	TransactionID string `json:"transactionId"`
}

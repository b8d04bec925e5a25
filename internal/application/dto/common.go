package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OKResponse confirmación simple ({ok:true}) usada por el dashboard.
type OKResponse struct {
	OK bool `json:"ok"`
}

// SuccessResponse confirmación de borrado de categorías ({success:true}).
type SuccessResponse struct {
	Success bool `json:"success"`
}

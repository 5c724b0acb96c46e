package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"` // seconds
	SesionID    string         `json:"session_id"`
	Cajero      CajeroResponse `json:"cajero"`
}

// SesionResponse describes the caller's own session.
type SesionResponse struct {
	SesionID string          `json:"session_id"`
	CajeroID string          `json:"cashier_id"`
	Nombre   string          `json:"name"`
	Email    string          `json:"email"`
	LoginAt  time.Time       `json:"login_at"`
	Carrito  CarritoResponse `json:"cart"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserResponse usuario del directorio (cliente o proveedor). Los campos ausentes en la
// metadata se omiten, igual que los lee el dashboard.
type UserResponse struct {
	ID                     string                      `json:"id"`
	Email                  string                      `json:"email"`
	CreatedAt              time.Time                   `json:"created_at"`
	LastSignInAt           *time.Time                  `json:"last_sign_in_at,omitempty"`
	Phone                  string                      `json:"phone,omitempty"`
	FullName               string                      `json:"full_name,omitempty"`
	AvatarURL              string                      `json:"avatar_url,omitempty"`
	Role                   string                      `json:"role"`
	Status                 string                      `json:"status"`
	Credits                *int64                      `json:"credits,omitempty"`
	Latitude               *float64                    `json:"latitude,omitempty"`
	Longitude              *float64                    `json:"longitude,omitempty"`
	Categories             []string                    `json:"categories,omitempty"`
	JobsQuoted             []JobRefResponse            `json:"jobsQuoted,omitempty"`
	ServiceArea            string                      `json:"serviceArea,omitempty"`
	BusinessName           string                      `json:"businessName,omitempty"`
	DocumentURL            string                      `json:"document_url,omitempty"`
	JobLeadsPaid           []JobRefResponse            `json:"jobLeadsPaid,omitempty"`
	BusinessPhone          string                      `json:"businessPhone,omitempty"`
	CreditHistory          []CreditHistoryItemResponse `json:"creditHistory,omitempty"`
	EmailVerified          *bool                       `json:"email_verified,omitempty"`
	PhoneVerified          *bool                       `json:"phone_verified,omitempty"`
	ConsentBackgroundCheck *bool                       `json:"consent_background_check,omitempty"`
	ConfirmedAt            *time.Time                  `json:"confirmed_at,omitempty"`
	BannedUntil            *time.Time                  `json:"banned_until,omitempty"`
}

// JobRefResponse elemento de jobLeadsPaid / jobsQuoted.
type JobRefResponse struct {
	JobID string `json:"jobId"`
}

// CreditHistoryItemResponse entrada de creditHistory con la forma de la metadata.
type CreditHistoryItemResponse struct {
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
	Description string    `json:"description"`
}

// IdentityResponse registro crudo de Supabase Auth para la vista de detalle.
type IdentityResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	ConfirmedAt  *time.Time     `json:"confirmed_at,omitempty"`
	BannedUntil  *time.Time     `json:"banned_until,omitempty"`
	Status       string         `json:"status"` // user_metadata.status normalizado (active por defecto)
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

// UserDetailResponse GET /api/users/:id.
type UserDetailResponse struct {
	User                IdentityResponse              `json:"user"`
	ReferralCodes       []ReferralCodeResponse        `json:"referral_codes"`
	SubscriptionHistory []SubscriptionHistoryResponse `json:"subscription_history"`
}

// ReferralCodeResponse fila de referral_codes.
type ReferralCodeResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	UserID    string     `json:"user_id"`
	Uses      int        `json:"uses"`
	MaxUses   *int       `json:"max_uses"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// SubscriptionHistoryResponse fila de subscription_history.
type SubscriptionHistoryResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Plan      string              `json:"plan"`
	Status    string              `json:"status"`
	StartedAt time.Time           `json:"started_at"`
	EndedAt   *time.Time          `json:"ended_at"`
	Amount    decimal.NullDecimal `json:"amount"`
	Currency  string              `json:"currency,omitempty"`
}

// UpdateStatusRequest PATCH /api/users/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

package dto

import "time"

// JobResponse trabajo con los nombres de columna de la tabla jobs.
type JobResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	Category           string          `json:"category"`
	Location           string          `json:"location"`
	Latitude           *float64        `json:"latitude,omitempty"`
	Longitude          *float64        `json:"longitude,omitempty"`
	PreferredDate      string          `json:"preferred_date,omitempty"`
	PreferredTime      string          `json:"preferred_time,omitempty"`
	Budget             *float64        `json:"budget,omitempty"`
	ProjectSize        string          `json:"project_size,omitempty"`
	Priority           string          `json:"priority,omitempty"`
	Images             []string        `json:"images,omitempty"`
	Status             string          `json:"status"`
	AssignedProviderID string          `json:"assigned_provider_id,omitempty"`
	JobCredits         int             `json:"job_credits"`
	CategoryNameEN     string          `json:"category_name_en,omitempty"`
	CategoryNameIT     string          `json:"category_name_it,omitempty"`
	JobStartedTime     *time.Time      `json:"job_started_time,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Quotes             []QuoteResponse `json:"quotes,omitempty"`
}

// QuoteResponse cotización normalizada a camelCase.
type QuoteResponse struct {
	ID                string    `json:"id"`
	JobID             string    `json:"jobId"`
	ServiceProviderID string    `json:"serviceProviderId"`
	ProviderName      string    `json:"providerName"`
	ProviderAvatar    string    `json:"providerAvatar,omitempty"`
	Description       string    `json:"description"`
	EstimatedDuration string    `json:"estimatedDuration,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	MinAmount         float64   `json:"minAmount"`
	MaxAmount         float64   `json:"maxAmount"`
}

// CustomerJobsResponse GET /api/users/:id/customer-jobs.
type CustomerJobsResponse struct {
	Open      []JobResponse `json:"open"`
	Active    []JobResponse `json:"active"`
	Completed []JobResponse `json:"completed"`
}

// ProviderJobsResponse GET /api/users/:id/provider-jobs. Cada elemento de Quotes es el
// trabajo con un único elemento en quotes (la cotización del proveedor).
type ProviderJobsResponse struct {
	Leads     []JobResponse `json:"leads"`
	Quotes    []JobResponse `json:"quotes"`
	Active    []JobResponse `json:"active"`
	Completed []JobResponse `json:"completed"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un trabajo (tabla jobs).
const (
	JobStatusDraft      = "draft"
	JobStatusOpen       = "open"
	JobStatusQuoted     = "quoted"
	JobStatusAccepted   = "accepted"
	JobStatusInProgress = "in_progress"
	JobStatusInReview   = "in_review"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// Buckets derivados (no se persisten).
const (
	BucketOpen      = "open"
	BucketActive    = "active"
	BucketCompleted = "completed"
)

var jobBuckets = map[string]string{
	JobStatusDraft:      BucketOpen,
	JobStatusOpen:       BucketOpen,
	JobStatusQuoted:     BucketOpen,
	JobStatusAccepted:   BucketActive,
	JobStatusInProgress: BucketActive,
	JobStatusInReview:   BucketActive,
	JobStatusCompleted:  BucketCompleted,
	JobStatusCancelled:  BucketCompleted,
}

// JobBucket devuelve el bucket de un estado; false si el estado no está definido.
func JobBucket(status string) (string, bool) {
	b, ok := jobBuckets[status]
	return b, ok
}

// Job solicitud de servicio publicada por un cliente.
type Job struct {
	ID                 string
	UserID             string
	Title              string
	Description        string
	Category           string
	Location           string
	Latitude           *float64
	Longitude          *float64
	PreferredDate      string
	PreferredTime      string
	Budget             decimal.NullDecimal
	ProjectSize        string
	Priority           string
	Images             []string
	Status             string
	AssignedProviderID string
	JobCredits         int
	CategoryNameEN     string
	CategoryNameIT     string
	JobStartedTime     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Estados de una cotización.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// Quote oferta de un proveedor sobre un Job.
type Quote struct {
	ID                string
	JobID             string
	ServiceProviderID string
	ProviderName      string
	ProviderAvatar    string
	Description       string
	EstimatedDuration string
	Status            string
	MinAmount         decimal.Decimal
	MaxAmount         decimal.Decimal
	CreatedAt         time.Time
	Job               *Job // trabajo padre (join), nil si no existe
}

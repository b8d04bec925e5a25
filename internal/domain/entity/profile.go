package entity

import (
	"encoding/json"
	"strconv"
	"time"
)

// Metadata bolsa clave-valor sin esquema (user_metadata / app_metadata).
type Metadata map[string]any

// Clone copia superficial; los escritores la usan para no perder claves ajenas al escribir.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String lee una clave string; cualquier otro tipo devuelve "".
func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Bool lee una clave booleana.
func (m Metadata) Bool(key string) *bool {
	b, ok := m[key].(bool)
	if !ok {
		return nil
	}
	return &b
}

// Int64 lee números que llegan como float64, json.Number o string numérico.
func (m Metadata) Int64(key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Float64 lee coordenadas y similares.
func (m Metadata) Float64(key string) *float64 {
	var f float64
	switch v := m[key].(type) {
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	return &f
}

// Profile es la vista tipada de user_metadata. Las formas desconocidas se ignoran
// (valor por defecto) en lugar de fallar.
type Profile struct {
	FullName               string
	AvatarURL              string
	Role                   string
	Status                 string
	Credits                int64
	HasCredits             bool
	Latitude               *float64
	Longitude              *float64
	Categories             []string
	JobsQuoted             []JobRef
	JobLeadsPaid           []JobRef
	ServiceArea            string
	BusinessName           string
	BusinessPhone          string
	DocumentURL            string
	ReferralCode           string
	ReferredBy             string
	CreditHistory          []CreditTransaction
	EmailVerified          *bool
	PhoneVerified          *bool
	ConsentBackgroundCheck *bool
}

// ParseProfile proyecta la metadata a Profile.
func ParseProfile(m Metadata) Profile {
	p := Profile{
		FullName:               m.String("full_name"),
		AvatarURL:              m.String("avatar_url"),
		Role:                   m.String("role"),
		Status:                 m.String("status"),
		Latitude:               m.Float64("latitude"),
		Longitude:              m.Float64("longitude"),
		Categories:             parseStrings(m["categories"]),
		JobsQuoted:             parseJobRefs(m["jobsQuoted"]),
		JobLeadsPaid:           parseJobRefs(m["jobLeadsPaid"]),
		ServiceArea:            m.String("serviceArea"),
		BusinessName:           m.String("businessName"),
		BusinessPhone:          m.String("businessPhone"),
		DocumentURL:            m.String("document_url"),
		ReferralCode:           m.String("referral_code"),
		ReferredBy:             m.String("referred_by"),
		CreditHistory:          ParseCreditHistory(m["creditHistory"]),
		EmailVerified:          m.Bool("email_verified"),
		PhoneVerified:          m.Bool("phone_verified"),
		ConsentBackgroundCheck: m.Bool("consent_background_check"),
	}
	if p.FullName == "" {
		p.FullName = m.String("name")
	}
	if n, ok := m.Int64("credits"); ok {
		p.Credits = n
		p.HasCredits = true
	}
	return p
}

// RawCreditHistory arreglo creditHistory tal como está en la metadata; nil si no es un arreglo.
// Las entradas se conservan sin tocar, incluidas las que ParseCreditEntry no reconoce.
func RawCreditHistory(m Metadata) []any {
	items, _ := m["creditHistory"].([]any)
	return items
}

// ParseCreditHistory interpreta el arreglo creditHistory de la metadata.
// Entradas sin tipo reconocido o con monto no positivo se descartan.
func ParseCreditHistory(raw any) []CreditTransaction {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]CreditTransaction, 0, len(items))
	for _, it := range items {
		if tx, ok := ParseCreditEntry(it); ok {
			out = append(out, tx)
		}
	}
	return out
}

// ParseCreditEntry interpreta una entrada de creditHistory. ok=false si el tipo no es add/deduct
// o el monto no es positivo.
func ParseCreditEntry(it any) (CreditTransaction, bool) {
	e, ok := it.(map[string]any)
	if !ok {
		return CreditTransaction{}, false
	}
	md := Metadata(e)
	amount, ok := md.Int64("amount")
	if !ok || amount <= 0 {
		return CreditTransaction{}, false
	}
	typ := md.String("type")
	if typ != CreditTypeAdd && typ != CreditTypeDeduct {
		return CreditTransaction{}, false
	}
	tx := CreditTransaction{
		Type:        typ,
		Amount:      amount,
		Description: md.String("description"),
		Source:      CreditSourceLegacy,
	}
	if ts, err := time.Parse(time.RFC3339Nano, md.String("createdAt")); err == nil {
		tx.CreatedAt = ts
	}
	return tx, true
}

func parseStrings(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func parseJobRefs(raw any) []JobRef {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]JobRef, 0, len(items))
	for _, it := range items {
		e, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := e["jobId"].(string); id != "" {
			out = append(out, JobRef{JobID: id})
		}
	}
	return out
}

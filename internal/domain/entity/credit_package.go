package entity

import "github.com/shopspring/decimal"

// CreditPackage paquete fijo de créditos vendido vía Paddle. Price en EUR.
type CreditPackage struct {
	ID        string
	Name      string
	Credits   int64
	Price     decimal.Decimal
	PerCredit decimal.Decimal
}

// CreditPackages catálogo canónico; el webhook solo confía en estos montos.
var CreditPackages = []CreditPackage{
	{ID: "starter", Name: "Starter", Credits: 25, Price: decimal.RequireFromString("35"), PerCredit: decimal.RequireFromString("1.4")},
	{ID: "small", Name: "Small", Credits: 60, Price: decimal.RequireFromString("72"), PerCredit: decimal.RequireFromString("1.2")},
	{ID: "medium", Name: "Medium (Best Value)", Credits: 150, Price: decimal.RequireFromString("157.5"), PerCredit: decimal.RequireFromString("1.05")},
	{ID: "pro", Name: "Pro", Credits: 350, Price: decimal.RequireFromString("332.5"), PerCredit: decimal.RequireFromString("0.95")},
	{ID: "business", Name: "Business", Credits: 900, Price: decimal.RequireFromString("765"), PerCredit: decimal.RequireFromString("0.85")},
}

// FindCreditPackage busca un paquete por id.
func FindCreditPackage(id string) (CreditPackage, bool) {
	for _, p := range CreditPackages {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPackage{}, false
}

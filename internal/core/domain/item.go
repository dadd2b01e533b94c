package domain

import "github.com/shopspring/decimal"

// Item is an inventory item or service offered/purchased by the business.
// The optional account references let the rule resolver post purchase lines to a
// per-item expense account instead of the ledger-wide default.
type Item struct {
	ItemID           string          `json:"itemID"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	ExpenseAccountID *string         `json:"expenseAccountID,omitempty"`
	RevenueAccountID *string         `json:"revenueAccountID,omitempty"`
	IsActive         bool            `json:"isActive"`
	AuditFields
}

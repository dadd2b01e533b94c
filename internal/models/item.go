package models

import "github.com/shopspring/decimal"

// Item is the items table row.
type Item struct {
	ItemID           string          `db:"item_id"`
	Name             string          `db:"name"`
	UnitPrice        decimal.Decimal `db:"unit_price"`
	ExpenseAccountID *string         `db:"expense_account_id"`
	RevenueAccountID *string         `db:"revenue_account_id"`
	IsActive         bool            `db:"is_active"`
	AuditFields
}

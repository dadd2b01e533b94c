package models

// Account is the accounts table row.
type Account struct {
	AccountID    string `db:"account_id"`
	Code         string `db:"code"`
	Name         string `db:"name"`
	AccountType  string `db:"account_type"`
	IsBank       bool   `db:"is_bank"`
	CurrencyCode string `db:"currency_code"`
	Description  string `db:"description"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// AccountMapping is the account_mappings table row, binding a posting role to an account.
type AccountMapping struct {
	Role      string `db:"role"`
	AccountID string `db:"account_id"`
	AuditFields
}

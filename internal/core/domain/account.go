package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide is the side on which an account type ordinarily increases.
type BalanceSide string

const (
	DebitNormal  BalanceSide = "DEBIT"
	CreditNormal BalanceSide = "CREDIT"
)

// NormalBalanceSide returns the normal balance side for an account type.
// ASSET/EXPENSE accounts are debit-normal; LIABILITY/EQUITY/REVENUE are credit-normal.
func (t AccountType) NormalBalanceSide() BalanceSide {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents an account in the chart of accounts.
// The posting engine treats accounts as read-only reference data.
type Account struct {
	AccountID    string      `json:"accountID"`    // Primary key (UUID)
	Code         string      `json:"code"`         // Unique, sortable account code (e.g. "1200")
	Name         string      `json:"name"`         // User-defined name
	AccountType  AccountType `json:"accountType"`  // ASSET, LIABILITY, etc.
	IsBank       bool        `json:"isBank"`       // Bank/cash accounts usable in payments and transfers
	CurrencyCode string      `json:"currencyCode"` // ISO currency code
	Description  string      `json:"description"`  // Nullable user description
	IsActive     bool        `json:"isActive"`     // Soft delete flag
	AuditFields
}

// AccountRole names a configurable posting role that the rule resolver maps to a
// concrete account (the "default receivable account" etc.).
type AccountRole string

const (
	RoleAccountsReceivable AccountRole = "ACCOUNTS_RECEIVABLE"
	RoleAccountsPayable    AccountRole = "ACCOUNTS_PAYABLE"
	RoleSalesRevenue       AccountRole = "SALES_REVENUE"
	RoleTaxPayable         AccountRole = "TAX_PAYABLE"
	RolePurchaseExpense    AccountRole = "PURCHASE_EXPENSE"
)

// AccountMapping binds a posting role to an account in the chart.
type AccountMapping struct {
	Role      AccountRole `json:"role"`
	AccountID string      `json:"accountID"`
	AuditFields
}

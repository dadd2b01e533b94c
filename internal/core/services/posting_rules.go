package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// Resolver failure modes. All wrap an apperrors sentinel so handlers can map them.
var (
	// ErrEmptyDocument is returned when a document has no lines or no positive amount to post.
	ErrEmptyDocument = fmt.Errorf("%w: document has no amount to post", apperrors.ErrValidation)
)

// ResolverInput carries the read-only reference data the posting rule resolver
// consumes: the configured role mappings, the chart-of-accounts lookup for every
// account the document can reference, and the items referenced by purchase lines.
type ResolverInput struct {
	Mappings map[domain.AccountRole]string
	Accounts map[string]domain.Account
	Items    map[string]domain.Item
}

// chartAccount verifies that the given account id exists in the chart lookup and is
// active. Every account the resolver emits passes through here.
func (in ResolverInput) chartAccount(accountID string) (string, error) {
	acc, ok := in.Accounts[accountID]
	if !ok {
		return "", fmt.Errorf("%w: account %s is not in the chart of accounts", apperrors.ErrUnmappedAccount, accountID)
	}
	if !acc.IsActive {
		return "", fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrValidation, acc.Code, acc.Name)
	}
	return acc.AccountID, nil
}

// roleAccount resolves a posting role to a configured, existing chart account.
func (in ResolverInput) roleAccount(role domain.AccountRole) (string, error) {
	accountID, ok := in.Mappings[role]
	if !ok {
		return "", fmt.Errorf("%w: no account configured for role %s", apperrors.ErrUnmappedAccount, role)
	}
	return in.chartAccount(accountID)
}

// bankAccount verifies that the given account is an active bank/cash account.
func (in ResolverInput) bankAccount(accountID string) (string, error) {
	id, err := in.chartAccount(accountID)
	if err != nil {
		return "", err
	}
	if !in.Accounts[id].IsBank {
		return "", fmt.Errorf("%w: account %s is not a bank or cash account", apperrors.ErrValidation, in.Accounts[id].Code)
	}
	return id, nil
}

// ResolveInvoiceLines computes the draft journal lines representing an invoice.
// Pure: no side effects, deterministic for identical input.
//
// SALE: debit receivable for the total; credit sales revenue for the net amount and
// one credit per tax code. PURCHASE: debit the expense account per line (the item's
// own expense account when configured, the default otherwise); credit payable for
// the total. Amounts are rounded half-to-even to the minor unit before line
// construction; any residual cent from the per-group rounding is absorbed into the
// last generated credit (sale) or debit (purchase) line, so the entry balances by
// construction.
func ResolveInvoiceLines(inv domain.Invoice, in ResolverInput) ([]domain.DraftLine, error) {
	if len(inv.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice %s has no lines", ErrEmptyDocument, inv.InvoiceNumber)
	}
	total := accounting.RoundMinor(inv.Total)
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: invoice %s total is %s", ErrEmptyDocument, inv.InvoiceNumber, total)
	}
	for _, l := range inv.Lines {
		if l.Subtotal.IsNegative() || l.TaxAmount.IsNegative() {
			return nil, fmt.Errorf("%w: invoice line amounts must not be negative", apperrors.ErrValidation)
		}
	}

	switch inv.InvoiceType {
	case domain.DocSaleInvoice:
		return resolveSale(inv, in, total)
	case domain.DocPurchaseInvoice:
		return resolvePurchase(inv, in, total)
	default:
		return nil, fmt.Errorf("%w: document type %s is not an invoice", apperrors.ErrValidation, inv.InvoiceType)
	}
}

func resolveSale(inv domain.Invoice, in ResolverInput, total decimal.Decimal) ([]domain.DraftLine, error) {
	receivableID, err := in.roleAccount(domain.RoleAccountsReceivable)
	if err != nil {
		return nil, err
	}
	revenueID, err := in.roleAccount(domain.RoleSalesRevenue)
	if err != nil {
		return nil, err
	}

	net := decimal.Zero
	taxByCode := map[string]decimal.Decimal{}
	taxOrder := []string{}
	for _, l := range inv.Lines {
		net = net.Add(accounting.RoundMinor(l.Subtotal))
		if l.TaxCode != nil && l.TaxAmount.IsPositive() {
			if _, seen := taxByCode[*l.TaxCode]; !seen {
				taxOrder = append(taxOrder, *l.TaxCode)
			}
			taxByCode[*l.TaxCode] = taxByCode[*l.TaxCode].Add(l.TaxAmount)
		}
	}

	credits := []domain.DraftLine{{AccountID: revenueID, Type: domain.Credit, Amount: net}}
	if len(taxOrder) > 0 {
		taxPayableID, err := in.roleAccount(domain.RoleTaxPayable)
		if err != nil {
			return nil, err
		}
		for _, code := range taxOrder {
			credits = append(credits, domain.DraftLine{
				AccountID: taxPayableID,
				Type:      domain.Credit,
				Amount:    accounting.RoundMinor(taxByCode[code]),
			})
		}
	}

	// Absorb any residual from independent rounding into the last credit line so
	// the sum of credits equals the debited total.
	creditSum := decimal.Zero
	for _, c := range credits {
		creditSum = creditSum.Add(c.Amount)
	}
	credits[len(credits)-1].Amount = credits[len(credits)-1].Amount.Add(total.Sub(creditSum))

	lines := []domain.DraftLine{{AccountID: receivableID, Type: domain.Debit, Amount: total}}
	return append(lines, credits...), nil
}

func resolvePurchase(inv domain.Invoice, in ResolverInput, total decimal.Decimal) ([]domain.DraftLine, error) {
	payableID, err := in.roleAccount(domain.RoleAccountsPayable)
	if err != nil {
		return nil, err
	}

	// Group debits by target expense account, keeping first-appearance order.
	debitByAccount := map[string]decimal.Decimal{}
	debitOrder := []string{}
	for _, l := range inv.Lines {
		accountID := ""
		if l.ItemID != nil {
			if item, ok := in.Items[*l.ItemID]; ok && item.ExpenseAccountID != nil {
				accountID = *item.ExpenseAccountID
			}
		}
		if accountID == "" {
			accountID, err = in.roleAccount(domain.RolePurchaseExpense)
			if err != nil {
				return nil, err
			}
		} else if accountID, err = in.chartAccount(accountID); err != nil {
			return nil, err
		}
		if _, seen := debitByAccount[accountID]; !seen {
			debitOrder = append(debitOrder, accountID)
		}
		lineAmount := accounting.RoundMinor(l.Subtotal.Add(l.TaxAmount))
		debitByAccount[accountID] = debitByAccount[accountID].Add(lineAmount)
	}

	debits := make([]domain.DraftLine, 0, len(debitOrder))
	debitSum := decimal.Zero
	for _, accountID := range debitOrder {
		debits = append(debits, domain.DraftLine{AccountID: accountID, Type: domain.Debit, Amount: debitByAccount[accountID]})
		debitSum = debitSum.Add(debitByAccount[accountID])
	}
	debits[len(debits)-1].Amount = debits[len(debits)-1].Amount.Add(total.Sub(debitSum))

	return append(debits, domain.DraftLine{AccountID: payableID, Type: domain.Credit, Amount: total}), nil
}

// ResolvePaymentLines computes the draft journal lines representing a payment,
// receipt or inter-account transfer. Pure, like ResolveInvoiceLines.
//
// PAYMENT: debit payable (or the direct counter account); credit the bank account.
// RECEIPT: debit the bank account; credit receivable (or the direct counter account).
// TRANSFER: debit the destination bank account; credit the source, equal amounts.
func ResolvePaymentLines(p domain.Payment, in ResolverInput) ([]domain.DraftLine, error) {
	amount := accounting.RoundMinor(p.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s amount is %s", ErrEmptyDocument, p.Kind, amount)
	}

	bankID, err := in.bankAccount(p.BankAccountID)
	if err != nil {
		return nil, err
	}

	switch p.Kind {
	case domain.DocPayment:
		counterID, err := in.counterOrRole(p.CounterAccountID, domain.RoleAccountsPayable)
		if err != nil {
			return nil, err
		}
		return []domain.DraftLine{
			{AccountID: counterID, Type: domain.Debit, Amount: amount},
			{AccountID: bankID, Type: domain.Credit, Amount: amount},
		}, nil

	case domain.DocReceipt:
		counterID, err := in.counterOrRole(p.CounterAccountID, domain.RoleAccountsReceivable)
		if err != nil {
			return nil, err
		}
		return []domain.DraftLine{
			{AccountID: bankID, Type: domain.Debit, Amount: amount},
			{AccountID: counterID, Type: domain.Credit, Amount: amount},
		}, nil

	case domain.DocTransfer:
		if p.CounterAccountID == nil {
			return nil, fmt.Errorf("%w: transfer requires a destination account", apperrors.ErrValidation)
		}
		destID, err := in.bankAccount(*p.CounterAccountID)
		if err != nil {
			return nil, err
		}
		if destID == bankID {
			return nil, fmt.Errorf("%w: transfer source and destination accounts must differ", apperrors.ErrValidation)
		}
		return []domain.DraftLine{
			{AccountID: destID, Type: domain.Debit, Amount: amount},
			{AccountID: bankID, Type: domain.Credit, Amount: amount},
		}, nil

	default:
		return nil, fmt.Errorf("%w: document type %s is not a payment", apperrors.ErrValidation, p.Kind)
	}
}

// counterOrRole resolves the partner-side account of a payment document: the
// explicit direct account when set, the configured role account otherwise.
func (in ResolverInput) counterOrRole(counterAccountID *string, role domain.AccountRole) (string, error) {
	if counterAccountID != nil {
		return in.chartAccount(*counterAccountID)
	}
	return in.roleAccount(role)
}

package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
)

// fixture ids shared by the resolver tests
type resolverFixture struct {
	receivableID string
	payableID    string
	revenueID    string
	taxID        string
	expenseID    string
	bankID       string
	bank2ID      string
	input        services.ResolverInput
}

func newResolverFixture() resolverFixture {
	f := resolverFixture{
		receivableID: uuid.NewString(),
		payableID:    uuid.NewString(),
		revenueID:    uuid.NewString(),
		taxID:        uuid.NewString(),
		expenseID:    uuid.NewString(),
		bankID:       uuid.NewString(),
		bank2ID:      uuid.NewString(),
	}
	f.input = services.ResolverInput{
		Mappings: map[domain.AccountRole]string{
			domain.RoleAccountsReceivable: f.receivableID,
			domain.RoleAccountsPayable:    f.payableID,
			domain.RoleSalesRevenue:       f.revenueID,
			domain.RoleTaxPayable:         f.taxID,
			domain.RolePurchaseExpense:    f.expenseID,
		},
		Accounts: map[string]domain.Account{
			f.receivableID: {AccountID: f.receivableID, Code: "1200", AccountType: domain.Asset, IsActive: true},
			f.payableID:    {AccountID: f.payableID, Code: "2100", AccountType: domain.Liability, IsActive: true},
			f.revenueID:    {AccountID: f.revenueID, Code: "4000", AccountType: domain.Revenue, IsActive: true},
			f.taxID:        {AccountID: f.taxID, Code: "2200", AccountType: domain.Liability, IsActive: true},
			f.expenseID:    {AccountID: f.expenseID, Code: "5000", AccountType: domain.Expense, IsActive: true},
			f.bankID:       {AccountID: f.bankID, Code: "1000", AccountType: domain.Asset, IsBank: true, IsActive: true},
			f.bank2ID:      {AccountID: f.bank2ID, Code: "1010", AccountType: domain.Asset, IsBank: true, IsActive: true},
		},
		Items: map[string]domain.Item{},
	}
	return f
}

func saleInvoice(lines []domain.InvoiceLine) domain.Invoice {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
		taxTotal = taxTotal.Add(l.TaxAmount)
	}
	return domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-001",
		InvoiceType:   domain.DocSaleInvoice,
		InvoiceDate:   time.Now(),
		Status:        domain.StatusDraft,
		CurrencyCode:  "EUR",
		Subtotal:      subtotal,
		TaxTotal:      taxTotal,
		Total:         subtotal.Add(taxTotal),
		Lines:         lines,
	}
}

// sumSides returns the debit and credit totals of the resolved lines.
func sumSides(lines []domain.DraftLine) (decimal.Decimal, decimal.Decimal) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		if l.Type == domain.Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

func TestResolveInvoiceLines_SimpleSale(t *testing.T) {
	f := newResolverFixture()
	taxCode := "VAT21"
	inv := saleInvoice([]domain.InvoiceLine{
		{Subtotal: decimal.NewFromInt(1000), TaxCode: &taxCode, TaxAmount: decimal.NewFromInt(210)},
	})

	lines, err := services.ResolveInvoiceLines(inv, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, f.receivableID, lines[0].AccountID)
	assert.Equal(t, domain.Debit, lines[0].Type)
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(1210)), "debit should be the gross total")

	assert.Equal(t, f.revenueID, lines[1].AccountID)
	assert.Equal(t, domain.Credit, lines[1].Type)
	assert.True(t, lines[1].Amount.Equal(decimal.NewFromInt(1000)))

	assert.Equal(t, f.taxID, lines[2].AccountID)
	assert.True(t, lines[2].Amount.Equal(decimal.NewFromInt(210)))

	debits, credits := sumSides(lines)
	assert.True(t, debits.Equal(credits), "resolved entry must balance")
}

func TestResolveInvoiceLines_SaleWithoutTax(t *testing.T) {
	f := newResolverFixture()
	inv := saleInvoice([]domain.InvoiceLine{
		{Subtotal: decimal.NewFromFloat(49.99)},
		{Subtotal: decimal.NewFromFloat(50.01)},
	})

	lines, err := services.ResolveInvoiceLines(inv, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, lines[1].Amount.Equal(decimal.NewFromInt(100)))
}

func TestResolveInvoiceLines_RoundingResidualAbsorbed(t *testing.T) {
	f := newResolverFixture()
	taxCode := "VAT19"
	// A total rounded independently from its parts leaves a one-cent residual that
	// the last credit line must absorb so the entry still balances.
	inv := saleInvoice([]domain.InvoiceLine{
		{Subtotal: decimal.NewFromFloat(10.004), TaxCode: &taxCode, TaxAmount: decimal.NewFromFloat(1.901)},
		{Subtotal: decimal.NewFromFloat(10.004), TaxCode: &taxCode, TaxAmount: decimal.NewFromFloat(1.901)},
	})

	lines, err := services.ResolveInvoiceLines(inv, f.input)
	require.NoError(t, err)

	debits, credits := sumSides(lines)
	assert.True(t, debits.Equal(credits),
		"residual must be absorbed: debits %s credits %s", debits, credits)
}

func TestResolveInvoiceLines_Purchase(t *testing.T) {
	f := newResolverFixture()
	inv := saleInvoice([]domain.InvoiceLine{
		{Subtotal: decimal.NewFromInt(400)},
		{Subtotal: decimal.NewFromInt(600)},
	})
	inv.InvoiceType = domain.DocPurchaseInvoice

	lines, err := services.ResolveInvoiceLines(inv, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, f.expenseID, lines[0].AccountID)
	assert.Equal(t, domain.Debit, lines[0].Type)
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(1000)))

	assert.Equal(t, f.payableID, lines[1].AccountID)
	assert.Equal(t, domain.Credit, lines[1].Type)
	assert.True(t, lines[1].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestResolveInvoiceLines_PurchaseWithItemExpenseAccount(t *testing.T) {
	f := newResolverFixture()
	officeExpenseID := uuid.NewString()
	f.input.Accounts[officeExpenseID] = domain.Account{
		AccountID: officeExpenseID, Code: "5100", AccountType: domain.Expense, IsActive: true,
	}
	itemID := uuid.NewString()
	f.input.Items[itemID] = domain.Item{ItemID: itemID, ExpenseAccountID: &officeExpenseID, IsActive: true}

	inv := saleInvoice([]domain.InvoiceLine{
		{ItemID: &itemID, Subtotal: decimal.NewFromInt(250)},
		{Subtotal: decimal.NewFromInt(750)},
	})
	inv.InvoiceType = domain.DocPurchaseInvoice

	lines, err := services.ResolveInvoiceLines(inv, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, officeExpenseID, lines[0].AccountID)
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, f.expenseID, lines[1].AccountID)
	assert.True(t, lines[1].Amount.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, f.payableID, lines[2].AccountID)
}

func TestResolveInvoiceLines_UnmappedRole(t *testing.T) {
	f := newResolverFixture()
	delete(f.input.Mappings, domain.RoleSalesRevenue)
	inv := saleInvoice([]domain.InvoiceLine{{Subtotal: decimal.NewFromInt(100)}})

	_, err := services.ResolveInvoiceLines(inv, f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnmappedAccount)
}

func TestResolveInvoiceLines_InactiveAccount(t *testing.T) {
	f := newResolverFixture()
	acc := f.input.Accounts[f.revenueID]
	acc.IsActive = false
	f.input.Accounts[f.revenueID] = acc
	inv := saleInvoice([]domain.InvoiceLine{{Subtotal: decimal.NewFromInt(100)}})

	_, err := services.ResolveInvoiceLines(inv, f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveInvoiceLines_EmptyDocument(t *testing.T) {
	f := newResolverFixture()

	_, err := services.ResolveInvoiceLines(saleInvoice(nil), f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	zero := saleInvoice([]domain.InvoiceLine{{Subtotal: decimal.Zero}})
	_, err = services.ResolveInvoiceLines(zero, f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrEmptyDocument)
}

func TestResolvePaymentLines_Payment(t *testing.T) {
	f := newResolverFixture()
	p := domain.Payment{
		PaymentID:     uuid.NewString(),
		Kind:          domain.DocPayment,
		BankAccountID: f.bankID,
		Amount:        decimal.NewFromFloat(150.50),
		Status:        domain.StatusDraft,
	}

	lines, err := services.ResolvePaymentLines(p, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, f.payableID, lines[0].AccountID)
	assert.Equal(t, domain.Debit, lines[0].Type)
	assert.Equal(t, f.bankID, lines[1].AccountID)
	assert.Equal(t, domain.Credit, lines[1].Type)
	assert.True(t, lines[0].Amount.Equal(lines[1].Amount))
}

func TestResolvePaymentLines_ReceiptWithDirectAccount(t *testing.T) {
	f := newResolverFixture()
	p := domain.Payment{
		PaymentID:        uuid.NewString(),
		Kind:             domain.DocReceipt,
		BankAccountID:    f.bankID,
		CounterAccountID: &f.revenueID,
		Amount:           decimal.NewFromInt(75),
	}

	lines, err := services.ResolvePaymentLines(p, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, f.bankID, lines[0].AccountID)
	assert.Equal(t, domain.Debit, lines[0].Type)
	assert.Equal(t, f.revenueID, lines[1].AccountID)
	assert.Equal(t, domain.Credit, lines[1].Type)
}

func TestResolvePaymentLines_Transfer(t *testing.T) {
	f := newResolverFixture()
	p := domain.Payment{
		PaymentID:        uuid.NewString(),
		Kind:             domain.DocTransfer,
		BankAccountID:    f.bankID,
		CounterAccountID: &f.bank2ID,
		Amount:           decimal.NewFromInt(500),
	}

	lines, err := services.ResolvePaymentLines(p, f.input)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, f.bank2ID, lines[0].AccountID)
	assert.Equal(t, domain.Debit, lines[0].Type)
	assert.Equal(t, f.bankID, lines[1].AccountID)
	assert.Equal(t, domain.Credit, lines[1].Type)
}

func TestResolvePaymentLines_TransferSameAccount(t *testing.T) {
	f := newResolverFixture()
	p := domain.Payment{
		PaymentID:        uuid.NewString(),
		Kind:             domain.DocTransfer,
		BankAccountID:    f.bankID,
		CounterAccountID: &f.bankID,
		Amount:           decimal.NewFromInt(500),
	}

	_, err := services.ResolvePaymentLines(p, f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolvePaymentLines_NonBankAccount(t *testing.T) {
	f := newResolverFixture()
	p := domain.Payment{
		PaymentID:     uuid.NewString(),
		Kind:          domain.DocPayment,
		BankAccountID: f.revenueID, // not a bank account
		Amount:        decimal.NewFromInt(10),
	}

	_, err := services.ResolvePaymentLines(p, f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolvePaymentLines_ZeroAmount(t *testing.T) {
	f := newResolverFixture()
	p := domain.Payment{
		PaymentID:     uuid.NewString(),
		Kind:          domain.DocPayment,
		BankAccountID: f.bankID,
		Amount:        decimal.Zero,
	}

	_, err := services.ResolvePaymentLines(p, f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrEmptyDocument)
}

package mapping

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		InvoiceNumber:  d.InvoiceNumber,
		InvoiceType:    string(d.InvoiceType),
		PartnerID:      d.PartnerID,
		InvoiceDate:    d.InvoiceDate,
		Status:         string(d.Status),
		CurrencyCode:   d.CurrencyCode,
		Subtotal:       d.Subtotal,
		TaxTotal:       d.TaxTotal,
		Total:          d.Total,
		JournalEntryID: d.JournalEntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		InvoiceNumber:  m.InvoiceNumber,
		InvoiceType:    domain.DocumentType(m.InvoiceType),
		PartnerID:      m.PartnerID,
		InvoiceDate:    m.InvoiceDate,
		Status:         domain.DocumentStatus(m.Status),
		CurrencyCode:   m.CurrencyCode,
		Subtotal:       m.Subtotal,
		TaxTotal:       m.TaxTotal,
		Total:          m.Total,
		JournalEntryID: m.JournalEntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to a model InvoiceLine
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:      d.LineID,
		InvoiceID:   d.InvoiceID,
		ItemID:      d.ItemID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		TaxCode:     d.TaxCode,
		TaxAmount:   d.TaxAmount,
		Subtotal:    d.Subtotal,
		Position:    d.Position,
	}
}

// ToDomainInvoiceLine converts a model InvoiceLine to a domain InvoiceLine
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:      m.LineID,
		InvoiceID:   m.InvoiceID,
		ItemID:      m.ItemID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxCode:     m.TaxCode,
		TaxAmount:   m.TaxAmount,
		Subtotal:    m.Subtotal,
		Position:    m.Position,
	}
}

// ToDomainInvoiceLineSlice converts a slice of model InvoiceLines to domain InvoiceLines
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	ds := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLine(m)
	}
	return ds
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:        d.PaymentID,
		Kind:             string(d.Kind),
		PartnerID:        d.PartnerID,
		BankAccountID:    d.BankAccountID,
		CounterAccountID: d.CounterAccountID,
		Amount:           d.Amount,
		PaymentDate:      d.PaymentDate,
		Status:           string(d.Status),
		CurrencyCode:     d.CurrencyCode,
		Reference:        d.Reference,
		JournalEntryID:   d.JournalEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:        m.PaymentID,
		Kind:             domain.DocumentType(m.Kind),
		PartnerID:        m.PartnerID,
		BankAccountID:    m.BankAccountID,
		CounterAccountID: m.CounterAccountID,
		Amount:           m.Amount,
		PaymentDate:      m.PaymentDate,
		Status:           domain.DocumentStatus(m.Status),
		CurrencyCode:     m.CurrencyCode,
		Reference:        m.Reference,
		JournalEntryID:   m.JournalEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

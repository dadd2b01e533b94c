package mapping

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/models"
)

// ToModelPartner converts a domain Partner to a model Partner
func ToModelPartner(d domain.Partner) models.Partner {
	return models.Partner{
		PartnerID:   d.PartnerID,
		Kind:        string(d.Kind),
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		TaxNumber:   d.TaxNumber,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPartner converts a model Partner to a domain Partner
func ToDomainPartner(m models.Partner) domain.Partner {
	return domain.Partner{
		PartnerID:   m.PartnerID,
		Kind:        domain.PartnerKind(m.Kind),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		TaxNumber:   m.TaxNumber,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelItem converts a domain Item to a model Item
func ToModelItem(d domain.Item) models.Item {
	return models.Item{
		ItemID:           d.ItemID,
		Name:             d.Name,
		UnitPrice:        d.UnitPrice,
		ExpenseAccountID: d.ExpenseAccountID,
		RevenueAccountID: d.RevenueAccountID,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainItem converts a model Item to a domain Item
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ItemID:           m.ItemID,
		Name:             m.Name,
		UnitPrice:        m.UnitPrice,
		ExpenseAccountID: m.ExpenseAccountID,
		RevenueAccountID: m.RevenueAccountID,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

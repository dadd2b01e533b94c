package domain

// PartnerKind classifies a business partner.
// Employees are a partner kind rather than a separate master.
type PartnerKind string

const (
	PartnerCustomer PartnerKind = "CUSTOMER"
	PartnerSupplier PartnerKind = "SUPPLIER"
	PartnerEmployee PartnerKind = "EMPLOYEE"
)

// IsValid reports whether k is a known partner kind.
func (k PartnerKind) IsValid() bool {
	switch k {
	case PartnerCustomer, PartnerSupplier, PartnerEmployee:
		return true
	}
	return false
}

// Partner is a customer, supplier or employee referenced by documents.
type Partner struct {
	PartnerID string      `json:"partnerID"`
	Kind      PartnerKind `json:"kind"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	TaxNumber string      `json:"taxNumber"`
	IsActive  bool        `json:"isActive"`
	AuditFields
}

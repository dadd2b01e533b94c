package models

// Partner is the partners table row.
type Partner struct {
	PartnerID string `db:"partner_id"`
	Kind      string `db:"kind"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	TaxNumber string `db:"tax_number"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}

package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/models"
	"github.com/smallbooks/bookkeeping_app/internal/utils/mapping"
)

type PgxPartnerRepository struct {
	BaseRepository
}

// newPgxPartnerRepository creates a new repository for partner master data.
func newPgxPartnerRepository(pool DBPool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

const partnerColumns = `
	partner_id, kind, name, email, phone, tax_number, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPartnerRow(row pgx.Row) (*models.Partner, error) {
	var m models.Partner
	err := row.Scan(
		&m.PartnerID,
		&m.Kind,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.TaxNumber,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePartner persists a new partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	m := mapping.ToModelPartner(partner)
	query := `
		INSERT INTO partners (
			partner_id, kind, name, email, phone, tax_number, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PartnerID, m.Kind, m.Name, m.Email, m.Phone, m.TaxNumber, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert partner "+m.PartnerID, err)
	}
	return nil
}

// FindPartnerByID retrieves a partner by its unique identifier.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = $1;`
	m, err := scanPartnerRow(r.Pool.QueryRow(ctx, query, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find partner by ID "+partnerID, err)
	}
	partner := mapping.ToDomainPartner(*m)
	return &partner, nil
}

// ListPartners retrieves partners ordered by name, optionally filtered by kind.
func (r *PgxPartnerRepository) ListPartners(ctx context.Context, kind *domain.PartnerKind, limit int, offset int) ([]domain.Partner, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows pgx.Rows
	var err error
	if kind != nil {
		query := `SELECT ` + partnerColumns + ` FROM partners WHERE kind = $1 ORDER BY name LIMIT $2 OFFSET $3;`
		rows, err = r.Pool.Query(ctx, query, string(*kind), limit, offset)
	} else {
		query := `SELECT ` + partnerColumns + ` FROM partners ORDER BY name LIMIT $1 OFFSET $2;`
		rows, err = r.Pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query partners", err)
	}
	defer rows.Close()

	partners := []domain.Partner{}
	for rows.Next() {
		m, scanErr := scanPartnerRow(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan partner row", scanErr)
		}
		partners = append(partners, mapping.ToDomainPartner(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating partner rows", err)
	}
	return partners, nil
}

// UpdatePartner updates the mutable fields of a partner.
func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	m := mapping.ToModelPartner(partner)
	query := `
		UPDATE partners
		SET name = $2, email = $3, phone = $4, tax_number = $5, is_active = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE partner_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PartnerID, m.Name, m.Email, m.Phone, m.TaxNumber, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update partner "+m.PartnerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/models"
	"github.com/smallbooks/bookkeeping_app/internal/utils/mapping"
	"github.com/smallbooks/bookkeeping_app/internal/utils/pagination"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for invoice and payment documents.
func newPgxDocumentRepository(pool DBPool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const invoiceColumns = `
	invoice_id, invoice_number, invoice_type, partner_id, invoice_date, status,
	currency_code, subtotal, tax_total, total, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanInvoiceRow(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.InvoiceNumber,
		&m.InvoiceType,
		&m.PartnerID,
		&m.InvoiceDate,
		&m.Status,
		&m.CurrencyCode,
		&m.Subtotal,
		&m.TaxTotal,
		&m.Total,
		&m.JournalEntryID,
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

// SaveInvoice persists a new draft invoice and its lines in one transaction.
func (r *PgxDocumentRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertInvoiceHeader(ctx, tx, invoice); err != nil {
		return err
	}
	if err := r.insertInvoiceLines(ctx, tx, invoice.Lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) insertInvoiceHeader(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (
			invoice_id, invoice_number, invoice_type, partner_id, invoice_date, status,
			currency_code, subtotal, tax_total, total, journal_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.InvoiceID, m.InvoiceNumber, m.InvoiceType, m.PartnerID, m.InvoiceDate, m.Status,
		m.CurrencyCode, m.Subtotal, m.TaxTotal, m.Total, m.JournalEntryID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}
	return nil
}

func (r *PgxDocumentRepository) insertInvoiceLines(ctx context.Context, tx pgx.Tx, lines []domain.InvoiceLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoice_lines (
			line_id, invoice_id, item_id, description, quantity, unit_price,
			tax_code, tax_amount, subtotal, position
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		m := mapping.ToModelInvoiceLine(line)
		batch.Queue(query,
			m.LineID, m.InvoiceID, m.ItemID, m.Description, m.Quantity, m.UnitPrice,
			m.TaxCode, m.TaxAmount, m.Subtotal, m.Position,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert invoice lines", err)
	}
	return nil
}

// UpdateDraftInvoice replaces the header fields and lines of a DRAFT invoice.
// The status guard in the UPDATE keeps posted invoices immutable.
func (r *PgxDocumentRepository) UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET invoice_number = $2, partner_id = $3, invoice_date = $4, currency_code = $5,
		    subtotal = $6, tax_total = $7, total = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE invoice_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InvoiceID, m.InvoiceNumber, m.PartnerID, m.InvoiceDate, m.CurrencyCode,
		m.Subtotal, m.TaxTotal, m.Total, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrIllegalState
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, m.InvoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for invoice "+m.InvoiceID, err)
	}
	if err := r.insertInvoiceLines(ctx, tx, invoice.Lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftInvoice removes a DRAFT invoice and its lines.
func (r *PgxDocumentRepository) DeleteDraftInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for invoice "+invoiceID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1 AND status = 'DRAFT';`, invoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// MarkInvoicePaid flips the invoice from POSTED to PAID with a compare-and-set.
func (r *PgxDocumentRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = 'PAID', last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, invoiceID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark invoice paid "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConcurrency
	}
	return nil
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxDocumentRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	return r.findInvoice(ctx, query, invoiceID)
}

// FindInvoiceByEntryID retrieves the invoice linked to the given journal entry.
func (r *PgxDocumentRepository) FindInvoiceByEntryID(ctx context.Context, entryID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE journal_entry_id = $1;`
	return r.findInvoice(ctx, query, entryID)
}

func (r *PgxDocumentRepository) findInvoice(ctx context.Context, query string, arg string) (*domain.Invoice, error) {
	m, err := scanInvoiceRow(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice", err)
	}

	invoice := mapping.ToDomainInvoice(*m)
	invoice.Lines, err = r.findInvoiceLines(ctx, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *PgxDocumentRepository) findInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, item_id, description, quantity, unit_price,
		       tax_code, tax_amount, subtotal, position
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for invoice "+invoiceID, err)
	}
	defer rows.Close()

	lines := []models.InvoiceLine{}
	for rows.Next() {
		var l models.InvoiceLine
		err := rows.Scan(
			&l.LineID, &l.InvoiceID, &l.ItemID, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.TaxCode, &l.TaxAmount, &l.Subtotal, &l.Position,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for invoice "+invoiceID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for invoice "+invoiceID, err)
	}

	return mapping.ToDomainInvoiceLineSlice(lines), nil
}

// ListInvoices retrieves a paginated list of invoice headers, newest first, using
// (invoice_date, created_at) as the stable cursor.
func (r *PgxDocumentRepository) ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices`
	orderByClause := `ORDER BY invoice_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query := baseQuery + " WHERE (invoice_date, created_at) < ($1, $2) " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanInvoiceRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", scanErr)
		}
		modelInvoices = append(modelInvoices, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var nextTokenVal *string
	results := modelInvoices
	if len(modelInvoices) > limit {
		last := modelInvoices[limit-1]
		newToken := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		nextTokenVal = &newToken
		results = modelInvoices[:limit]
	}

	invoices := make([]domain.Invoice, len(results))
	for i, m := range results {
		invoices[i] = mapping.ToDomainInvoice(m)
	}
	return invoices, nextTokenVal, nil
}

const paymentColumns = `
	payment_id, kind, partner_id, bank_account_id, counter_account_id, amount,
	payment_date, status, currency_code, reference, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPaymentRow(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.Kind,
		&m.PartnerID,
		&m.BankAccountID,
		&m.CounterAccountID,
		&m.Amount,
		&m.PaymentDate,
		&m.Status,
		&m.CurrencyCode,
		&m.Reference,
		&m.JournalEntryID,
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

// SavePayment persists a new draft payment document.
func (r *PgxDocumentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (
			payment_id, kind, partner_id, bank_account_id, counter_account_id, amount,
			payment_date, status, currency_code, reference, journal_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID, m.Kind, m.PartnerID, m.BankAccountID, m.CounterAccountID, m.Amount,
		m.PaymentDate, m.Status, m.CurrencyCode, m.Reference, m.JournalEntryID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert payment "+m.PaymentID, err)
	}
	return nil
}

// DeleteDraftPayment removes a DRAFT payment document.
func (r *PgxDocumentRepository) DeleteDraftPayment(ctx context.Context, paymentID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1 AND status = 'DRAFT';`, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete payment "+paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPaymentByID retrieves a payment, receipt or transfer document.
func (r *PgxDocumentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	return r.findPayment(ctx, query, paymentID)
}

// FindPaymentByEntryID retrieves the payment document linked to the given entry.
func (r *PgxDocumentRepository) FindPaymentByEntryID(ctx context.Context, entryID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE journal_entry_id = $1;`
	return r.findPayment(ctx, query, entryID)
}

func (r *PgxDocumentRepository) findPayment(ctx context.Context, query string, arg string) (*domain.Payment, error) {
	m, err := scanPaymentRow(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment", err)
	}
	payment := mapping.ToDomainPayment(*m)
	return &payment, nil
}

// ListPayments retrieves a paginated list of payment documents, newest first.
func (r *PgxDocumentRepository) ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + paymentColumns + ` FROM payments`
	orderByClause := `ORDER BY payment_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query := baseQuery + " WHERE (payment_date, created_at) < ($1, $2) " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query payments", err)
	}
	defer rows.Close()

	modelPayments := make([]models.Payment, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanPaymentRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan payment row", scanErr)
		}
		modelPayments = append(modelPayments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}

	var nextTokenVal *string
	results := modelPayments
	if len(modelPayments) > limit {
		last := modelPayments[limit-1]
		newToken := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		nextTokenVal = &newToken
		results = modelPayments[:limit]
	}

	payments := make([]domain.Payment, len(results))
	for i, m := range results {
		payments[i] = mapping.ToDomainPayment(m)
	}
	return payments, nextTokenVal, nil
}

package repository

import (
	"fmt"

	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

// DocumentRepository flips and reads the is_ledger_approved flag on source
// documents, whichever table they live in. The posting engine re-reads the
// flag immediately before committing so concurrent post/unpost on the same
// document cannot interleave.
type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func tableForSource(source string) (table, idColumn string, err error) {
	switch source {
	case models.SourceBankTransaction:
		return "bank_transactions", "doc_id", nil
	case models.SourceJournalEntry:
		return "journal_entry_lines", "journal_set_id", nil
	case models.SourceSalesInvoice:
		return "sales_invoices", "doc_id", nil
	case models.SourcePurchaseBill:
		return "purchase_bills", "doc_id", nil
	}
	return "", "", fmt.Errorf("unknown document source %q", source)
}

func (r *DocumentRepository) IsLedgerApproved(scopeID, source, docID string) (bool, error) {
	table, idColumn, err := tableForSource(source)
	if err != nil {
		return false, err
	}

	var approved bool
	query := fmt.Sprintf("SELECT is_ledger_approved FROM %s WHERE scope_id = ? AND %s = ? LIMIT 1", table, idColumn)
	if err := r.db.Get(&approved, query, scopeID, docID); err != nil {
		return false, fmt.Errorf("failed to read approval flag for %s %s: %w", source, docID, err)
	}
	return approved, nil
}

func (r *DocumentRepository) SetLedgerApproved(scopeID, source, docID string, approved bool) error {
	table, idColumn, err := tableForSource(source)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET is_ledger_approved = ? WHERE scope_id = ? AND %s = ?", table, idColumn)
	if _, err := r.db.Exec(query, approved, scopeID, docID); err != nil {
		return fmt.Errorf("failed to update approval flag for %s %s: %w", source, docID, err)
	}
	return nil
}

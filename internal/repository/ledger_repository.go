package repository

import (
	"fmt"

	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// AppendAll writes a batch of postings inside one SQL transaction. Either
// every posting lands or none do; the posting engine relies on this for its
// per-document atomicity.
func (r *LedgerRepository) AppendAll(postings []models.LedgerPosting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO ledger_postings (scope_id, posting_date, description, source,
	          source_doc_id, customer, vendor, gl_account, debit_amount, credit_amount)
	          VALUES (:scope_id, :posting_date, :description, :source,
	          :source_doc_id, :customer, :vendor, :gl_account, :debit_amount, :credit_amount)`

	// Chunk to stay clear of the MySQL placeholder limit on very large sets.
	const chunkSize = 1000
	for i := 0; i < len(postings); i += chunkSize {
		end := i + chunkSize
		if end > len(postings) {
			end = len(postings)
		}
		if _, err := tx.NamedExec(query, postings[i:end]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert postings: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteBySource removes every posting tagged with the given source document
// id, in one transaction. Returns the number of rows removed; zero is not an
// error, which makes unposting idempotent.
func (r *LedgerRepository) DeleteBySource(scopeID, sourceDocID string) (int64, error) {
	result, err := r.db.Exec(
		"DELETE FROM ledger_postings WHERE scope_id = ? AND source_doc_id = ?",
		scopeID, sourceDocID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete postings for %s: %w", sourceDocID, err)
	}
	count, _ := result.RowsAffected()
	return count, nil
}

// Query returns postings matching the filter, ordered by date then id. Date
// bounds compare the stored YYYY-MM-DD strings directly.
func (r *LedgerRepository) Query(scopeID string, q models.LedgerQuery) ([]models.LedgerPosting, error) {
	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}

	if q.DateFrom != "" {
		whereClause += " AND posting_date >= ?"
		args = append(args, q.DateFrom)
	}
	if q.DateTo != "" {
		whereClause += " AND posting_date <= ?"
		args = append(args, q.DateTo)
	}
	if q.GLAccount != "" {
		whereClause += " AND gl_account = ?"
		args = append(args, q.GLAccount)
	}

	var postings []models.LedgerPosting
	query := fmt.Sprintf(`SELECT * FROM ledger_postings %s ORDER BY posting_date, id`, whereClause)
	err := r.db.Select(&postings, query, args...)
	return postings, err
}

// FindBySource returns the postings of one source document.
func (r *LedgerRepository) FindBySource(scopeID, sourceDocID string) ([]models.LedgerPosting, error) {
	var postings []models.LedgerPosting
	query := `SELECT * FROM ledger_postings WHERE scope_id = ? AND source_doc_id = ? ORDER BY id`
	err := r.db.Select(&postings, query, scopeID, sourceDocID)
	return postings, err
}

// FindPaginated serves the general ledger browse page.
func (r *LedgerRepository) FindPaginated(scopeID string, q models.LedgerQuery, limit, offset int) ([]models.LedgerPosting, int, error) {
	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}

	if q.DateFrom != "" {
		whereClause += " AND posting_date >= ?"
		args = append(args, q.DateFrom)
	}
	if q.DateTo != "" {
		whereClause += " AND posting_date <= ?"
		args = append(args, q.DateTo)
	}
	if q.GLAccount != "" {
		whereClause += " AND gl_account = ?"
		args = append(args, q.GLAccount)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ledger_postings %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	var postings []models.LedgerPosting
	query := fmt.Sprintf("SELECT * FROM ledger_postings %s ORDER BY posting_date DESC, id DESC LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&postings, query, args...); err != nil {
		return nil, 0, err
	}

	return postings, total, nil
}

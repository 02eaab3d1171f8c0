package repository

import (
	"fmt"

	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type JournalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// CreateSet inserts all lines of one journal set in a single transaction.
func (r *JournalRepository) CreateSet(lines []models.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO journal_entry_lines (scope_id, journal_set_id, entry_date, description,
	          gl_account, vendor_or_customer, debit_amount, credit_amount, is_ledger_approved)
	          VALUES (:scope_id, :journal_set_id, :entry_date, :description,
	          :gl_account, :vendor_or_customer, :debit_amount, :credit_amount, :is_ledger_approved)`
	if _, err := tx.NamedExec(query, lines); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert journal lines: %w", err)
	}

	return tx.Commit()
}

// FindSet loads all lines sharing a journal set id.
func (r *JournalRepository) FindSet(scopeID, journalSetID string) (*models.JournalSet, error) {
	var lines []models.JournalEntryLine
	query := `SELECT * FROM journal_entry_lines WHERE scope_id = ? AND journal_set_id = ? ORDER BY id`
	if err := r.db.Select(&lines, query, scopeID, journalSetID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("journal set %s not found", journalSetID)
	}

	return &models.JournalSet{
		JournalSetID:     journalSetID,
		Lines:            lines,
		IsLedgerApproved: lines[0].IsLedgerApproved,
	}, nil
}

// FindSets lists journal sets newest first, paginated by distinct set id.
func (r *JournalRepository) FindSets(scopeID string, limit, offset int) ([]models.JournalSet, int, error) {
	var total int
	countQuery := `SELECT COUNT(DISTINCT journal_set_id) FROM journal_entry_lines WHERE scope_id = ?`
	if err := r.db.Get(&total, countQuery, scopeID); err != nil {
		return nil, 0, err
	}

	var setIDs []string
	idQuery := `SELECT journal_set_id FROM journal_entry_lines WHERE scope_id = ?
	            GROUP BY journal_set_id ORDER BY MIN(created_at) DESC LIMIT ? OFFSET ?`
	if err := r.db.Select(&setIDs, idQuery, scopeID, limit, offset); err != nil {
		return nil, 0, err
	}

	sets := make([]models.JournalSet, 0, len(setIDs))
	for _, id := range setIDs {
		set, err := r.FindSet(scopeID, id)
		if err != nil {
			return nil, 0, err
		}
		sets = append(sets, *set)
	}
	return sets, total, nil
}

// DeleteSet removes every line of a journal set.
func (r *JournalRepository) DeleteSet(scopeID, journalSetID string) error {
	_, err := r.db.Exec(
		"DELETE FROM journal_entry_lines WHERE scope_id = ? AND journal_set_id = ?",
		scopeID, journalSetID,
	)
	return err
}

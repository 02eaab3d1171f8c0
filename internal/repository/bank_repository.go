package repository

import (
	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type BankRepository struct {
	db *sqlx.DB
}

func NewBankRepository(db *sqlx.DB) *BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) Create(txn *models.BankTransaction) error {
	query := `INSERT INTO bank_transactions (scope_id, doc_id, txn_date, description, gl_account,
	          direction, amount, counterparty, is_ledger_approved)
	          VALUES (:scope_id, :doc_id, :txn_date, :description, :gl_account,
	          :direction, :amount, :counterparty, :is_ledger_approved)`
	result, err := r.db.NamedExec(query, txn)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	txn.ID = id
	return nil
}

func (r *BankRepository) FindByDocID(scopeID, docID string) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	query := "SELECT * FROM bank_transactions WHERE scope_id = ? AND doc_id = ? LIMIT 1"
	err := r.db.Get(&txn, query, scopeID, docID)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *BankRepository) FindAll(scopeID string, limit, offset int, search string) ([]models.BankTransaction, int, error) {
	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}
	if search != "" {
		whereClause += " AND (description LIKE ? OR counterparty LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM bank_transactions "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	var txns []models.BankTransaction
	query := "SELECT * FROM bank_transactions " + whereClause + " ORDER BY txn_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&txns, query, args...); err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *BankRepository) Update(txn *models.BankTransaction) error {
	query := `UPDATE bank_transactions SET txn_date = :txn_date, description = :description,
	          gl_account = :gl_account, direction = :direction, amount = :amount,
	          counterparty = :counterparty
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, txn)
	return err
}

func (r *BankRepository) Delete(scopeID, docID string) error {
	_, err := r.db.Exec("DELETE FROM bank_transactions WHERE scope_id = ? AND doc_id = ?", scopeID, docID)
	return err
}

package repository

import (
	"fmt"

	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindAll(scopeID string, limit, offset int, search string) ([]models.Account, int, error) {
	var accounts []models.Account
	var total int

	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}

	if search != "" {
		whereClause += " AND (gl_account LIKE ? OR account_number LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM accounts %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id,
		       scope_id,
		       gl_account,
		       COALESCE(sub_type, '') as sub_type,
		       COALESCE(account_type, '') as account_type,
		       COALESCE(fs, '') as fs,
		       COALESCE(account_number, '') as account_number,
		       created_at,
		       updated_at
		FROM accounts %s
		ORDER BY gl_account
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&accounts, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *AccountRepository) FindByID(id int) (*models.Account, error) {
	var account models.Account
	query := `
		SELECT id,
		       scope_id,
		       gl_account,
		       COALESCE(sub_type, '') as sub_type,
		       COALESCE(account_type, '') as account_type,
		       COALESCE(fs, '') as fs,
		       COALESCE(account_number, '') as account_number,
		       created_at,
		       updated_at
		FROM accounts
		WHERE id = ?
		LIMIT 1`
	err := r.db.Get(&account, query, id)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByName(scopeID, glAccount string) (*models.Account, error) {
	var account models.Account
	query := "SELECT * FROM accounts WHERE scope_id = ? AND gl_account = ? LIMIT 1"
	err := r.db.Get(&account, query, scopeID, glAccount)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListByScope returns the full chart of accounts for one scope. The posting
// and report engines call this at the start of every operation so each one
// works from a fresh snapshot.
func (r *AccountRepository) ListByScope(scopeID string) ([]models.Account, error) {
	var accounts []models.Account
	query := `
		SELECT id,
		       scope_id,
		       gl_account,
		       COALESCE(sub_type, '') as sub_type,
		       COALESCE(account_type, '') as account_type,
		       COALESCE(fs, '') as fs,
		       COALESCE(account_number, '') as account_number,
		       created_at,
		       updated_at
		FROM accounts
		WHERE scope_id = ?
		ORDER BY gl_account`
	err := r.db.Select(&accounts, query, scopeID)
	return accounts, err
}

func (r *AccountRepository) Create(account *models.Account) error {
	query := `INSERT INTO accounts (scope_id, gl_account, sub_type, account_type, fs, account_number)
	          VALUES (:scope_id, :gl_account, :sub_type, :account_type, :fs, :account_number)`
	result, err := r.db.NamedExec(query, account)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	account.ID = int(id)
	return nil
}

func (r *AccountRepository) Update(account *models.Account) error {
	query := `UPDATE accounts SET gl_account = :gl_account, sub_type = :sub_type,
	          account_type = :account_type, fs = :fs, account_number = :account_number
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, account)
	return err
}

// Delete removes an account. Postings referencing it are left in place; the
// report engine surfaces them as unclassified.
func (r *AccountRepository) Delete(id int) error {
	query := "DELETE FROM accounts WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}

func (r *AccountRepository) BulkUpsert(accounts []models.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	query := `INSERT INTO accounts (scope_id, gl_account, sub_type, account_type, fs, account_number)
	          VALUES (:scope_id, :gl_account, :sub_type, :account_type, :fs, :account_number)
	          ON DUPLICATE KEY UPDATE
	          sub_type = VALUES(sub_type),
	          account_type = VALUES(account_type),
	          fs = VALUES(fs),
	          account_number = VALUES(account_number)`
	_, err := r.db.NamedExec(query, accounts)
	return err
}

package repository

import (
	"database/sql"
	"errors"

	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// FindByName returns the contact with the given name, or nil when no such
// contact exists. contactType narrows the search when non-empty.
func (r *ContactRepository) FindByName(scopeID, name, contactType string) (*models.Contact, error) {
	var contact models.Contact
	query := "SELECT * FROM contacts WHERE scope_id = ? AND name = ?"
	args := []interface{}{scopeID, name}
	if contactType != "" {
		query += " AND contact_type = ?"
		args = append(args, contactType)
	}
	query += " LIMIT 1"

	err := r.db.Get(&contact, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Create(contact *models.Contact) error {
	query := `INSERT INTO contacts (scope_id, name, contact_type, email, phone)
	          VALUES (:scope_id, :name, :contact_type, :email, :phone)`
	result, err := r.db.NamedExec(query, contact)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	contact.ID = id
	return nil
}

func (r *ContactRepository) FindAll(scopeID string, limit, offset int, search string) ([]models.Contact, int, error) {
	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}
	if search != "" {
		whereClause += " AND name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM contacts "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	var contacts []models.Contact
	query := "SELECT * FROM contacts " + whereClause + " ORDER BY name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&contacts, query, args...); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *ContactRepository) Update(contact *models.Contact) error {
	query := `UPDATE contacts SET name = :name, contact_type = :contact_type,
	          email = :email, phone = :phone
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, contact)
	return err
}

func (r *ContactRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM contacts WHERE id = ?", id)
	return err
}

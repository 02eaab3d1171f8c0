package models

import "time"

// Contact types.
const (
	ContactCustomer = "Customer"
	ContactVendor   = "Vendor"
)

// Contact is a counterparty record. The posting engine auto-creates a
// minimal contact when a document names a counterparty that does not exist
// yet; contact failures never block posting.
type Contact struct {
	ID        int64     `db:"id" json:"id"`
	ScopeID   string    `db:"scope_id" json:"scope_id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"contact_type" json:"contact_type"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ContactRequest is the create/update request body.
type ContactRequest struct {
	Name  string `json:"name" validate:"required"`
	Type  string `json:"contact_type"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

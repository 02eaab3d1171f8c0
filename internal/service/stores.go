package service

import "bookkeeping-web/internal/models"

// LedgerStore is the persistence contract for general-ledger postings.
// AppendAll is atomic per call; the engines rely on that rather than
// re-implementing transaction semantics.
type LedgerStore interface {
	AppendAll(postings []models.LedgerPosting) error
	DeleteBySource(scopeID, sourceDocID string) (int64, error)
	FindBySource(scopeID, sourceDocID string) ([]models.LedgerPosting, error)
	Query(scopeID string, q models.LedgerQuery) ([]models.LedgerPosting, error)
}

// AccountStore supplies chart-of-accounts snapshots.
type AccountStore interface {
	ListByScope(scopeID string) ([]models.Account, error)
}

// ContactStore is the contacts collaborator. Failures here never block
// posting.
type ContactStore interface {
	FindByName(scopeID, name, contactType string) (*models.Contact, error)
	Create(contact *models.Contact) error
}

// DocumentStore reads and flips the is_ledger_approved flag on source
// documents.
type DocumentStore interface {
	IsLedgerApproved(scopeID, source, docID string) (bool, error)
	SetLedgerApproved(scopeID, source, docID string, approved bool) error
}

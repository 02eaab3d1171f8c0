package models

import "time"

// JournalEntryLine is one row of a multi-line journal entry. Lines sharing a
// JournalSetID form one double-entry set: the set balances, each line carries
// exactly one of debit/credit.
type JournalEntryLine struct {
	ID               int64     `db:"id" json:"id"`
	ScopeID          string    `db:"scope_id" json:"scope_id"`
	JournalSetID     string    `db:"journal_set_id" json:"journal_set_id"`
	Date             string    `db:"entry_date" json:"entry_date"`
	Description      string    `db:"description" json:"description"`
	GLAccount        string    `db:"gl_account" json:"gl_account"`
	VendorOrCustomer string    `db:"vendor_or_customer" json:"vendor_or_customer"`
	DebitAmount      *float64  `db:"debit_amount" json:"debit_amount"`
	CreditAmount     *float64  `db:"credit_amount" json:"credit_amount"`
	IsLedgerApproved bool      `db:"is_ledger_approved" json:"is_ledger_approved"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// JournalSet groups the lines of one journal entry for posting.
type JournalSet struct {
	JournalSetID     string             `json:"journal_set_id"`
	Lines            []JournalEntryLine `json:"lines"`
	IsLedgerApproved bool               `json:"is_ledger_approved"`
}

// JournalLineRequest is the request body for a single line when creating or
// editing a journal entry set interactively.
type JournalLineRequest struct {
	Date             string   `json:"entry_date"`
	Description      string   `json:"description"`
	GLAccount        string   `json:"gl_account"`
	VendorOrCustomer string   `json:"vendor_or_customer"`
	DebitAmount      *float64 `json:"debit_amount"`
	CreditAmount     *float64 `json:"credit_amount"`
}

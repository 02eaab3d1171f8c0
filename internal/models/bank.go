package models

import "time"

// Bank transaction directions.
const (
	BankMoneyReceived = "Received"
	BankMoneyPaid     = "Paid"
)

// BankTransaction is one imported or hand-entered bank statement row. It
// posts a single leg against the bank's own GL account: a debit when money
// was received, a credit when money was paid out. The offsetting cash-flow
// side is implicit.
type BankTransaction struct {
	ID               int64     `db:"id" json:"id"`
	ScopeID          string    `db:"scope_id" json:"scope_id"`
	DocID            string    `db:"doc_id" json:"doc_id"`
	Date             string    `db:"txn_date" json:"txn_date"`
	Description      string    `db:"description" json:"description"`
	GLAccount        string    `db:"gl_account" json:"gl_account"`
	Direction        string    `db:"direction" json:"direction"`
	Amount           float64   `db:"amount" json:"amount"`
	Counterparty     string    `db:"counterparty" json:"counterparty"`
	IsLedgerApproved bool      `db:"is_ledger_approved" json:"is_ledger_approved"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// BankTransactionRequest is the create/update request body.
type BankTransactionRequest struct {
	Date         string  `json:"txn_date" validate:"required"`
	Description  string  `json:"description"`
	GLAccount    string  `json:"gl_account" validate:"required"`
	Direction    string  `json:"direction" validate:"required"`
	Amount       float64 `json:"amount" validate:"required"`
	Counterparty string  `json:"counterparty"`
}

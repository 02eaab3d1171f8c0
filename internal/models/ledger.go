package models

import "time"

// Posting sources. Every ledger posting is tagged with the kind of document
// that produced it so a whole document can be reversed in one operation.
const (
	SourceBankTransaction     = "Bank Transaction"
	SourceJournalEntry        = "Journal Entry"
	SourceSalesInvoice        = "Sales Invoice"
	SourcePurchaseBill        = "Purchase Bill"
	SourceSalesInvoicePayment = "Sales Invoice Payment"
)

// LedgerPosting is one debit-or-credit row of the general ledger. Exactly one
// of DebitAmount/CreditAmount is non-nil and positive. Date is an ISO
// YYYY-MM-DD string; the ledger compares dates lexicographically.
type LedgerPosting struct {
	ID           int64     `db:"id" json:"id"`
	ScopeID      string    `db:"scope_id" json:"scope_id"`
	Date         string    `db:"posting_date" json:"posting_date"`
	Description  string    `db:"description" json:"description"`
	Source       string    `db:"source" json:"source"`
	SourceDocID  string    `db:"source_doc_id" json:"source_doc_id"`
	Customer     *string   `db:"customer" json:"customer"`
	Vendor       *string   `db:"vendor" json:"vendor"`
	GLAccount    string    `db:"gl_account" json:"gl_account"`
	DebitAmount  *float64  `db:"debit_amount" json:"debit_amount"`
	CreditAmount *float64  `db:"credit_amount" json:"credit_amount"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Debit returns the debit amount, zero when the posting is a credit.
func (p LedgerPosting) Debit() float64 {
	if p.DebitAmount != nil {
		return *p.DebitAmount
	}
	return 0
}

// Credit returns the credit amount, zero when the posting is a debit.
func (p LedgerPosting) Credit() float64 {
	if p.CreditAmount != nil {
		return *p.CreditAmount
	}
	return 0
}

// LedgerQuery filters postings. Empty fields are ignored. Dates are inclusive
// ISO YYYY-MM-DD bounds.
type LedgerQuery struct {
	DateFrom  string
	DateTo    string
	GLAccount string
}

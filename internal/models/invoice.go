package models

import "time"

// Payment statuses for invoices and bills.
const (
	PaymentStatusUnpaid  = "Unpaid"
	PaymentStatusPartial = "Partially Paid"
	PaymentStatusPaid    = "Paid"
)

// LineItem is one revenue or expense line of a sales invoice or purchase
// bill. Amount is Quantity * UnitPrice.
type LineItem struct {
	ID          int64   `db:"id" json:"id"`
	DocID       string  `db:"doc_id" json:"doc_id"`
	Description string  `db:"description" json:"description"`
	GLAccount   string  `db:"gl_account" json:"gl_account"`
	Quantity    float64 `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	Amount      float64 `db:"amount" json:"amount"`
}

// SalesInvoice is a customer invoice. TotalAmount equals the sum of line
// item amounts.
type SalesInvoice struct {
	ID               int64      `db:"id" json:"id"`
	ScopeID          string     `db:"scope_id" json:"scope_id"`
	DocID            string     `db:"doc_id" json:"doc_id"`
	InvoiceNumber    string     `db:"invoice_number" json:"invoice_number"`
	Customer         string     `db:"customer" json:"customer"`
	Date             string     `db:"invoice_date" json:"invoice_date"`
	DueDate          string     `db:"due_date" json:"due_date"`
	TotalAmount      float64    `db:"total_amount" json:"total_amount"`
	PaymentStatus    string     `db:"payment_status" json:"payment_status"`
	IsLedgerApproved bool       `db:"is_ledger_approved" json:"is_ledger_approved"`
	LineItems        []LineItem `db:"-" json:"line_items"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// PurchaseBill is a vendor bill, the mirror image of a sales invoice.
type PurchaseBill struct {
	ID               int64      `db:"id" json:"id"`
	ScopeID          string     `db:"scope_id" json:"scope_id"`
	DocID            string     `db:"doc_id" json:"doc_id"`
	BillNumber       string     `db:"bill_number" json:"bill_number"`
	Vendor           string     `db:"vendor" json:"vendor"`
	Date             string     `db:"bill_date" json:"bill_date"`
	DueDate          string     `db:"due_date" json:"due_date"`
	TotalAmount      float64    `db:"total_amount" json:"total_amount"`
	PaymentStatus    string     `db:"payment_status" json:"payment_status"`
	IsLedgerApproved bool       `db:"is_ledger_approved" json:"is_ledger_approved"`
	LineItems        []LineItem `db:"-" json:"line_items"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// LineItemRequest is one line of an invoice or bill create/update request.
type LineItemRequest struct {
	Description string  `json:"description"`
	GLAccount   string  `json:"gl_account"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoicePaymentRequest records money received against a posted sales
// invoice. DepositAccount is the GL account the payment lands in.
type InvoicePaymentRequest struct {
	Date           string  `json:"payment_date" validate:"required"`
	Amount         float64 `json:"amount" validate:"required"`
	DepositAccount string  `json:"deposit_account" validate:"required"`
}

// InvoiceRequest is the request body for creating or updating a sales
// invoice or purchase bill. Party is the customer or vendor name.
type InvoiceRequest struct {
	Number    string            `json:"number"`
	Party     string            `json:"party" validate:"required"`
	Date      string            `json:"date" validate:"required"`
	DueDate   string            `json:"due_date"`
	LineItems []LineItemRequest `json:"line_items"`
}

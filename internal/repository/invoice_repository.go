package repository

import (
	"fmt"

	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type InvoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) CreateInvoice(inv *models.SalesInvoice) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO sales_invoices (scope_id, doc_id, invoice_number, customer, invoice_date,
	          due_date, total_amount, payment_status, is_ledger_approved)
	          VALUES (:scope_id, :doc_id, :invoice_number, :customer, :invoice_date,
	          :due_date, :total_amount, :payment_status, :is_ledger_approved)`
	result, err := tx.NamedExec(query, inv)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	id, _ := result.LastInsertId()
	inv.ID = id

	if err := insertLineItems(tx, inv.DocID, inv.LineItems); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *InvoiceRepository) CreateBill(bill *models.PurchaseBill) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO purchase_bills (scope_id, doc_id, bill_number, vendor, bill_date,
	          due_date, total_amount, payment_status, is_ledger_approved)
	          VALUES (:scope_id, :doc_id, :bill_number, :vendor, :bill_date,
	          :due_date, :total_amount, :payment_status, :is_ledger_approved)`
	result, err := tx.NamedExec(query, bill)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	id, _ := result.LastInsertId()
	bill.ID = id

	if err := insertLineItems(tx, bill.DocID, bill.LineItems); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func insertLineItems(tx *sqlx.Tx, docID string, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DocID = docID
	}
	query := `INSERT INTO line_items (doc_id, description, gl_account, quantity, unit_price, amount)
	          VALUES (:doc_id, :description, :gl_account, :quantity, :unit_price, :amount)`
	if _, err := tx.NamedExec(query, items); err != nil {
		return fmt.Errorf("failed to insert line items: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) FindInvoiceByDocID(scopeID, docID string) (*models.SalesInvoice, error) {
	var inv models.SalesInvoice
	query := "SELECT * FROM sales_invoices WHERE scope_id = ? AND doc_id = ? LIMIT 1"
	if err := r.db.Get(&inv, query, scopeID, docID); err != nil {
		return nil, err
	}
	items, err := r.findLineItems(docID)
	if err != nil {
		return nil, err
	}
	inv.LineItems = items
	return &inv, nil
}

func (r *InvoiceRepository) FindBillByDocID(scopeID, docID string) (*models.PurchaseBill, error) {
	var bill models.PurchaseBill
	query := "SELECT * FROM purchase_bills WHERE scope_id = ? AND doc_id = ? LIMIT 1"
	if err := r.db.Get(&bill, query, scopeID, docID); err != nil {
		return nil, err
	}
	items, err := r.findLineItems(docID)
	if err != nil {
		return nil, err
	}
	bill.LineItems = items
	return &bill, nil
}

func (r *InvoiceRepository) findLineItems(docID string) ([]models.LineItem, error) {
	var items []models.LineItem
	query := "SELECT * FROM line_items WHERE doc_id = ? ORDER BY id"
	err := r.db.Select(&items, query, docID)
	return items, err
}

func (r *InvoiceRepository) FindInvoices(scopeID string, limit, offset int, search string) ([]models.SalesInvoice, int, error) {
	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}
	if search != "" {
		whereClause += " AND (invoice_number LIKE ? OR customer LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM sales_invoices "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	var invoices []models.SalesInvoice
	query := "SELECT * FROM sales_invoices " + whereClause + " ORDER BY invoice_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&invoices, query, args...); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) FindBills(scopeID string, limit, offset int, search string) ([]models.PurchaseBill, int, error) {
	whereClause := "WHERE scope_id = ?"
	args := []interface{}{scopeID}
	if search != "" {
		whereClause += " AND (bill_number LIKE ? OR vendor LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM purchase_bills "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	var bills []models.PurchaseBill
	query := "SELECT * FROM purchase_bills " + whereClause + " ORDER BY bill_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&bills, query, args...); err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *InvoiceRepository) UpdateInvoicePaymentStatus(scopeID, docID, status string) error {
	query := "UPDATE sales_invoices SET payment_status = ? WHERE scope_id = ? AND doc_id = ?"
	if _, err := r.db.Exec(query, status, scopeID, docID); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

// DeleteInvoice removes an invoice and its line items. Posted invoices must
// be unposted first; the handler enforces that.
func (r *InvoiceRepository) DeleteInvoice(scopeID, docID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM line_items WHERE doc_id = ?", docID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM sales_invoices WHERE scope_id = ? AND doc_id = ?", scopeID, docID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *InvoiceRepository) DeleteBill(scopeID, docID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM line_items WHERE doc_id = ?", docID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM purchase_bills WHERE scope_id = ? AND doc_id = ?", scopeID, docID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

package models

// SourceDocument is the tagged union of everything that can be posted to the
// ledger. The posting engine dispatches on the concrete type; adding a new
// source means adding a variant here and a case there.
type SourceDocument interface {
	SourceType() string
	SourceDocID() string
}

func (t BankTransaction) SourceType() string  { return SourceBankTransaction }
func (t BankTransaction) SourceDocID() string { return t.DocID }

func (s JournalSet) SourceType() string  { return SourceJournalEntry }
func (s JournalSet) SourceDocID() string { return s.JournalSetID }

func (i SalesInvoice) SourceType() string  { return SourceSalesInvoice }
func (i SalesInvoice) SourceDocID() string { return i.DocID }

func (b PurchaseBill) SourceType() string  { return SourcePurchaseBill }
func (b PurchaseBill) SourceDocID() string { return b.DocID }

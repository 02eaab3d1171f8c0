package service

import (
	"fmt"
	"math"
	"sync"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/utils"

	"github.com/google/uuid"
)

// PostingEngine turns approved source documents into balanced ledger
// postings and reverses them. All writes are all-or-nothing per document;
// operations on the same document are serialized through a per-document lock
// plus an approval-flag re-read right before commit.
type PostingEngine struct {
	ledger    LedgerStore
	accounts  AccountStore
	contacts  ContactStore
	documents DocumentStore

	arAccount string
	apAccount string

	mu       sync.Mutex
	docLocks map[string]*sync.Mutex
}

func NewPostingEngine(ledger LedgerStore, accounts AccountStore, contacts ContactStore, documents DocumentStore, arAccount, apAccount string) *PostingEngine {
	return &PostingEngine{
		ledger:    ledger,
		accounts:  accounts,
		contacts:  contacts,
		documents: documents,
		arAccount: arAccount,
		apAccount: apAccount,
		docLocks:  make(map[string]*sync.Mutex),
	}
}

// lockDocument serializes post/unpost per source document id.
func (e *PostingEngine) lockDocument(docID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.docLocks[docID]; !exists {
		e.docLocks[docID] = &sync.Mutex{}
	}
	return e.docLocks[docID]
}

// PostDocument converts one source document into ledger postings and writes
// them. The document must reference only GL accounts that resolve against the
// chart of accounts; otherwise nothing is written and an
// UnresolvedAccountError is returned.
func (e *PostingEngine) PostDocument(scopeID string, doc models.SourceDocument) ([]models.LedgerPosting, error) {
	docID := doc.SourceDocID()
	if docID == "" {
		return nil, fmt.Errorf("document has no id")
	}

	lock := e.lockDocument(docID)
	lock.Lock()
	defer lock.Unlock()

	// Fresh chart-of-accounts snapshot per operation.
	accounts, err := e.accounts.ListByScope(scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	resolver := NewAccountResolver(accounts)

	postings, err := e.toPostings(scopeID, doc, resolver)
	if err != nil {
		return nil, err
	}

	// Defensive re-check before committing. Bank transactions are a
	// deliberate single-leg special case: the offsetting cash flow is
	// implicit, so no balance holds for them.
	if doc.SourceType() != models.SourceBankTransaction {
		var debits, credits float64
		for _, p := range postings {
			debits += p.Debit()
			credits += p.Credit()
		}
		if math.Abs(debits-credits) > balanceTolerance {
			return nil, &ImbalanceError{DocID: docID, Debits: debits, Credits: credits}
		}
	}

	e.ensureContact(scopeID, doc)

	// Optimistic check: abort if another operation approved this document
	// between our lock acquisition and now (e.g. a different engine
	// instance).
	approved, err := e.documents.IsLedgerApproved(scopeID, doc.SourceType(), docID)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, &AlreadyPostedError{DocID: docID}
	}

	if err := e.ledger.AppendAll(postings); err != nil {
		return nil, fmt.Errorf("failed to write postings for %s: %w", docID, err)
	}

	if err := e.documents.SetLedgerApproved(scopeID, doc.SourceType(), docID, true); err != nil {
		// Roll the postings back rather than leave the ledger and the
		// document disagreeing about approval.
		if _, delErr := e.ledger.DeleteBySource(scopeID, docID); delErr != nil {
			utils.GetLogger().WithField("doc_id", docID).Errorf("rollback after approval failure also failed: %v", delErr)
		}
		return nil, fmt.Errorf("failed to mark %s as approved: %w", docID, err)
	}

	return postings, nil
}

// PostBatch posts independent documents, skipping any that fail and
// recording the reason. One document's failure never aborts the batch.
func (e *PostingEngine) PostBatch(scopeID string, docs []models.SourceDocument) models.PostBatchResult {
	result := models.PostBatchResult{
		BatchCode: uuid.New().String(),
		Requested: len(docs),
		Skipped:   make(map[string]string),
	}

	for _, doc := range docs {
		if _, err := e.PostDocument(scopeID, doc); err != nil {
			result.Skipped[doc.SourceDocID()] = err.Error()
			continue
		}
		result.PostedCount++
	}

	return result
}

// Unpost deletes every posting tagged with the document id (including linked
// payment postings sharing it) and flips the approval flag back. Unposting a
// document with no postings is a no-op.
func (e *PostingEngine) Unpost(scopeID, source, docID string) error {
	lock := e.lockDocument(docID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := e.ledger.DeleteBySource(scopeID, docID); err != nil {
		return fmt.Errorf("failed to delete postings for %s: %w", docID, err)
	}

	return e.documents.SetLedgerApproved(scopeID, source, docID, false)
}

// RecordInvoicePayment posts a payment leg against a posted sales invoice: a
// debit into the deposit account and a credit releasing Accounts Receivable.
// Payment postings share the invoice's source doc id, so unposting the
// invoice reverses them too. Returns the postings and the invoice's resulting
// payment status.
func (e *PostingEngine) RecordInvoicePayment(scopeID string, inv models.SalesInvoice, payment models.InvoicePaymentRequest) ([]models.LedgerPosting, string, error) {
	docID := inv.DocID
	if docID == "" {
		return nil, "", fmt.Errorf("invoice has no id")
	}

	lock := e.lockDocument(docID)
	lock.Lock()
	defer lock.Unlock()

	if payment.Amount <= 0 {
		return nil, "", &ValidationError{DocID: docID, Errors: []string{"payment amount must be positive"}}
	}

	// The AR debit the payment releases only exists once the invoice is
	// posted.
	approved, err := e.documents.IsLedgerApproved(scopeID, models.SourceSalesInvoice, docID)
	if err != nil {
		return nil, "", err
	}
	if !approved {
		return nil, "", &ValidationError{DocID: docID, Errors: []string{"invoice must be posted before recording a payment"}}
	}

	accounts, err := e.accounts.ListByScope(scopeID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	resolver := NewAccountResolver(accounts)

	var missing []string
	deposit, ok := resolver.Resolve(payment.DepositAccount)
	if !ok {
		missing = append(missing, payment.DepositAccount)
	}
	arAccount, ok := resolver.Resolve(e.arAccount)
	if !ok {
		missing = append(missing, e.arAccount)
	}
	if len(missing) > 0 {
		return nil, "", &UnresolvedAccountError{DocID: docID, GLAccounts: missing}
	}

	existing, err := e.ledger.FindBySource(scopeID, docID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read postings for %s: %w", docID, err)
	}
	var paid float64
	for _, p := range existing {
		if p.Source == models.SourceSalesInvoicePayment && p.GLAccount == arAccount.GLAccount {
			paid += p.Credit()
		}
	}
	outstanding := inv.TotalAmount - paid
	if payment.Amount > outstanding+balanceTolerance {
		return nil, "", &ValidationError{DocID: docID, Errors: []string{
			fmt.Sprintf("payment (%.2f) exceeds outstanding balance (%.2f)", payment.Amount, outstanding),
		}}
	}

	customer := inv.Customer
	amount := payment.Amount
	description := fmt.Sprintf("Payment for Invoice %s - %s", inv.InvoiceNumber, inv.Customer)
	postings := []models.LedgerPosting{
		{
			ScopeID:     scopeID,
			Date:        payment.Date,
			Description: description,
			Source:      models.SourceSalesInvoicePayment,
			SourceDocID: docID,
			Customer:    &customer,
			GLAccount:   deposit.GLAccount,
			DebitAmount: &amount,
		},
		{
			ScopeID:      scopeID,
			Date:         payment.Date,
			Description:  description,
			Source:       models.SourceSalesInvoicePayment,
			SourceDocID:  docID,
			Customer:     &customer,
			GLAccount:    arAccount.GLAccount,
			CreditAmount: &amount,
		},
	}

	if err := e.ledger.AppendAll(postings); err != nil {
		return nil, "", fmt.Errorf("failed to write payment postings for %s: %w", docID, err)
	}

	status := models.PaymentStatusPartial
	if paid+payment.Amount >= inv.TotalAmount-balanceTolerance {
		status = models.PaymentStatusPaid
	}
	return postings, status, nil
}

// toPostings builds the posting rows for one document, per variant.
func (e *PostingEngine) toPostings(scopeID string, doc models.SourceDocument, resolver *AccountResolver) ([]models.LedgerPosting, error) {
	switch d := doc.(type) {
	case models.BankTransaction:
		return e.bankPostings(scopeID, d, resolver)
	case models.JournalSet:
		return e.journalPostings(scopeID, d, resolver)
	case models.SalesInvoice:
		return e.invoicePostings(scopeID, d, resolver)
	case models.PurchaseBill:
		return e.billPostings(scopeID, d, resolver)
	}
	return nil, fmt.Errorf("unsupported document type %T", doc)
}

// bankPostings emits the single-leg bank entry: a debit into the bank's own
// GL when money was received, a credit when money was paid out.
func (e *PostingEngine) bankPostings(scopeID string, txn models.BankTransaction, resolver *AccountResolver) ([]models.LedgerPosting, error) {
	account, ok := resolver.Resolve(txn.GLAccount)
	if !ok {
		return nil, &UnresolvedAccountError{DocID: txn.DocID, GLAccounts: []string{txn.GLAccount}}
	}
	if txn.Amount <= 0 {
		return nil, &ValidationError{DocID: txn.DocID, Errors: []string{"amount must be positive"}}
	}

	posting := models.LedgerPosting{
		ScopeID:     scopeID,
		Date:        txn.Date,
		Description: txn.Description,
		Source:      models.SourceBankTransaction,
		SourceDocID: txn.DocID,
		GLAccount:   account.GLAccount,
	}

	amount := txn.Amount
	switch txn.Direction {
	case models.BankMoneyReceived:
		posting.DebitAmount = &amount
		if txn.Counterparty != "" {
			name := txn.Counterparty
			posting.Customer = &name
		}
	case models.BankMoneyPaid:
		posting.CreditAmount = &amount
		if txn.Counterparty != "" {
			name := txn.Counterparty
			posting.Vendor = &name
		}
	default:
		return nil, &ValidationError{DocID: txn.DocID, Errors: []string{fmt.Sprintf("unknown direction %q", txn.Direction)}}
	}

	return []models.LedgerPosting{posting}, nil
}

// journalPostings mirrors each journal line 1:1 into a posting.
func (e *PostingEngine) journalPostings(scopeID string, set models.JournalSet, resolver *AccountResolver) ([]models.LedgerPosting, error) {
	if errs := ValidateJournalLines(set.Lines); len(errs) > 0 {
		return nil, &ValidationError{DocID: set.JournalSetID, Errors: errs}
	}

	var missing []string
	postings := make([]models.LedgerPosting, 0, len(set.Lines))
	for _, line := range set.Lines {
		account, ok := resolver.Resolve(line.GLAccount)
		if !ok {
			missing = append(missing, line.GLAccount)
			continue
		}

		posting := models.LedgerPosting{
			ScopeID:      scopeID,
			Date:         line.Date,
			Description:  line.Description,
			Source:       models.SourceJournalEntry,
			SourceDocID:  set.JournalSetID,
			GLAccount:    account.GLAccount,
			DebitAmount:  line.DebitAmount,
			CreditAmount: line.CreditAmount,
		}
		if line.VendorOrCustomer != "" {
			name := line.VendorOrCustomer
			// Income-side counterparties are customers, expense-side are
			// vendors; for anything else the name is not attributable.
			switch {
			case containsIncome(account.Type):
				posting.Customer = &name
			case containsExpense(account.Type):
				posting.Vendor = &name
			}
		}
		postings = append(postings, posting)
	}

	if len(missing) > 0 {
		return nil, &UnresolvedAccountError{DocID: set.JournalSetID, GLAccounts: missing}
	}
	return postings, nil
}

// invoicePostings emits one credit per line item against its revenue account
// plus one debit against the Accounts Receivable control account for the
// invoice total.
func (e *PostingEngine) invoicePostings(scopeID string, inv models.SalesInvoice, resolver *AccountResolver) ([]models.LedgerPosting, error) {
	if errs := validateLineItems(inv.LineItems, inv.TotalAmount); len(errs) > 0 {
		return nil, &ValidationError{DocID: inv.DocID, Errors: errs}
	}

	arAccount, ok := resolver.Resolve(e.arAccount)
	var missing []string
	if !ok {
		missing = append(missing, e.arAccount)
	}

	customer := inv.Customer
	postings := make([]models.LedgerPosting, 0, len(inv.LineItems)+1)
	for _, item := range inv.LineItems {
		account, resolved := resolver.Resolve(item.GLAccount)
		if !resolved {
			missing = append(missing, item.GLAccount)
			continue
		}
		amount := item.Amount
		postings = append(postings, models.LedgerPosting{
			ScopeID:      scopeID,
			Date:         inv.Date,
			Description:  item.Description,
			Source:       models.SourceSalesInvoice,
			SourceDocID:  inv.DocID,
			Customer:     &customer,
			GLAccount:    account.GLAccount,
			CreditAmount: &amount,
		})
	}

	if len(missing) > 0 {
		return nil, &UnresolvedAccountError{DocID: inv.DocID, GLAccounts: missing}
	}

	total := inv.TotalAmount
	postings = append(postings, models.LedgerPosting{
		ScopeID:     scopeID,
		Date:        inv.Date,
		Description: fmt.Sprintf("Invoice %s - %s", inv.InvoiceNumber, inv.Customer),
		Source:      models.SourceSalesInvoice,
		SourceDocID: inv.DocID,
		Customer:    &customer,
		GLAccount:   arAccount.GLAccount,
		DebitAmount: &total,
	})

	return postings, nil
}

// billPostings is the mirror image: one debit per expense line plus one
// credit against Accounts Payable for the bill total.
func (e *PostingEngine) billPostings(scopeID string, bill models.PurchaseBill, resolver *AccountResolver) ([]models.LedgerPosting, error) {
	if errs := validateLineItems(bill.LineItems, bill.TotalAmount); len(errs) > 0 {
		return nil, &ValidationError{DocID: bill.DocID, Errors: errs}
	}

	apAccount, ok := resolver.Resolve(e.apAccount)
	var missing []string
	if !ok {
		missing = append(missing, e.apAccount)
	}

	vendor := bill.Vendor
	postings := make([]models.LedgerPosting, 0, len(bill.LineItems)+1)
	for _, item := range bill.LineItems {
		account, resolved := resolver.Resolve(item.GLAccount)
		if !resolved {
			missing = append(missing, item.GLAccount)
			continue
		}
		amount := item.Amount
		postings = append(postings, models.LedgerPosting{
			ScopeID:     scopeID,
			Date:        bill.Date,
			Description: item.Description,
			Source:      models.SourcePurchaseBill,
			SourceDocID: bill.DocID,
			Vendor:      &vendor,
			GLAccount:   account.GLAccount,
			DebitAmount: &amount,
		})
	}

	if len(missing) > 0 {
		return nil, &UnresolvedAccountError{DocID: bill.DocID, GLAccounts: missing}
	}

	total := bill.TotalAmount
	postings = append(postings, models.LedgerPosting{
		ScopeID:      scopeID,
		Date:         bill.Date,
		Description:  fmt.Sprintf("Bill %s - %s", bill.BillNumber, bill.Vendor),
		Source:       models.SourcePurchaseBill,
		SourceDocID:  bill.DocID,
		Vendor:       &vendor,
		GLAccount:    apAccount.GLAccount,
		CreditAmount: &total,
	})

	return postings, nil
}

func validateLineItems(items []models.LineItem, totalAmount float64) []string {
	var errs []string
	if len(items) == 0 {
		errs = append(errs, "document must have at least one line item")
		return errs
	}

	var sum float64
	for i, item := range items {
		lineNo := i + 1
		if item.GLAccount == "" {
			errs = append(errs, fmt.Sprintf("line %d: GL account is required", lineNo))
		}
		if item.Amount <= 0 {
			errs = append(errs, fmt.Sprintf("line %d: amount must be positive", lineNo))
		}
		if math.Abs(item.Quantity*item.UnitPrice-item.Amount) > balanceTolerance {
			errs = append(errs, fmt.Sprintf("line %d: amount does not equal quantity * unit price", lineNo))
		}
		sum += item.Amount
	}

	if math.Abs(sum-totalAmount) > balanceTolerance {
		errs = append(errs, fmt.Sprintf("total amount (%.2f) does not equal sum of line items (%.2f)", totalAmount, sum))
	}
	return errs
}

// ensureContact auto-creates a missing counterparty contact. Contacts are a
// collaborator, not a ledger invariant: failures are logged and posting
// continues.
func (e *PostingEngine) ensureContact(scopeID string, doc models.SourceDocument) {
	var name, contactType string
	switch d := doc.(type) {
	case models.BankTransaction:
		name = d.Counterparty
		if d.Direction == models.BankMoneyReceived {
			contactType = models.ContactCustomer
		} else {
			contactType = models.ContactVendor
		}
	case models.SalesInvoice:
		name = d.Customer
		contactType = models.ContactCustomer
	case models.PurchaseBill:
		name = d.Vendor
		contactType = models.ContactVendor
	}
	if name == "" {
		return
	}

	log := utils.GetLogger()
	existing, err := e.contacts.FindByName(scopeID, name, "")
	if err != nil {
		log.WithField("contact", name).Warnf("contact lookup failed: %v", err)
		return
	}
	if existing != nil {
		return
	}

	contact := &models.Contact{ScopeID: scopeID, Name: name, Type: contactType}
	if err := e.contacts.Create(contact); err != nil {
		log.WithField("contact", name).Warnf("contact auto-creation failed: %v", err)
	}
}

func containsIncome(accountType string) bool {
	return accountType == models.TypeDirectIncome || accountType == models.TypeIndirectIncome
}

func containsExpense(accountType string) bool {
	return accountType == models.TypeDirectExpense || accountType == models.TypeIndirectExpense
}

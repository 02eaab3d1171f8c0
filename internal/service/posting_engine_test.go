package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/models"
)

// In-memory collaborators; shared with the report engine tests.

type fakeLedger struct {
	postings   []models.LedgerPosting
	failAppend bool
}

func (f *fakeLedger) AppendAll(postings []models.LedgerPosting) error {
	if f.failAppend {
		return errors.New("append failed")
	}
	f.postings = append(f.postings, postings...)
	return nil
}

func (f *fakeLedger) DeleteBySource(scopeID, sourceDocID string) (int64, error) {
	var kept []models.LedgerPosting
	var deleted int64
	for _, p := range f.postings {
		if p.ScopeID == scopeID && p.SourceDocID == sourceDocID {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	f.postings = kept
	return deleted, nil
}

func (f *fakeLedger) FindBySource(scopeID, sourceDocID string) ([]models.LedgerPosting, error) {
	var out []models.LedgerPosting
	for _, p := range f.postings {
		if p.ScopeID == scopeID && p.SourceDocID == sourceDocID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedger) Query(scopeID string, q models.LedgerQuery) ([]models.LedgerPosting, error) {
	var out []models.LedgerPosting
	for _, p := range f.postings {
		if p.ScopeID != scopeID {
			continue
		}
		if q.DateFrom != "" && p.Date < q.DateFrom {
			continue
		}
		if q.DateTo != "" && p.Date > q.DateTo {
			continue
		}
		if q.GLAccount != "" && p.GLAccount != q.GLAccount {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeAccounts struct {
	accounts []models.Account
}

func (f *fakeAccounts) ListByScope(scopeID string) ([]models.Account, error) {
	return f.accounts, nil
}

type fakeContacts struct {
	contacts  map[string]*models.Contact
	createErr error
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{contacts: map[string]*models.Contact{}}
}

func (f *fakeContacts) FindByName(scopeID, name, contactType string) (*models.Contact, error) {
	return f.contacts[name], nil
}

func (f *fakeContacts) Create(contact *models.Contact) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.contacts[contact.Name] = contact
	return nil
}

type fakeDocuments struct {
	approved map[string]bool
	failSet  bool
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{approved: map[string]bool{}}
}

func (f *fakeDocuments) key(scopeID, source, docID string) string {
	return fmt.Sprintf("%s/%s/%s", scopeID, source, docID)
}

func (f *fakeDocuments) IsLedgerApproved(scopeID, source, docID string) (bool, error) {
	return f.approved[f.key(scopeID, source, docID)], nil
}

func (f *fakeDocuments) SetLedgerApproved(scopeID, source, docID string, approved bool) error {
	if f.failSet {
		return errors.New("flag update failed")
	}
	f.approved[f.key(scopeID, source, docID)] = approved
	return nil
}

func testChartOfAccounts() []models.Account {
	return []models.Account{
		{GLAccount: "Cash", Type: models.TypeCurrentAsset, FS: models.FSBalanceSheet},
		{GLAccount: "Business Checking", Type: models.TypeCurrentAsset, FS: models.FSBalanceSheet},
		{GLAccount: "Accounts Receivable", Type: models.TypeCurrentAsset, FS: models.FSBalanceSheet},
		{GLAccount: "Accounts Payable", Type: models.TypeCurrentLiability, FS: models.FSBalanceSheet},
		{GLAccount: "Sales Revenue", Type: models.TypeDirectIncome, FS: models.FSProfitAndLoss},
		{GLAccount: "Rent Expense", Type: models.TypeDirectExpense, FS: models.FSProfitAndLoss},
		{GLAccount: "Owner's Equity", Type: models.TypeEquity, FS: models.FSBalanceSheet},
	}
}

type engineFixture struct {
	engine    *PostingEngine
	ledger    *fakeLedger
	contacts  *fakeContacts
	documents *fakeDocuments
}

func newEngineFixture() *engineFixture {
	ledger := &fakeLedger{}
	contacts := newFakeContacts()
	documents := newFakeDocuments()
	engine := NewPostingEngine(ledger, &fakeAccounts{accounts: testChartOfAccounts()}, contacts, documents, "Accounts Receivable", "Accounts Payable")
	return &engineFixture{engine: engine, ledger: ledger, contacts: contacts, documents: documents}
}

func testJournalSet(id string) models.JournalSet {
	return models.JournalSet{
		JournalSetID: id,
		Lines: []models.JournalEntryLine{
			{Date: "2024-01-15", Description: "January rent", GLAccount: "Rent Expense", VendorOrCustomer: "Acme Properties", DebitAmount: fl(1200)},
			{Date: "2024-01-15", Description: "January rent", GLAccount: "Cash", CreditAmount: fl(1200)},
		},
	}
}

func TestPostBankTransactionSingleLeg(t *testing.T) {
	fx := newEngineFixture()

	txn := models.BankTransaction{
		DocID:        "bank-1",
		Date:         "2024-01-10",
		Description:  "Customer deposit",
		GLAccount:    "business checking",
		Direction:    models.BankMoneyReceived,
		Amount:       500,
		Counterparty: "Beta Corp",
	}

	postings, err := fx.engine.PostDocument("s1", txn)
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "Business Checking", p.GLAccount, "resolves to the canonical account name")
	assert.Equal(t, 500.0, p.Debit())
	assert.Zero(t, p.Credit())
	require.NotNil(t, p.Customer)
	assert.Equal(t, "Beta Corp", *p.Customer)

	approved, _ := fx.documents.IsLedgerApproved("s1", models.SourceBankTransaction, "bank-1")
	assert.True(t, approved)
}

func TestPostBankTransactionPaidCreditsVendor(t *testing.T) {
	fx := newEngineFixture()

	txn := models.BankTransaction{
		DocID:        "bank-2",
		Date:         "2024-01-11",
		GLAccount:    "Business Checking",
		Direction:    models.BankMoneyPaid,
		Amount:       75,
		Counterparty: "Acme Properties",
	}

	postings, err := fx.engine.PostDocument("s1", txn)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 75.0, postings[0].Credit())
	require.NotNil(t, postings[0].Vendor)
	assert.Equal(t, "Acme Properties", *postings[0].Vendor)
}

func TestPostJournalSetMirrorsLines(t *testing.T) {
	fx := newEngineFixture()

	postings, err := fx.engine.PostDocument("s1", testJournalSet("j1"))
	require.NoError(t, err)
	require.Len(t, postings, 2)

	var debits, credits float64
	for _, p := range postings {
		debits += p.Debit()
		credits += p.Credit()
		assert.Equal(t, models.SourceJournalEntry, p.Source)
		assert.Equal(t, "j1", p.SourceDocID)
	}
	assert.InDelta(t, debits, credits, 0.001)

	// Expense-side counterparty is attributed as a vendor.
	require.NotNil(t, postings[0].Vendor)
	assert.Equal(t, "Acme Properties", *postings[0].Vendor)
	assert.Nil(t, postings[0].Customer)
}

func TestPostRejectsUnknownAccount(t *testing.T) {
	fx := newEngineFixture()

	set := testJournalSet("j2")
	set.Lines[0].GLAccount = "Mystery Account"

	_, err := fx.engine.PostDocument("s1", set)

	var unresolved *UnresolvedAccountError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"Mystery Account"}, unresolved.GLAccounts)

	// Nothing may reach the ledger and the document stays unposted.
	assert.Empty(t, fx.ledger.postings)
	approved, _ := fx.documents.IsLedgerApproved("s1", models.SourceJournalEntry, "j2")
	assert.False(t, approved)
}

func TestPostInvoiceBalancesAgainstReceivable(t *testing.T) {
	fx := newEngineFixture()

	inv := models.SalesInvoice{
		DocID:         "inv-1",
		InvoiceNumber: "INV-001",
		Customer:      "Beta Corp",
		Date:          "2024-02-01",
		TotalAmount:   250,
		LineItems: []models.LineItem{
			{GLAccount: "Sales Revenue", Description: "Consulting", Quantity: 2, UnitPrice: 100, Amount: 200},
			{GLAccount: "Sales Revenue", Description: "Expenses", Quantity: 1, UnitPrice: 50, Amount: 50},
		},
	}

	postings, err := fx.engine.PostDocument("s1", inv)
	require.NoError(t, err)
	require.Len(t, postings, 3)

	var debits, credits float64
	for _, p := range postings {
		debits += p.Debit()
		credits += p.Credit()
		require.NotNil(t, p.Customer)
		assert.Equal(t, "Beta Corp", *p.Customer)
	}
	assert.InDelta(t, 250, debits, 0.001)
	assert.InDelta(t, 250, credits, 0.001)

	// The control-account leg carries the invoice total.
	last := postings[len(postings)-1]
	assert.Equal(t, "Accounts Receivable", last.GLAccount)
	assert.Equal(t, 250.0, last.Debit())
}

func TestPostBillMirrorsInvoice(t *testing.T) {
	fx := newEngineFixture()

	bill := models.PurchaseBill{
		DocID:       "bill-1",
		BillNumber:  "BILL-001",
		Vendor:      "Acme Properties",
		Date:        "2024-02-05",
		TotalAmount: 300,
		LineItems: []models.LineItem{
			{GLAccount: "Rent Expense", Description: "Office rent", Quantity: 1, UnitPrice: 300, Amount: 300},
		},
	}

	postings, err := fx.engine.PostDocument("s1", bill)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, 300.0, postings[0].Debit())
	assert.Equal(t, "Rent Expense", postings[0].GLAccount)
	assert.Equal(t, "Accounts Payable", postings[1].GLAccount)
	assert.Equal(t, 300.0, postings[1].Credit())
}

func TestPostInvoiceRejectsMismatchedTotals(t *testing.T) {
	fx := newEngineFixture()

	inv := models.SalesInvoice{
		DocID:       "inv-2",
		Customer:    "Beta Corp",
		Date:        "2024-02-01",
		TotalAmount: 999,
		LineItems: []models.LineItem{
			{GLAccount: "Sales Revenue", Quantity: 1, UnitPrice: 200, Amount: 200},
		},
	}

	_, err := fx.engine.PostDocument("s1", inv)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, fx.ledger.postings)
}

func TestPostDocumentAlreadyPosted(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.engine.PostDocument("s1", testJournalSet("j3"))
	require.NoError(t, err)

	_, err = fx.engine.PostDocument("s1", testJournalSet("j3"))
	var already *AlreadyPostedError
	require.ErrorAs(t, err, &already)

	// First posting is still intact.
	assert.Len(t, fx.ledger.postings, 2)
}

func TestPostDocumentNothingWrittenOnAppendFailure(t *testing.T) {
	fx := newEngineFixture()
	fx.ledger.failAppend = true

	_, err := fx.engine.PostDocument("s1", testJournalSet("j4"))
	require.Error(t, err)

	assert.Empty(t, fx.ledger.postings)
	approved, _ := fx.documents.IsLedgerApproved("s1", models.SourceJournalEntry, "j4")
	assert.False(t, approved)
}

func TestPostDocumentRollsBackWhenApprovalFails(t *testing.T) {
	fx := newEngineFixture()
	fx.documents.failSet = true

	_, err := fx.engine.PostDocument("s1", testJournalSet("j5"))
	require.Error(t, err)

	// Postings written before the flag failure must be rolled back.
	assert.Empty(t, fx.ledger.postings)
}

func TestUnpostRoundTrip(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.engine.PostDocument("s1", testJournalSet("j6"))
	require.NoError(t, err)
	require.Len(t, fx.ledger.postings, 2)

	require.NoError(t, fx.engine.Unpost("s1", models.SourceJournalEntry, "j6"))
	assert.Empty(t, fx.ledger.postings)
	approved, _ := fx.documents.IsLedgerApproved("s1", models.SourceJournalEntry, "j6")
	assert.False(t, approved)

	// Unposting again is a no-op, not an error.
	require.NoError(t, fx.engine.Unpost("s1", models.SourceJournalEntry, "j6"))
}

func TestPostBatchSkipsFailuresIndependently(t *testing.T) {
	fx := newEngineFixture()

	bad := testJournalSet("bad")
	bad.Lines[0].GLAccount = "Mystery Account"

	result := fx.engine.PostBatch("s1", []models.SourceDocument{
		testJournalSet("good"),
		bad,
	})

	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 1, result.PostedCount)
	require.Contains(t, result.Skipped, "bad")
	assert.Contains(t, result.Skipped["bad"], "Mystery Account")
	assert.NotEmpty(t, result.BatchCode)

	// The good document's postings landed.
	assert.Len(t, fx.ledger.postings, 2)
}

func TestPostAutoCreatesContact(t *testing.T) {
	fx := newEngineFixture()

	inv := models.SalesInvoice{
		DocID:       "inv-3",
		Customer:    "New Customer LLC",
		Date:        "2024-03-01",
		TotalAmount: 100,
		LineItems: []models.LineItem{
			{GLAccount: "Sales Revenue", Quantity: 1, UnitPrice: 100, Amount: 100},
		},
	}

	_, err := fx.engine.PostDocument("s1", inv)
	require.NoError(t, err)

	contact := fx.contacts.contacts["New Customer LLC"]
	require.NotNil(t, contact)
	assert.Equal(t, models.ContactCustomer, contact.Type)
}

func TestPostSucceedsWhenContactCreationFails(t *testing.T) {
	fx := newEngineFixture()
	fx.contacts.createErr = errors.New("contacts table unavailable")

	txn := models.BankTransaction{
		DocID:        "bank-3",
		Date:         "2024-01-12",
		GLAccount:    "Business Checking",
		Direction:    models.BankMoneyReceived,
		Amount:       40,
		Counterparty: "Beta Corp",
	}

	_, err := fx.engine.PostDocument("s1", txn)
	require.NoError(t, err, "contact failures must never block posting")
	assert.Len(t, fx.ledger.postings, 1)
}

func testSalesInvoice(id string, total float64) models.SalesInvoice {
	return models.SalesInvoice{
		DocID:         id,
		InvoiceNumber: "INV-100",
		Customer:      "Beta Corp",
		Date:          "2024-03-01",
		TotalAmount:   total,
		LineItems: []models.LineItem{
			{GLAccount: "Sales Revenue", Description: "Consulting", Quantity: 1, UnitPrice: total, Amount: total},
		},
	}
}

func TestRecordInvoicePaymentPartialThenPaid(t *testing.T) {
	fx := newEngineFixture()

	inv := testSalesInvoice("inv-10", 250)
	_, err := fx.engine.PostDocument("s1", inv)
	require.NoError(t, err)

	payment := models.InvoicePaymentRequest{Date: "2024-03-10", Amount: 100, DepositAccount: "business checking"}
	postings, status, err := fx.engine.RecordInvoicePayment("s1", inv, payment)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, status)
	require.Len(t, postings, 2)

	// Debit lands in the canonical deposit account, credit releases AR,
	// and both carry the invoice's doc id so unposting sweeps them up.
	assert.Equal(t, "Business Checking", postings[0].GLAccount)
	assert.Equal(t, 100.0, postings[0].Debit())
	assert.Equal(t, "Accounts Receivable", postings[1].GLAccount)
	assert.Equal(t, 100.0, postings[1].Credit())
	for _, p := range postings {
		assert.Equal(t, models.SourceSalesInvoicePayment, p.Source)
		assert.Equal(t, "inv-10", p.SourceDocID)
		require.NotNil(t, p.Customer)
		assert.Equal(t, "Beta Corp", *p.Customer)
	}

	_, status, err = fx.engine.RecordInvoicePayment("s1", inv, models.InvoicePaymentRequest{Date: "2024-03-20", Amount: 150, DepositAccount: "Cash"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, status)
}

func TestRecordInvoicePaymentRequiresPostedInvoice(t *testing.T) {
	fx := newEngineFixture()

	inv := testSalesInvoice("inv-11", 250)
	_, _, err := fx.engine.RecordInvoicePayment("s1", inv, models.InvoicePaymentRequest{Date: "2024-03-10", Amount: 50, DepositAccount: "Cash"})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, fx.ledger.postings)
}

func TestRecordInvoicePaymentRejectsOverpayment(t *testing.T) {
	fx := newEngineFixture()

	inv := testSalesInvoice("inv-12", 200)
	_, err := fx.engine.PostDocument("s1", inv)
	require.NoError(t, err)

	_, _, err = fx.engine.RecordInvoicePayment("s1", inv, models.InvoicePaymentRequest{Date: "2024-03-10", Amount: 150, DepositAccount: "Cash"})
	require.NoError(t, err)

	// Only 50 is still outstanding.
	_, _, err = fx.engine.RecordInvoicePayment("s1", inv, models.InvoicePaymentRequest{Date: "2024-03-15", Amount: 60, DepositAccount: "Cash"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestUnpostInvoiceRemovesPayments(t *testing.T) {
	fx := newEngineFixture()

	inv := testSalesInvoice("inv-13", 120)
	_, err := fx.engine.PostDocument("s1", inv)
	require.NoError(t, err)

	_, _, err = fx.engine.RecordInvoicePayment("s1", inv, models.InvoicePaymentRequest{Date: "2024-03-10", Amount: 120, DepositAccount: "Cash"})
	require.NoError(t, err)
	require.NotEmpty(t, fx.ledger.postings)

	require.NoError(t, fx.engine.Unpost("s1", models.SourceSalesInvoice, "inv-13"))
	assert.Empty(t, fx.ledger.postings, "payment postings share the invoice's doc id and go with it")
}

package service

import (
	"fmt"
	"strings"
)

// UnresolvedAccountError means a document references a GL account name that
// does not resolve against the chart of accounts. The whole document is
// rejected; posting is never split within one document.
type UnresolvedAccountError struct {
	DocID      string
	GLAccounts []string
}

func (e *UnresolvedAccountError) Error() string {
	return fmt.Sprintf("document %s: missing GL account(s): %s", e.DocID, strings.Join(e.GLAccounts, ", "))
}

// ImbalanceError means debits did not equal credits for a document about to
// be written. Upstream validation should have caught this; it is re-checked
// before every commit anyway.
type ImbalanceError struct {
	DocID   string
	Debits  float64
	Credits float64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("document %s: debits (%.2f) != credits (%.2f), difference %.2f",
		e.DocID, e.Debits, e.Credits, e.Debits-e.Credits)
}

// ValidationError carries every validation failure found in one document so
// the user can fix them all at once.
type ValidationError struct {
	DocID  string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document %s: %s", e.DocID, strings.Join(e.Errors, "; "))
}

// AlreadyPostedError means the document's postings already exist in the
// ledger. Re-posting requires an unpost first.
type AlreadyPostedError struct {
	DocID string
}

func (e *AlreadyPostedError) Error() string {
	return fmt.Sprintf("document %s is already posted to the ledger", e.DocID)
}

package models

import "time"

// Account types recognized by the chart of accounts.
const (
	TypeDirectIncome        = "Direct Income"
	TypeIndirectIncome      = "Indirect Income"
	TypeDirectExpense       = "Direct Expense"
	TypeIndirectExpense     = "Indirect Expense"
	TypeNonCurrentAsset     = "Non Current Asset"
	TypeCurrentAsset        = "Current Asset"
	TypeCurrentLiability    = "Current Liability"
	TypeNonCurrentLiability = "Non Current Liability"
	TypeEquity              = "Equity"
)

// Financial statement mappings.
const (
	FSProfitAndLoss = "Profit and Loss"
	FSBalanceSheet  = "Balance Sheet"
)

// AccountTypes lists every valid account type, in display order.
var AccountTypes = []string{
	TypeDirectIncome,
	TypeIndirectIncome,
	TypeDirectExpense,
	TypeIndirectExpense,
	TypeNonCurrentAsset,
	TypeCurrentAsset,
	TypeCurrentLiability,
	TypeNonCurrentLiability,
	TypeEquity,
}

type Account struct {
	ID            int       `db:"id" json:"id"`
	ScopeID       string    `db:"scope_id" json:"scope_id"`
	GLAccount     string    `db:"gl_account" json:"gl_account"`
	SubType       string    `db:"sub_type" json:"sub_type"`
	Type          string    `db:"account_type" json:"account_type"`
	FS            string    `db:"fs" json:"fs"`
	AccountNumber string    `db:"account_number" json:"account_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type AccountRequest struct {
	GLAccount     string `json:"gl_account" validate:"required"`
	SubType       string `json:"sub_type"`
	Type          string `json:"account_type"`
	FS            string `json:"fs"`
	AccountNumber string `json:"account_number"`
}

// DefaultFS returns the financial statement an account type naturally maps to.
// Income and expense types feed the Profit and Loss; everything else sits on
// the Balance Sheet. An empty type returns an empty string.
func DefaultFS(accountType string) string {
	switch accountType {
	case TypeDirectIncome, TypeIndirectIncome, TypeDirectExpense, TypeIndirectExpense:
		return FSProfitAndLoss
	case TypeNonCurrentAsset, TypeCurrentAsset, TypeCurrentLiability, TypeNonCurrentLiability, TypeEquity:
		return FSBalanceSheet
	}
	return ""
}

// IsValidAccountType reports whether t is one of the nine recognized types.
func IsValidAccountType(t string) bool {
	for _, valid := range AccountTypes {
		if t == valid {
			return true
		}
	}
	return false
}

package service

import (
	"fmt"
	"math"

	"bookkeeping-web/internal/models"
)

// balanceTolerance absorbs floating-point accumulation error, not real
// imbalance.
const balanceTolerance = 0.001

// ValidateJournalLines checks a journal entry set before it is eligible for
// posting. All violations are collected, not just the first; an empty slice
// means the set is valid. Pure function, no I/O.
func ValidateJournalLines(lines []models.JournalEntryLine) []string {
	var errs []string

	if len(lines) < 2 {
		errs = append(errs, "entry must have at least two lines")
	}

	var totalDebit, totalCredit float64
	for i, line := range lines {
		lineNo := i + 1

		if line.Description == "" {
			errs = append(errs, fmt.Sprintf("line %d: description is required", lineNo))
		}
		if line.GLAccount == "" {
			errs = append(errs, fmt.Sprintf("line %d: GL account is required", lineNo))
		}

		debit := 0.0
		if line.DebitAmount != nil {
			debit = *line.DebitAmount
		}
		credit := 0.0
		if line.CreditAmount != nil {
			credit = *line.CreditAmount
		}

		hasDebit := debit > 0
		hasCredit := credit > 0
		if hasDebit == hasCredit {
			errs = append(errs, fmt.Sprintf("line %d: must have exactly one of debit or credit greater than zero", lineNo))
		}

		totalDebit += debit
		totalCredit += credit
	}

	if diff := totalDebit - totalCredit; math.Abs(diff) > balanceTolerance {
		errs = append(errs, fmt.Sprintf("entry does not balance: debits (%.2f) != credits (%.2f), difference %.2f",
			totalDebit, totalCredit, diff))
	}

	return errs
}

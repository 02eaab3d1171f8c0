package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/models"
)

func fl(v float64) *float64 { return &v }

func line(gl string, debit, credit *float64) models.JournalEntryLine {
	return models.JournalEntryLine{
		Date:         "2024-01-15",
		Description:  "test entry",
		GLAccount:    gl,
		DebitAmount:  debit,
		CreditAmount: credit,
	}
}

func TestValidateJournalLinesBalanced(t *testing.T) {
	lines := []models.JournalEntryLine{
		line("Rent Expense", fl(100), nil),
		line("Cash", nil, fl(60)),
		line("Accounts Payable", nil, fl(40)),
	}

	assert.Empty(t, ValidateJournalLines(lines))
}

func TestValidateJournalLinesImbalance(t *testing.T) {
	lines := []models.JournalEntryLine{
		line("Rent Expense", fl(100), nil),
		line("Cash", nil, fl(50)),
	}

	errs := ValidateJournalLines(lines)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "difference 50.00")
}

func TestValidateJournalLinesTooFewLines(t *testing.T) {
	errs := ValidateJournalLines([]models.JournalEntryLine{
		line("Cash", fl(100), nil),
	})

	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "at least two lines")
}

func TestValidateJournalLinesExactlyOneSide(t *testing.T) {
	both := []models.JournalEntryLine{
		line("Cash", fl(100), fl(100)),
		line("Rent Expense", fl(100), nil),
	}
	errs := ValidateJournalLines(both)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "exactly one of debit or credit")

	neither := []models.JournalEntryLine{
		line("Cash", nil, nil),
		line("Rent Expense", fl(100), nil),
	}
	errs = ValidateJournalLines(neither)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "exactly one of debit or credit")
}

func TestValidateJournalLinesRequiredFields(t *testing.T) {
	lines := []models.JournalEntryLine{
		{Date: "2024-01-15", DebitAmount: fl(100)},
		line("Cash", nil, fl(100)),
	}

	errs := ValidateJournalLines(lines)
	assert.Contains(t, errs, "line 1: description is required")
	assert.Contains(t, errs, "line 1: GL account is required")
}

func TestValidateJournalLinesCollectsAllViolations(t *testing.T) {
	lines := []models.JournalEntryLine{
		{Date: "2024-01-15"},
	}

	errs := ValidateJournalLines(lines)
	// too few lines, missing description, missing GL, no side, imbalance is
	// within tolerance (0 vs 0) so four violations total
	assert.Len(t, errs, 4)
}

func TestValidateJournalLinesTolerance(t *testing.T) {
	lines := []models.JournalEntryLine{
		line("Rent Expense", fl(100.0004), nil),
		line("Cash", nil, fl(100)),
	}

	assert.Empty(t, ValidateJournalLines(lines))
}

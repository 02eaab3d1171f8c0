package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookkeeping-web/internal/models"
)

func writeWorkbook(t *testing.T, headers []string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range headers {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("%s1", getColumnName(i)), h))
	}
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), rowIdx+2)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseJournalGroupsBySetID(t *testing.T) {
	headers := append(append([]string{}, journalHeaders...), journalSetIDHeader)
	path := writeWorkbook(t, headers, [][]interface{}{
		{"2024-01-15", "Rent", "Rent Expense", "Acme Properties", 1200, "", "A"},
		{"2024-01-15", "Rent", "Cash", "", "", 1200, "A"},
		{"2024-02-01", "Sale", "Accounts Receivable", "Beta Corp", 500, "", "B"},
		{"2024-02-01", "Sale", "Sales Revenue", "Beta Corp", "", 500, "B"},
		{"2024-03-01", "Broken", "Cash", "", 75, "", "C"},
		{"2024-03-01", "Broken", "Sales Revenue", "", "", 40, "C"},
	})

	svc := NewExcelService()
	result, err := svc.ParseJournalWithValidation(path)
	require.NoError(t, err)

	require.Len(t, result.ValidSets, 2)
	assert.Equal(t, "A", result.ValidSets[0].JournalSetID)
	assert.Equal(t, "B", result.ValidSets[1].JournalSetID)
	assert.Len(t, result.ValidSets[0].Lines, 2)
	assert.Equal(t, 4, result.ValidCount)

	// Set C does not balance and is rejected as a whole.
	require.Contains(t, result.SetErrors, "C")
	assert.Contains(t, result.SetErrors["C"][0], "does not balance")
}

func TestParseJournalWholeFileIsOneSet(t *testing.T) {
	path := writeWorkbook(t, journalHeaders, [][]interface{}{
		{"2024-01-15", "Opening balance", "Cash", "", 900, ""},
		{"2024-01-15", "Opening balance", "Owner's Equity", "", "", 900},
	})

	svc := NewExcelService()
	result, err := svc.ParseJournalWithValidation(path)
	require.NoError(t, err)

	require.Len(t, result.ValidSets, 1)
	assert.Len(t, result.ValidSets[0].Lines, 2)
}

func TestParseJournalRejectsBadDates(t *testing.T) {
	path := writeWorkbook(t, journalHeaders, [][]interface{}{
		{"not a date", "Rent", "Rent Expense", "", 100, ""},
		{"2024-01-15", "Rent", "Cash", "", "", 100},
	})

	svc := NewExcelService()
	result, err := svc.ParseJournalWithValidation(path)
	require.NoError(t, err)

	assert.Empty(t, result.ValidSets)
	require.NotEmpty(t, result.ValidationErrors)
	assert.Equal(t, "Date", result.ValidationErrors[0].Field)
}

func TestParseAccountsWithValidation(t *testing.T) {
	path := writeWorkbook(t, accountHeaders, [][]interface{}{
		{"Cash", "Bank", models.TypeCurrentAsset, models.FSBalanceSheet, "1000"},
		{"Sales Revenue", "", models.TypeDirectIncome, "", "4000"},
		{"", "", models.TypeCurrentAsset, "", "1010"},
		{"Weird Account", "", "Imaginary Type", "", "9999"},
	})

	svc := NewExcelService()
	result, err := svc.ParseAccountsWithValidation(path)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.ValidCount)
	assert.Equal(t, 2, result.ErrorCount)

	// FS is inferred from the type when the column is blank.
	assert.Equal(t, models.FSProfitAndLoss, result.ValidAccounts[1].FS)

	fields := make([]string, 0, len(result.ValidationErrors))
	for _, e := range result.ValidationErrors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "Account Name")
	assert.Contains(t, fields, "Account Type")
}

func TestExportReportWritesWorkbook(t *testing.T) {
	result := &models.ReportResult{
		ReportType:  models.ReportProfitAndLoss,
		Granularity: models.GranularitySummary,
		Start:       "2024-01-01",
		End:         "2024-01-31",
		Sections: []models.ReportSection{
			{Label: "Income", Lines: []models.ReportLine{{GLAccount: "Sales Revenue", Amount: 1000, TotalAmount: 1000}}, Total: 1000},
			{Label: "Expenses", Lines: []models.ReportLine{{GLAccount: "Rent Expense", Amount: 300, TotalAmount: 300}}, Total: 300},
		},
		NetProfitLoss: 700,
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	svc := NewExcelService()
	require.NoError(t, svc.ExportReport(result, path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Profit and Loss")
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}

func TestParseFloatHandlesSpreadsheetValues(t *testing.T) {
	assert.Equal(t, 0.0, parseFloat("-"))
	assert.Equal(t, 0.0, parseFloat(""))
	assert.Equal(t, 1234.5, parseFloat("1,234.5"))
	assert.Equal(t, 42.0, parseFloat(" 42 "))

	assert.Nil(t, parseOptionalFloat(""))
	assert.Nil(t, parseOptionalFloat("-"))
	require.NotNil(t, parseOptionalFloat("0"))
	assert.Equal(t, 0.0, *parseOptionalFloat("0"))
}

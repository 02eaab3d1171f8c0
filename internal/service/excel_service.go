package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"bookkeeping-web/internal/models"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// journal import column layout
var journalHeaders = []string{
	"Date", "Description", "GL Account", "Vendor or Customer", "Debit Amount", "Credit Amount",
}

const journalSetIDHeader = "Journal Set ID"

// ParseJournalWithValidation parses a journal entry spreadsheet. Rows sharing
// a Journal Set ID form one entry; when the column is absent the whole file is
// treated as a single entry. Each set is balance-checked before it is
// accepted.
func (s *ExcelService) ParseJournalWithValidation(filePath string) (*models.JournalImportResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain at least header row and one data row")
	}

	header := rows[0]
	if len(header) < len(journalHeaders) {
		return nil, fmt.Errorf("invalid header format. Expected columns: %v", journalHeaders)
	}

	// The set column is optional and may appear anywhere after the fixed
	// columns.
	setCol := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), journalSetIDHeader) {
			setCol = i
			break
		}
	}

	result := &models.JournalImportResult{
		ValidSets:        []models.JournalSet{},
		ValidationErrors: []models.RowValidationError{},
		SetErrors:        map[string][]string{},
		TotalRows:        len(rows) - 1,
		ImportTime:       time.Now(),
	}

	setOrder := []string{}
	setLines := map[string][]models.JournalEntryLine{}
	setRowErrors := map[string]bool{}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			result.TotalRows--
			continue
		}

		setID := "1"
		if setCol >= 0 {
			if v := strings.TrimSpace(getCellValue(row, setCol)); v != "" {
				setID = v
			}
		}
		if _, seen := setLines[setID]; !seen {
			setOrder = append(setOrder, setID)
		}

		line := models.JournalEntryLine{
			JournalSetID:     setID,
			Description:      strings.TrimSpace(getCellValue(row, 1)),
			GLAccount:        strings.TrimSpace(getCellValue(row, 2)),
			VendorOrCustomer: strings.TrimSpace(getCellValue(row, 3)),
			DebitAmount:      parseOptionalFloat(getCellValue(row, 4)),
			CreditAmount:     parseOptionalFloat(getCellValue(row, 5)),
		}

		rowOK := true
		dateStr := strings.TrimSpace(getCellValue(row, 0))
		if dateStr == "" {
			result.ValidationErrors = append(result.ValidationErrors, models.RowValidationError{
				Row: i + 1, Field: "Date", Error: "Date is required", Value: dateStr,
			})
			rowOK = false
		} else if parsed, err := parseDate(dateStr); err != nil {
			result.ValidationErrors = append(result.ValidationErrors, models.RowValidationError{
				Row: i + 1, Field: "Date", Error: "unrecognized date format", Value: dateStr,
			})
			rowOK = false
		} else {
			line.Date = parsed.Format("2006-01-02")
		}

		if !rowOK {
			setRowErrors[setID] = true
		}
		setLines[setID] = append(setLines[setID], line)
	}

	for _, setID := range setOrder {
		lines := setLines[setID]
		if setRowErrors[setID] {
			result.SetErrors[setID] = append(result.SetErrors[setID], "set contains rows with invalid values")
			result.ErrorCount += len(lines)
			continue
		}
		if errs := ValidateJournalLines(lines); len(errs) > 0 {
			result.SetErrors[setID] = append(result.SetErrors[setID], errs...)
			result.ErrorCount += len(lines)
			continue
		}
		result.ValidSets = append(result.ValidSets, models.JournalSet{
			JournalSetID: setID,
			Lines:        lines,
		})
		result.ValidCount += len(lines)
	}

	return result, nil
}

// chart-of-accounts import column layout
var accountHeaders = []string{
	"Account Name", "Sub Type", "Account Type", "FS", "Account Number",
}

// ParseAccountsWithValidation parses a chart-of-accounts spreadsheet and
// returns valid accounts alongside per-row validation errors.
func (s *ExcelService) ParseAccountsWithValidation(filePath string) (*models.AccountImportResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain at least header row and one data row")
	}

	header := rows[0]
	if len(header) < len(accountHeaders) {
		return nil, fmt.Errorf("invalid header format. Expected columns: %v", accountHeaders)
	}

	result := &models.AccountImportResult{
		ValidAccounts:    []models.Account{},
		ValidationErrors: []models.RowValidationError{},
		TotalRows:        len(rows) - 1,
		ImportTime:       time.Now(),
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			result.TotalRows--
			continue
		}

		name := strings.TrimSpace(getCellValue(row, 0))
		subType := strings.TrimSpace(getCellValue(row, 1))
		accountType := strings.TrimSpace(getCellValue(row, 2))
		fs := strings.TrimSpace(getCellValue(row, 3))
		accountNumber := strings.TrimSpace(getCellValue(row, 4))

		rowErrors := s.validateAccountRow(i+1, name, accountType)
		if len(rowErrors) > 0 {
			result.ValidationErrors = append(result.ValidationErrors, rowErrors...)
			result.ErrorCount++
			continue
		}

		if fs == "" {
			fs = models.DefaultFS(accountType)
		}

		result.ValidAccounts = append(result.ValidAccounts, models.Account{
			GLAccount:     name,
			SubType:       subType,
			Type:          accountType,
			FS:            fs,
			AccountNumber: accountNumber,
		})
		result.ValidCount++
	}

	return result, nil
}

func (s *ExcelService) validateAccountRow(rowNum int, name, accountType string) []models.RowValidationError {
	var errors []models.RowValidationError

	if name == "" {
		errors = append(errors, models.RowValidationError{
			Row: rowNum, Field: "Account Name", Error: "Account Name is required", Value: name,
		})
	} else if len(name) > 200 {
		errors = append(errors, models.RowValidationError{
			Row: rowNum, Field: "Account Name", Error: "Account Name cannot exceed 200 characters", Value: name,
		})
	}

	if accountType == "" {
		errors = append(errors, models.RowValidationError{
			Row: rowNum, Field: "Account Type", Error: "Account Type is required", Value: accountType,
		})
	} else if !models.IsValidAccountType(accountType) {
		errors = append(errors, models.RowValidationError{
			Row: rowNum, Field: "Account Type",
			Error: fmt.Sprintf("Account Type must be one of: %v", models.AccountTypes),
			Value: accountType,
		})
	}

	return errors
}

// ExportAccounts writes the chart of accounts to an Excel file.
func (s *ExcelService) ExportAccounts(accounts []models.Account, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Chart of Accounts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range accountHeaders {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(accountHeaders)-1)), headerStyle)

	for i, account := range accounts {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), account.GLAccount)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), account.SubType)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), account.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), account.FS)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), account.AccountNumber)
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 22)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 15)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateJournalTemplate creates a template Excel file for journal entry
// upload.
func (s *ExcelService) GenerateJournalTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Journal Entries"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := append(append([]string{}, journalHeaders...), journalSetIDHeader)
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	sampleData := [][]interface{}{
		{"2024-01-31", "Monthly rent", "Rent Expense", "Acme Properties", 1200, "", "JRNL-001"},
		{"2024-01-31", "Monthly rent", "Cash", "", "", 1200, "JRNL-001"},
		{"2024-02-01", "Consulting revenue", "Accounts Receivable", "Beta Corp", 500, "", "JRNL-002"},
		{"2024-02-01", "Consulting revenue", "Consulting Income", "Beta Corp", "", 500, "JRNL-002"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructions:",
		"1. Date: Entry date (YYYY-MM-DD format)",
		"2. Description: Description of the entry",
		"3. GL Account: Account name (must match the Chart of Accounts)",
		"4. Vendor or Customer: Optional counterparty name",
		"5. Debit Amount / Credit Amount: Fill exactly one per row",
		"6. Journal Set ID: Rows sharing an ID form one balanced entry; leave blank to treat the whole file as one entry",
		"",
		"Note: Total debits must equal total credits within each Journal Set ID.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 25)
	f.SetColWidth(sheetName, "D", "D", 22)
	f.SetColWidth(sheetName, "E", "F", 15)
	f.SetColWidth(sheetName, "G", "G", 15)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateImportErrorReport creates an Excel report with import validation
// errors and a summary block.
func (s *ExcelService) GenerateImportErrorReport(errors []models.RowValidationError, totalRows, validCount, errorCount int, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Errors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"Row Number", "Field", "Error Message", "Invalid Value"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	for rowIdx, e := range errors {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Row)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Field)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Error)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Value)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 50)
	f.SetColWidth(sheetName, "D", "D", 25)

	summaryStartRow := len(errors) + 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow), "Import Summary")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+1), "Total Rows Processed:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+1), totalRows)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+2), "Valid Rows:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+2), validCount)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+3), "Errors Found:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+3), errorCount)

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryStartRow), fmt.Sprintf("A%d", summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// ExportReport writes a generated financial statement to an Excel workbook.
// Columnar reports get one column per period plus a total column.
func (s *ExcelService) ExportReport(result *models.ReportResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Profit and Loss"
	if result.ReportType == models.ReportBalanceSheet {
		sheetName = "Balance Sheet"
	}
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	f.SetCellValue(sheetName, "A1", sheetName)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("%s to %s", result.Start, result.End))
	f.SetCellStyle(sheetName, "A1", "A1", boldStyle)

	columnar := len(result.Periods) > 0

	row := 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Account")
	lastCol := 1
	if columnar {
		for i, p := range result.Periods {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", getColumnName(i+1), row), p.Label)
		}
		lastCol = len(result.Periods) + 1
		f.SetCellValue(sheetName, fmt.Sprintf("%s%d", getColumnName(lastCol), row), "Total")
	} else {
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "Amount")
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", getColumnName(lastCol), row), headerStyle)
	row++

	writeAmounts := func(r int, summary float64, periods []float64, total float64) {
		if columnar {
			for i, v := range periods {
				f.SetCellValue(sheetName, fmt.Sprintf("%s%d", getColumnName(i+1), r), v)
			}
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", getColumnName(lastCol), r), total)
		} else {
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), summary)
		}
	}

	for _, section := range result.Sections {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), section.Label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
		row++

		for _, line := range section.Lines {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.GLAccount)
			writeAmounts(row, line.Amount, line.PeriodAmounts, line.TotalAmount)
			row++
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Total %s", section.Label))
		writeAmounts(row, section.Total, section.PeriodTotals, section.Total)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
		row += 2
	}

	if result.ReportType == models.ReportProfitAndLoss {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Net Profit / Loss")
		writeAmounts(row, result.NetProfitLoss, result.NetProfitLossByPeriod, result.NetProfitLoss)
	} else {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total Liabilities and Equity")
		writeAmounts(row, result.TotalLiabilitiesAndEquity, result.TotalLiabilitiesAndEquityByPeriod, result.TotalLiabilitiesAndEquity)
		if result.DoesNotBalance {
			row += 2
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Warning: assets do not equal liabilities plus equity")
		}
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)

	if len(result.UnclassifiedGLAccounts) > 0 {
		row += 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Unclassified Accounts")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
		row++
		for _, u := range result.UnclassifiedGLAccounts {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), u.Name)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), u.Reason)
			row++
		}
	}

	f.SetColWidth(sheetName, "A", "A", 35)
	f.SetColWidth(sheetName, "B", getColumnName(lastCol), 16)

	numericStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2})
	for i := 1; i <= lastCol; i++ {
		colName := getColumnName(i)
		f.SetColStyle(sheetName, colName, numericStyle)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// Helper functions
func getCellValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)

	// Dash is a common spreadsheet stand-in for zero
	if s == "-" || s == "" {
		return 0.0
	}

	s = strings.ReplaceAll(s, ",", "")

	if result, err := strconv.ParseFloat(s, 64); err == nil {
		return result
	}

	var result float64
	fmt.Sscanf(s, "%f", &result)
	return result
}

// parseOptionalFloat distinguishes an empty cell from an explicit zero.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	v := parseFloat(s)
	return &v
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	formats := []string{
		"2006-01-02",            // YYYY-MM-DD (ISO standard)
		"01/02/2006",            // MM/DD/YYYY (US format)
		"01-02-06",              // MM-DD-YY (Excel US format with dash)
		"01/02/2006 3:04:05 PM", // MM/DD/YYYY with time
		"01/02/06",              // MM/DD/YY (short year)
		"2006/01/02",            // YYYY/MM/DD
		"02-01-2006",            // DD-MM-YYYY (European format)
		"Jan 02, 2006",          // Month DD, YYYY
		"02 Jan 2006",           // DD Month YYYY
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}

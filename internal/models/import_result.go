package models

import "time"

// RowValidationError represents a validation error for one imported row
type RowValidationError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Error string `json:"error"`
	Value string `json:"value"`
}

// AccountImportResult represents the result of a chart-of-accounts import
// with validation details
type AccountImportResult struct {
	ValidAccounts    []Account            `json:"valid_accounts"`
	ValidationErrors []RowValidationError `json:"validation_errors"`
	TotalRows        int                  `json:"total_rows"`
	ValidCount       int                  `json:"valid_count"`
	ErrorCount       int                  `json:"error_count"`
	ErrorReportPath  string               `json:"error_report_path,omitempty"`
	ImportTime       time.Time            `json:"import_time"`
}

// JournalImportResult represents the result of a journal-entry spreadsheet
// import. Rows are grouped into sets before validation, so errors are
// reported per set as well as per row.
type JournalImportResult struct {
	ValidSets        []JournalSet         `json:"valid_sets"`
	ValidationErrors []RowValidationError `json:"validation_errors"`
	SetErrors        map[string][]string  `json:"set_errors,omitempty"`
	TotalRows        int                  `json:"total_rows"`
	ValidCount       int                  `json:"valid_count"`
	ErrorCount       int                  `json:"error_count"`
	ErrorReportPath  string               `json:"error_report_path,omitempty"`
	ImportTime       time.Time            `json:"import_time"`
}

// PostBatchResult reports the outcome of posting a batch of independent
// documents. Failed documents are skipped with a reason; the rest post.
type PostBatchResult struct {
	BatchCode   string            `json:"batch_code"`
	Requested   int               `json:"requested"`
	PostedCount int               `json:"posted_count"`
	Skipped     map[string]string `json:"skipped,omitempty"` // doc id -> reason
}

package models

// Report types and granularities accepted by the report engine.
const (
	ReportProfitAndLoss = "ProfitAndLoss"
	ReportBalanceSheet  = "BalanceSheet"

	GranularitySummary   = "summary"
	GranularityMonthly   = "monthly"
	GranularityQuarterly = "quarterly"
)

// ReportRequest asks for one financial statement over a date range. Start and
// End are inclusive ISO YYYY-MM-DD dates.
type ReportRequest struct {
	ScopeID     string `json:"scope_id"`
	ReportType  string `json:"report_type"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Granularity string `json:"granularity"`
}

// Period is one calendar column of a columnar report. Start and End are
// inclusive ISO dates; the first and last periods are clipped to the
// requested range, interior ones cover whole months or quarters.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// ReportLine is one account row. Amount carries the summary figure; for
// columnar reports PeriodAmounts holds one value per period and TotalAmount
// the row total (for balance sheets, the final cumulative value).
type ReportLine struct {
	GLAccount     string    `json:"gl_account"`
	Amount        float64   `json:"amount"`
	PeriodAmounts []float64 `json:"period_amounts,omitempty"`
	TotalAmount   float64   `json:"total_amount"`
}

// ReportSection is a classified group of lines (Income, Expenses, Assets,
// Liabilities, Equity) with its subtotals.
type ReportSection struct {
	Label        string       `json:"label"`
	Lines        []ReportLine `json:"lines"`
	Total        float64      `json:"total"`
	PeriodTotals []float64    `json:"period_totals,omitempty"`
}

// UnclassifiedGLAccount records an account the report could not classify
// cleanly, with a human-readable reason. These are warnings, not failures.
type UnclassifiedGLAccount struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ReportResult is a generated financial statement. Profit & Loss fills
// Income/Expenses plus the net profit figures; Balance Sheet fills
// Assets/Liabilities/Equity plus the liability-and-equity totals and the
// identity warning.
type ReportResult struct {
	ReportType  string   `json:"report_type"`
	Granularity string   `json:"granularity"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Periods     []Period `json:"periods,omitempty"`

	Sections []ReportSection `json:"sections"`

	// Profit & Loss
	NetProfitLoss         float64   `json:"net_profit_loss,omitempty"`
	NetProfitLossByPeriod []float64 `json:"net_profit_loss_by_period,omitempty"`

	// Balance Sheet
	TotalAssets                       float64   `json:"total_assets,omitempty"`
	TotalLiabilitiesAndEquity         float64   `json:"total_liabilities_and_equity,omitempty"`
	TotalLiabilitiesAndEquityByPeriod []float64 `json:"total_liabilities_and_equity_by_period,omitempty"`
	DoesNotBalance                    bool      `json:"does_not_balance,omitempty"`

	UnclassifiedGLAccounts []UnclassifiedGLAccount `json:"unclassified_gl_accounts"`
}

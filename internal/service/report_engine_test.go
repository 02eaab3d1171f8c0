package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/models"
)

func posting(date, gl string, debit, credit *float64) models.LedgerPosting {
	return models.LedgerPosting{
		ScopeID:      "s1",
		Date:         date,
		GLAccount:    gl,
		Source:       models.SourceJournalEntry,
		SourceDocID:  "seed",
		DebitAmount:  debit,
		CreditAmount: credit,
	}
}

func newReportFixture(postings []models.LedgerPosting) *ReportEngine {
	ledger := &fakeLedger{postings: postings}
	return NewReportEngine(ledger, &fakeAccounts{accounts: testChartOfAccounts()})
}

func findSection(t *testing.T, result *models.ReportResult, label string) models.ReportSection {
	t.Helper()
	for _, s := range result.Sections {
		if s.Label == label {
			return s
		}
	}
	t.Fatalf("section %q not found", label)
	return models.ReportSection{}
}

func findLine(t *testing.T, section models.ReportSection, glAccount string) models.ReportLine {
	t.Helper()
	for _, l := range section.Lines {
		if l.GLAccount == glAccount {
			return l
		}
	}
	t.Fatalf("line %q not found in section %q", glAccount, section.Label)
	return models.ReportLine{}
}

func TestProfitAndLossSummary(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2024-01-15", "Sales Revenue", nil, fl(1000)),
		posting("2024-01-20", "Rent Expense", fl(300), nil),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportProfitAndLoss,
		Start:       "2024-01-01",
		End:         "2024-01-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	income := findSection(t, result, "Income")
	expenses := findSection(t, result, "Expenses")

	assert.Equal(t, 1000.0, findLine(t, income, "Sales Revenue").Amount)
	assert.Equal(t, 1000.0, income.Total)
	assert.Equal(t, 300.0, findLine(t, expenses, "Rent Expense").Amount)
	assert.Equal(t, 300.0, expenses.Total)
	assert.Equal(t, 700.0, result.NetProfitLoss)
	assert.Empty(t, result.UnclassifiedGLAccounts)
}

func TestProfitAndLossWindowExcludesOutsidePostings(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2023-12-31", "Sales Revenue", nil, fl(400)),
		posting("2024-01-15", "Sales Revenue", nil, fl(1000)),
		posting("2024-02-01", "Sales Revenue", nil, fl(250)),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportProfitAndLoss,
		Start:       "2024-01-01",
		End:         "2024-01-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, result.NetProfitLoss)
}

func TestBalanceSheetInjectsRetainedEarnings(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2024-01-05", "Cash", fl(1000), nil),
		posting("2024-01-05", "Owner's Equity", nil, fl(300)),
		posting("2024-01-15", "Sales Revenue", nil, fl(700)),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportBalanceSheet,
		Start:       "2024-01-01",
		End:         "2024-12-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	assets := findSection(t, result, "Assets")
	equity := findSection(t, result, "Equity")

	assert.Equal(t, 1000.0, assets.Total)
	assert.Equal(t, 300.0, findLine(t, equity, "Owner's Equity").Amount)
	assert.Equal(t, 700.0, findLine(t, equity, "Retained Earnings").Amount)
	assert.Equal(t, 1000.0, result.TotalLiabilitiesAndEquity)
	assert.False(t, result.DoesNotBalance)

	// Income never appears as its own balance-sheet line.
	for _, s := range result.Sections {
		for _, l := range s.Lines {
			assert.NotEqual(t, "Sales Revenue", l.GLAccount)
		}
	}
}

func TestBalanceSheetIsCumulative(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2023-06-01", "Cash", fl(500), nil),
		posting("2024-01-10", "Cash", fl(250), nil),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportBalanceSheet,
		Start:       "2024-01-01",
		End:         "2024-01-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	// Postings before the start date still count.
	assert.Equal(t, 750.0, result.TotalAssets)
}

func TestBalanceSheetWarnsWhenIdentityBroken(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2024-01-05", "Cash", fl(1000), nil),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportBalanceSheet,
		Start:       "2024-01-01",
		End:         "2024-12-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	assert.True(t, result.DoesNotBalance)
}

func TestReportCollectsUnresolvedAccounts(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2024-01-15", "Sales Revenue", nil, fl(1000)),
		posting("2024-01-16", "Mystery Account", fl(50), nil),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportProfitAndLoss,
		Start:       "2024-01-01",
		End:         "2024-01-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	require.Len(t, result.UnclassifiedGLAccounts, 1)
	assert.Equal(t, "Mystery Account", result.UnclassifiedGLAccounts[0].Name)
	assert.Contains(t, result.UnclassifiedGLAccounts[0].Reason, "not found in Chart of Accounts")

	// The unresolved balance is excluded from every section.
	assert.Equal(t, 1000.0, result.NetProfitLoss)
}

func findWarning(t *testing.T, result *models.ReportResult, name string) models.UnclassifiedGLAccount {
	t.Helper()
	for _, w := range result.UnclassifiedGLAccounts {
		if w.Name == name {
			return w
		}
	}
	t.Fatalf("no warning for %q", name)
	return models.UnclassifiedGLAccount{}
}

func TestProfitAndLossWarnsOnMismatchedFS(t *testing.T) {
	// An income-typed account tagged for the balance sheet still reports as
	// income, but the inconsistency is surfaced.
	accounts := append(testChartOfAccounts(),
		models.Account{GLAccount: "Consulting Income", Type: models.TypeDirectIncome, FS: models.FSBalanceSheet})
	engine := NewReportEngine(&fakeLedger{postings: []models.LedgerPosting{
		posting("2024-01-15", "Consulting Income", nil, fl(500)),
	}}, &fakeAccounts{accounts: accounts})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportProfitAndLoss,
		Start:       "2024-01-01",
		End:         "2024-01-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	income := findSection(t, result, "Income")
	assert.Equal(t, 500.0, findLine(t, income, "Consulting Income").Amount)
	assert.Equal(t, 500.0, result.NetProfitLoss)

	warning := findWarning(t, result, "Consulting Income")
	assert.Contains(t, warning.Reason, "maps to Profit and Loss")
	assert.Contains(t, warning.Reason, models.FSBalanceSheet)
}

func TestBalanceSheetWarnsOnMismatchedFS(t *testing.T) {
	accounts := append(testChartOfAccounts(),
		models.Account{GLAccount: "Equipment", Type: models.TypeNonCurrentAsset, FS: models.FSProfitAndLoss})
	engine := NewReportEngine(&fakeLedger{postings: []models.LedgerPosting{
		posting("2024-01-05", "Equipment", fl(800), nil),
	}}, &fakeAccounts{accounts: accounts})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportBalanceSheet,
		Start:       "2024-01-01",
		End:         "2024-12-31",
		Granularity: models.GranularitySummary,
	})
	require.NoError(t, err)

	assets := findSection(t, result, "Assets")
	assert.Equal(t, 800.0, findLine(t, assets, "Equipment").Amount)

	warning := findWarning(t, result, "Equipment")
	assert.Contains(t, warning.Reason, "maps to Balance Sheet")
	assert.Contains(t, warning.Reason, models.FSProfitAndLoss)
}

func TestGetPeriodsMonthlyClipsToRange(t *testing.T) {
	periods, err := GetPeriods("2024-01-10", "2024-03-05", models.GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	assert.Equal(t, models.Period{Start: "2024-01-10", End: "2024-01-31", Label: "Jan 2024"}, periods[0])
	assert.Equal(t, models.Period{Start: "2024-02-01", End: "2024-02-29", Label: "Feb 2024"}, periods[1])
	assert.Equal(t, models.Period{Start: "2024-03-01", End: "2024-03-05", Label: "Mar 2024"}, periods[2])
}

func TestGetPeriodsQuarterly(t *testing.T) {
	periods, err := GetPeriods("2024-02-15", "2024-07-10", models.GranularityQuarterly)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	assert.Equal(t, models.Period{Start: "2024-02-15", End: "2024-03-31", Label: "Q1 2024"}, periods[0])
	assert.Equal(t, models.Period{Start: "2024-04-01", End: "2024-06-30", Label: "Q2 2024"}, periods[1])
	assert.Equal(t, models.Period{Start: "2024-07-01", End: "2024-07-10", Label: "Q3 2024"}, periods[2])
}

func TestGetPeriodsRejectsReversedRange(t *testing.T) {
	_, err := GetPeriods("2024-05-01", "2024-01-01", models.GranularityMonthly)
	assert.Error(t, err)
}

func TestMonthlyProfitAndLossColumns(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2024-01-15", "Sales Revenue", nil, fl(100)),
		posting("2024-02-10", "Sales Revenue", nil, fl(200)),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportProfitAndLoss,
		Start:       "2024-01-01",
		End:         "2024-02-29",
		Granularity: models.GranularityMonthly,
	})
	require.NoError(t, err)
	require.Len(t, result.Periods, 2)

	income := findSection(t, result, "Income")
	sales := findLine(t, income, "Sales Revenue")

	// Each column holds only its own month's activity.
	assert.Equal(t, []float64{100, 200}, sales.PeriodAmounts)
	assert.Equal(t, 300.0, sales.TotalAmount)
	assert.Equal(t, []float64{100, 200}, result.NetProfitLossByPeriod)
}

func TestMonthlyBalanceSheetColumnsAreCumulative(t *testing.T) {
	engine := newReportFixture([]models.LedgerPosting{
		posting("2023-11-20", "Cash", fl(40), nil),
		posting("2024-01-15", "Cash", fl(100), nil),
		posting("2024-02-10", "Cash", fl(50), nil),
	})

	result, err := engine.GenerateReport(models.ReportRequest{
		ScopeID:     "s1",
		ReportType:  models.ReportBalanceSheet,
		Start:       "2024-01-01",
		End:         "2024-02-29",
		Granularity: models.GranularityMonthly,
	})
	require.NoError(t, err)

	assets := findSection(t, result, "Assets")
	cash := findLine(t, assets, "Cash")

	// Each column is the balance through that period's end; the row total is
	// the final column, not a sum.
	assert.Equal(t, []float64{140, 190}, cash.PeriodAmounts)
	assert.Equal(t, 190.0, cash.TotalAmount)
}

func TestReportRejectsBadRequests(t *testing.T) {
	engine := newReportFixture(nil)

	_, err := engine.GenerateReport(models.ReportRequest{
		ScopeID: "s1", ReportType: "CashFlow", Start: "2024-01-01", End: "2024-01-31", Granularity: models.GranularitySummary,
	})
	assert.Error(t, err)

	_, err = engine.GenerateReport(models.ReportRequest{
		ScopeID: "s1", ReportType: models.ReportProfitAndLoss, Start: "01/01/2024", End: "2024-01-31", Granularity: models.GranularitySummary,
	})
	assert.Error(t, err)

	_, err = engine.GenerateReport(models.ReportRequest{
		ScopeID: "s1", ReportType: models.ReportProfitAndLoss, Start: "2024-01-01", End: "2024-01-31", Granularity: "weekly",
	})
	assert.Error(t, err)
}

package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bookkeeping-web/internal/models"
)

// identityTolerance is the allowed drift on the balance-sheet identity
// (assets = liabilities + equity) before the report carries a warning.
const identityTolerance = 0.01

const dateLayout = "2006-01-02"

// ReportEngine derives Profit & Loss and Balance Sheet statements from the
// ledger. It fetches fresh ledger and chart-of-accounts snapshots per call;
// everything after the fetch is pure in-memory aggregation.
type ReportEngine struct {
	ledger   LedgerStore
	accounts AccountStore
}

func NewReportEngine(ledger LedgerStore, accounts AccountStore) *ReportEngine {
	return &ReportEngine{ledger: ledger, accounts: accounts}
}

// accountBalance accumulates one account's movement over the report window.
// account is nil when the posting's GL reference did not resolve.
type accountBalance struct {
	name    string
	account *models.Account
	total   float64
	periods []float64
}

func (e *ReportEngine) GenerateReport(req models.ReportRequest) (*models.ReportResult, error) {
	if req.ReportType != models.ReportProfitAndLoss && req.ReportType != models.ReportBalanceSheet {
		return nil, fmt.Errorf("unknown report type %q", req.ReportType)
	}
	if req.Granularity != models.GranularitySummary &&
		req.Granularity != models.GranularityMonthly &&
		req.Granularity != models.GranularityQuarterly {
		return nil, fmt.Errorf("unknown granularity %q", req.Granularity)
	}

	var periods []models.Period
	if req.Granularity != models.GranularitySummary {
		var err error
		periods, err = GetPeriods(req.Start, req.End, req.Granularity)
		if err != nil {
			return nil, err
		}
	} else {
		if _, err := time.Parse(dateLayout, req.Start); err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", req.Start, err)
		}
		if _, err := time.Parse(dateLayout, req.End); err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", req.End, err)
		}
	}

	accounts, err := e.accounts.ListByScope(req.ScopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	resolver := NewAccountResolver(accounts)

	// Profit & Loss is windowed; the Balance Sheet is cumulative since
	// inception, so it ignores the start bound when reading the ledger.
	query := models.LedgerQuery{DateTo: req.End}
	if req.ReportType == models.ReportProfitAndLoss {
		query.DateFrom = req.Start
	}
	postings, err := e.ledger.Query(req.ScopeID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	cumulative := req.ReportType == models.ReportBalanceSheet
	balances := accumulateBalances(postings, periods, resolver, cumulative)

	result := &models.ReportResult{
		ReportType:             req.ReportType,
		Granularity:            req.Granularity,
		Start:                  req.Start,
		End:                    req.End,
		Periods:                periods,
		UnclassifiedGLAccounts: []models.UnclassifiedGLAccount{},
	}

	if req.ReportType == models.ReportProfitAndLoss {
		buildProfitAndLoss(result, balances, len(periods))
	} else {
		buildBalanceSheet(result, balances, len(periods))
	}

	return result, nil
}

// accumulateBalances folds postings into per-account balances, in the
// ledger's natural debit-positive sign. When periods are given, each posting
// lands in its calendar bucket; cumulative mode then prefix-sums the buckets
// so every column carries the balance through that period's end.
func accumulateBalances(postings []models.LedgerPosting, periods []models.Period, resolver *AccountResolver, cumulative bool) []*accountBalance {
	byName := make(map[string]*accountBalance)

	for _, p := range postings {
		name := p.GLAccount
		var account *models.Account
		if resolved, ok := resolver.Resolve(p.GLAccount); ok {
			name = resolved.GLAccount
			acc := resolved
			account = &acc
		}

		bal, exists := byName[name]
		if !exists {
			bal = &accountBalance{name: name, account: account}
			if len(periods) > 0 {
				bal.periods = make([]float64, len(periods))
			}
			byName[name] = bal
		}

		movement := p.Debit() - p.Credit()
		if len(periods) == 0 {
			bal.total += movement
			continue
		}

		idx := periodIndex(periods, p.Date, cumulative)
		if idx < 0 {
			continue
		}
		bal.periods[idx] += movement
	}

	for _, bal := range byName {
		if len(periods) == 0 {
			continue
		}
		if cumulative {
			for i := 1; i < len(bal.periods); i++ {
				bal.periods[i] += bal.periods[i-1]
			}
			bal.total = bal.periods[len(bal.periods)-1]
		} else {
			bal.total = 0
			for _, v := range bal.periods {
				bal.total += v
			}
		}
	}

	out := make([]*accountBalance, 0, len(byName))
	for _, bal := range byName {
		out = append(out, bal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// periodIndex locates the bucket for a posting date. In cumulative mode,
// postings that predate the first period still belong to its opening
// balance.
func periodIndex(periods []models.Period, date string, cumulative bool) int {
	if cumulative && date < periods[0].Start {
		return 0
	}
	for i, p := range periods {
		if date >= p.Start && date <= p.End {
			return i
		}
	}
	return -1
}

func buildProfitAndLoss(result *models.ReportResult, balances []*accountBalance, periodCount int) {
	income := models.ReportSection{Label: "Income", Lines: []models.ReportLine{}}
	expenses := models.ReportSection{Label: "Expenses", Lines: []models.ReportLine{}}
	if periodCount > 0 {
		income.PeriodTotals = make([]float64, periodCount)
		expenses.PeriodTotals = make([]float64, periodCount)
	}

	for _, bal := range balances {
		zero := isZeroBalance(bal)
		if bal.account == nil {
			if !zero {
				result.UnclassifiedGLAccounts = append(result.UnclassifiedGLAccounts,
					models.UnclassifiedGLAccount{Name: bal.name, Reason: "not found in Chart of Accounts"})
			}
			continue
		}

		var section *models.ReportSection
		var sign float64
		switch {
		case containsIncome(bal.account.Type):
			// Credits increase income, so the debit-positive balance is
			// negated for display.
			section, sign = &income, -1
		case containsExpense(bal.account.Type):
			section, sign = &expenses, 1
		case containsAsset(bal.account.Type) || containsLiability(bal.account.Type) || bal.account.Type == models.TypeEquity:
			continue // balance-sheet accounts have no P&L line
		default:
			if !zero {
				result.UnclassifiedGLAccounts = append(result.UnclassifiedGLAccounts,
					models.UnclassifiedGLAccount{Name: bal.name, Reason: fmt.Sprintf("unrecognized account type %q", bal.account.Type)})
			}
			continue
		}

		if !zero && bal.account.FS != models.FSProfitAndLoss {
			result.UnclassifiedGLAccounts = append(result.UnclassifiedGLAccounts,
				models.UnclassifiedGLAccount{Name: bal.name, Reason: fmt.Sprintf("type %q maps to Profit and Loss but fs is %q", bal.account.Type, bal.account.FS)})
		}
		if zero {
			continue
		}

		appendLine(section, bal, sign, false)
	}

	result.Sections = []models.ReportSection{income, expenses}
	result.NetProfitLoss = income.Total - expenses.Total
	if periodCount > 0 {
		result.NetProfitLossByPeriod = make([]float64, periodCount)
		for i := 0; i < periodCount; i++ {
			result.NetProfitLossByPeriod[i] = income.PeriodTotals[i] - expenses.PeriodTotals[i]
		}
	}
}

func buildBalanceSheet(result *models.ReportResult, balances []*accountBalance, periodCount int) {
	assets := models.ReportSection{Label: "Assets", Lines: []models.ReportLine{}}
	liabilities := models.ReportSection{Label: "Liabilities", Lines: []models.ReportLine{}}
	equity := models.ReportSection{Label: "Equity", Lines: []models.ReportLine{}}
	if periodCount > 0 {
		assets.PeriodTotals = make([]float64, periodCount)
		liabilities.PeriodTotals = make([]float64, periodCount)
		equity.PeriodTotals = make([]float64, periodCount)
	}

	var retained float64
	var retainedByPeriod []float64
	if periodCount > 0 {
		retainedByPeriod = make([]float64, periodCount)
	}

	for _, bal := range balances {
		zero := isZeroBalance(bal)
		if bal.account == nil {
			if !zero {
				result.UnclassifiedGLAccounts = append(result.UnclassifiedGLAccounts,
					models.UnclassifiedGLAccount{Name: bal.name, Reason: "not found in Chart of Accounts"})
			}
			continue
		}

		if containsIncome(bal.account.Type) || containsExpense(bal.account.Type) {
			// Income and expenses never appear as their own balance-sheet
			// lines; their net feeds the synthetic Retained Earnings row.
			retained += -bal.total
			for i := range bal.periods {
				retainedByPeriod[i] += -bal.periods[i]
			}
			continue
		}

		var section *models.ReportSection
		var sign float64
		switch {
		case containsAsset(bal.account.Type):
			section, sign = &assets, 1
		case containsLiability(bal.account.Type):
			section, sign = &liabilities, -1
		case bal.account.Type == models.TypeEquity:
			section, sign = &equity, -1
		default:
			if !zero {
				result.UnclassifiedGLAccounts = append(result.UnclassifiedGLAccounts,
					models.UnclassifiedGLAccount{Name: bal.name, Reason: fmt.Sprintf("unrecognized account type %q", bal.account.Type)})
			}
			continue
		}

		if !zero && bal.account.FS != models.FSBalanceSheet {
			result.UnclassifiedGLAccounts = append(result.UnclassifiedGLAccounts,
				models.UnclassifiedGLAccount{Name: bal.name, Reason: fmt.Sprintf("type %q maps to Balance Sheet but fs is %q", bal.account.Type, bal.account.FS)})
		}
		if zero {
			continue
		}

		appendLine(section, bal, sign, true)
	}

	// The synthetic Retained Earnings line is always injected, additive to
	// any user-defined account of the same name.
	retainedLine := models.ReportLine{GLAccount: "Retained Earnings", Amount: retained, TotalAmount: retained}
	if periodCount > 0 {
		retainedLine.PeriodAmounts = retainedByPeriod
		retainedLine.TotalAmount = retainedByPeriod[periodCount-1]
		retainedLine.Amount = retainedLine.TotalAmount
		for i, v := range retainedByPeriod {
			equity.PeriodTotals[i] += v
		}
	}
	equity.Lines = append(equity.Lines, retainedLine)
	equity.Total += retainedLine.Amount
	sort.Slice(equity.Lines, func(i, j int) bool { return equity.Lines[i].GLAccount < equity.Lines[j].GLAccount })

	result.Sections = []models.ReportSection{assets, liabilities, equity}
	result.TotalAssets = assets.Total
	result.TotalLiabilitiesAndEquity = liabilities.Total + equity.Total
	result.DoesNotBalance = math.Abs(result.TotalAssets-result.TotalLiabilitiesAndEquity) > identityTolerance
	if periodCount > 0 {
		result.TotalLiabilitiesAndEquityByPeriod = make([]float64, periodCount)
		for i := 0; i < periodCount; i++ {
			result.TotalLiabilitiesAndEquityByPeriod[i] = liabilities.PeriodTotals[i] + equity.PeriodTotals[i]
		}
	}
}

// appendLine adds a display line with the section's sign convention applied.
// For cumulative (balance sheet) columns the row total is the last column,
// not a sum.
func appendLine(section *models.ReportSection, bal *accountBalance, sign float64, cumulative bool) {
	line := models.ReportLine{GLAccount: bal.name}
	if len(bal.periods) == 0 {
		line.Amount = sign * bal.total
		line.TotalAmount = line.Amount
	} else {
		line.PeriodAmounts = make([]float64, len(bal.periods))
		for i, v := range bal.periods {
			line.PeriodAmounts[i] = sign * v
			section.PeriodTotals[i] += line.PeriodAmounts[i]
		}
		if cumulative {
			line.TotalAmount = line.PeriodAmounts[len(line.PeriodAmounts)-1]
		} else {
			for _, v := range line.PeriodAmounts {
				line.TotalAmount += v
			}
		}
		line.Amount = line.TotalAmount
	}
	section.Lines = append(section.Lines, line)
	section.Total += line.TotalAmount
}

func isZeroBalance(bal *accountBalance) bool {
	if math.Abs(bal.total) > 1e-9 {
		return false
	}
	for _, v := range bal.periods {
		if math.Abs(v) > 1e-9 {
			return false
		}
	}
	return true
}

// GetPeriods partitions [start, end] into consecutive calendar buckets. The
// first period begins at start and the last is clipped to end; interior
// periods cover whole months or quarters.
func GetPeriods(start, end, granularity string) ([]models.Period, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	var periods []models.Period
	cur := startDate
	for !cur.After(endDate) {
		var periodEnd time.Time
		var label string

		switch granularity {
		case models.GranularityMonthly:
			periodEnd = time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			label = cur.Format("Jan 2006")
		case models.GranularityQuarterly:
			quarter := (int(cur.Month()) - 1) / 3
			lastMonth := time.Month(quarter*3 + 3)
			periodEnd = time.Date(cur.Year(), lastMonth+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			label = fmt.Sprintf("Q%d %d", quarter+1, cur.Year())
		default:
			return nil, fmt.Errorf("unknown granularity %q", granularity)
		}

		if periodEnd.After(endDate) {
			periodEnd = endDate
		}

		periods = append(periods, models.Period{
			Start: cur.Format(dateLayout),
			End:   periodEnd.Format(dateLayout),
			Label: label,
		})
		cur = periodEnd.AddDate(0, 0, 1)
	}

	return periods, nil
}

func containsAsset(accountType string) bool {
	return accountType == models.TypeCurrentAsset || accountType == models.TypeNonCurrentAsset
}

func containsLiability(accountType string) bool {
	return accountType == models.TypeCurrentLiability || accountType == models.TypeNonCurrentLiability
}

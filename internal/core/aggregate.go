package core

// InvalidBucket collects transactions whose date cannot be parsed, so the
// series stays reconcilable with the full input count.
const InvalidBucket = "Invalid"

// MonthlyPoint is one aggregation bucket of the monthly series.
type MonthlyPoint struct {
	Month   string `json:"month"`
	Revenue Money  `json:"revenue"`
	Expense Money  `json:"expense"`
}

// Summary holds the scalar totals derived from a result set.
type Summary struct {
	TotalRevenue      Money `json:"totalRevenue"`
	TotalExpense      Money `json:"totalExpense"`
	NetBalance        Money `json:"netBalance"`
	DistinctUserCount int   `json:"distinctUserCount"`
}

// MonthlySeries groups transactions by calendar month and sums amounts per
// category. Buckets appear in the order their month is first encountered in
// the input. Categories outside Revenue/Expense still create their bucket
// but contribute to neither sum.
func MonthlySeries(txs []Transaction) []MonthlyPoint {
	index := make(map[string]int)
	var series []MonthlyPoint

	for _, t := range txs {
		label := InvalidBucket
		if d, ok := ParseDate(t.Date); ok {
			label = d.Format("Jan 2006")
		}

		i, seen := index[label]
		if !seen {
			i = len(series)
			index[label] = i
			series = append(series, MonthlyPoint{Month: label})
		}

		switch Kind(t.Category) {
		case KindRevenue:
			series[i].Revenue.Cents += t.Amount.Cents
		case KindExpense:
			series[i].Expense.Cents += t.Amount.Cents
		}
	}

	return series
}

// Summarize computes the scalar totals over a result set. Distinct users are
// counted across all categories, not just Revenue/Expense. Pure function;
// empty input yields the zero Summary.
func Summarize(txs []Transaction) Summary {
	var s Summary
	users := make(map[string]struct{})

	for _, t := range txs {
		switch Kind(t.Category) {
		case KindRevenue:
			s.TotalRevenue.Cents += t.Amount.Cents
		case KindExpense:
			s.TotalExpense.Cents += t.Amount.Cents
		}
		users[t.UserID] = struct{}{}
	}

	s.NetBalance.Cents = s.TotalRevenue.Cents - s.TotalExpense.Cents
	s.DistinctUserCount = len(users)
	return s
}

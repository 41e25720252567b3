package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Snapshot is one open-ended metrics record for a reporting period. Field
// names depend on the metrics category.
type Snapshot map[string]any

// PeriodLabel is the "<quarter> <year>" label used on trend axes.
func (s Snapshot) PeriodLabel() string {
	q := strings.TrimSpace(fmt.Sprint(valueOr(s["quarter"], "")))
	y := strings.TrimSpace(fmt.Sprint(valueOr(s["year"], "")))
	return strings.TrimSpace(q + " " + y)
}

func valueOr(v any, def any) any {
	if v == nil {
		return def
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}

// Tab identifies a metrics category as exposed to the user.
type Tab string

const (
	TabFinance       Tab = "finance"
	TabMarket        Tab = "market"
	TabUnitEconomics Tab = "uniteconomics"
	TabProduct       Tab = "product"
	TabTeam          Tab = "teamperf"
	TabFundraising   Tab = "fund"
	TabCompetitive   Tab = "competitive"
	TabOperational   Tab = "operation"
	TabRisk          Tab = "risk"
	TabAdditional    Tab = "additional"
	TabSelf          Tab = "self"
)

// Tabs lists every category in dashboard order.
var Tabs = []Tab{
	TabFinance, TabMarket, TabUnitEconomics, TabProduct, TabTeam,
	TabFundraising, TabCompetitive, TabOperational, TabRisk, TabAdditional, TabSelf,
}

// historyKeys maps tabs whose backend history key differs from the tab name.
var historyKeys = map[Tab]string{
	TabUnitEconomics: "economics",
	TabOperational:   "operational",
}

// HistoryKey is the backend key used to fetch the history series of t.
func (t Tab) HistoryKey() string {
	if k, ok := historyKeys[t]; ok {
		return k
	}
	return string(t)
}

// ParseTab validates a user supplied tab name.
func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Period is a reporting window.
type Period struct {
	Quarter string
	Year    int
}

func (p Period) String() string { return fmt.Sprintf("%s %d", p.Quarter, p.Year) }

// DefaultPeriod is Q1 of the year of now.
func DefaultPeriod(now time.Time) Period {
	return Period{Quarter: "Q1", Year: now.Year()}
}

// SelectableYears returns the current year and the nine before it, newest first.
func SelectableYears(now time.Time) []int {
	years := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		years = append(years, now.Year()-i)
	}
	return years
}

// ParsePeriod validates a quarter ("Q1".."Q4", case insensitive) and a year
// among SelectableYears(now).
func ParsePeriod(quarter, year string, now time.Time) (Period, error) {
	q := strings.ToUpper(strings.TrimSpace(quarter))
	switch q {
	case "Q1", "Q2", "Q3", "Q4":
	default:
		return Period{}, fmt.Errorf("invalid quarter %q", quarter)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Period{}, fmt.Errorf("invalid year %q: %w", year, err)
	}
	for _, allowed := range SelectableYears(now) {
		if allowed == y {
			return Period{Quarter: q, Year: y}, nil
		}
	}
	return Period{}, fmt.Errorf("year %d out of range", y)
}

package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/shopspring/decimal"
)

// categories is the panel table, one entry per tab.
var categories = map[models.Tab]category{
	models.TabFinance: {
		title: "Financial Health Overview",
		empty: "No financial data available",
		cards: []cardSpec{
			{label: "Cash Balance", path: "$.cash_balance", unit: UnitINR, parse: Float},
			{label: "Quarterly Revenue", path: "$.quarterly_revenue", unit: UnitINR, parse: Float,
				note: arrow("revenue_growth", "YoY", false)},
			{label: "Gross Margin", path: "$.gross_margin", unit: UnitPercent, parse: Float,
				tone: atLeast(50, ToneWarn), gauge: asGauge},
			{label: "Net Margin", path: "$.net_margin", unit: UnitPercent, parse: Float,
				tone: atLeast(10, ToneBad), gauge: asGauge},
			{label: "Monthly Burn Rate", path: "$.burn_rate", unit: UnitINR, parse: Float,
				note: arrow("burn_rate_change", "from last period", true)},
			{label: "Cash Runway", path: "$.cash_runway", unit: UnitMonths, parse: Float,
				note: fixedNote("At current burn rate")},
		},
		series: []seriesSpec{
			{title: "Revenue Growth Trend", lines: []lineSpec{
				{name: "Revenue (₹)", field: "quarterly_revenue"},
				{name: "Growth (%)", field: "revenue_growth"},
			}},
			{title: "Margin Trends", lines: []lineSpec{
				{name: "Gross Margin (%)", field: "gross_margin"},
				{name: "Net Margin (%)", field: "net_margin"},
			}},
		},
		extra: financeExtra,
	},

	models.TabMarket: {
		title: "Market Performance Overview",
		empty: "No market data available",
		cards: []cardSpec{
			{label: "Total Customers", path: "$.total_customers", parse: Float,
				note: arrow("customer_growth", "YoY", false)},
			{label: "New Customers (QTD)", path: "$.new_customers", parse: Float},
			{label: "Market Share", path: "$.market_share", unit: UnitPercent, parse: Float,
				tone: atLeast(30, ToneWarn), gauge: asGauge, note: marketShareChange},
			{label: "Sales Pipeline", path: "$.pipeline_value", unit: UnitINR, parse: Float},
			{label: "Conversion Rate", path: "$.conversion_rate", unit: UnitPercent, parse: Float},
			{label: "Retention Rate", path: "$.retention_rate", unit: UnitPercent, parse: Float},
			{label: "Churn Rate", path: "$.churn_rate", unit: UnitPercent, parse: Float},
			{label: "Recent Changes", path: "$.sales_process_changes", asText: true},
			{label: "Average Sales Cycle", path: "$.sales_cycle", unit: UnitDays, parse: Float},
			{label: "Market Trends", path: "$.market_trends", asText: true},
		},
		series: []seriesSpec{
			{title: "Customer Growth", lines: []lineSpec{
				{name: "Customers", field: "total_customers"},
				{name: "Growth (%)", field: "customer_growth", parse: Float},
			}},
			{title: "Conversion Metrics", lines: []lineSpec{
				{name: "Conversion (%)", field: "conversion_rate"},
				{name: "Retention (%)", field: "retention_rate"},
				{name: "Churn (%)", field: "churn_rate"},
			}},
		},
	},

	models.TabUnitEconomics: {
		title: "Unit Economics Overview",
		empty: "No unit economics data available",
		cards: []cardSpec{
			{label: "ARPU", path: "$.arpu", unit: UnitINR, parse: Int},
			{label: "Customer CAC", path: "$.cac", unit: UnitINR, parse: Int,
				note: arrow("cac_change", "YoY", true)},
			{label: "LTV", path: "$.ltv", unit: UnitINR, parse: Int},
			{label: "LTV:CAC Ratio", path: "$.ltv_ratio", unit: UnitRatio, parse: Float, note: ltvHealth},
			{label: "CAC Payback Period", path: "$.cac_payback", unit: UnitMonths, parse: Float},
			{label: "CAC Change", path: "$.cac_change", unit: UnitPercent, parse: Float,
				tone: func(d decimal.Decimal) Tone {
					if d.IsNegative() {
						return ToneGood
					}
					return ToneBad
				}},
		},
		series: []seriesSpec{
			{title: "CAC & Payback Period Trend", lines: []lineSpec{
				{name: "CAC (₹)", field: "cac"},
				{name: "Payback (months)", field: "cac_payback"},
			}},
			{title: "ARPU vs LTV Trend", lines: []lineSpec{
				{name: "ARPU (₹)", field: "arpu"},
				{name: "LTV (₹)", field: "ltv"},
			}},
		},
		extra: unitEconomicsExtra,
	},

	models.TabProduct: {
		title: "Product Development Overview",
		empty: "No product development data available",
		cards: []cardSpec{
			{label: "Active Users", path: "$.active_users", parse: Int},
			{label: "Engagement", path: "$.engagement_metrics", parse: Int},
			{label: "Feature Adoption", path: "$.feature_adoption", unit: UnitPercent, parse: Float,
				tone: truncated(atLeast(50, ToneWarn)), gauge: asGauge},
			{label: "Net Promoter Score", path: "$.nps", parse: Float,
				tone: truncated(threshold(50, 0)),
				note: fixedNote("Industry avg: 32")},
		},
		series: []seriesSpec{
			{title: "User Growth & Engagement", lines: []lineSpec{
				{name: "Active Users", field: "active_users"},
				{name: "Engagement", field: "engagement_metrics"},
			}},
			{title: "Development Milestones", lines: []lineSpec{
				{name: "Achieved", field: "milestones_achieved"},
				{name: "Missed", field: "milestones_missed"},
			}},
		},
		lists: []listSpec{
			{title: "Current Challenges", empty: "No challenges reported", path: "$.technical_challenges"},
			{title: "Product Bottlenecks", empty: "No bottlenecks reported", path: "$.product_bottlenecks"},
		},
		extra: productExtra,
	},

	models.TabTeam: {
		title: "Team Performance Overview",
		empty: "No team performance data available",
		cards: []cardSpec{
			{label: "Team Size", path: "$.team_size", parse: Float, note: newHires},
			{label: "Turnover Rate", path: "$.turnover", parse: Float,
				tone: func(d decimal.Decimal) Tone {
					d = d.Truncate(0)
					switch {
					case d.GreaterThan(decimal.NewFromInt(3)):
						return ToneBad
					case d.GreaterThan(decimal.NewFromInt(1)):
						return ToneWarn
					}
					return ToneGood
				},
				gauge: turnoverGauge,
				note: func(s models.Snapshot) (string, Tone) {
					return Text(lookup(s, "$.turnover")) + " departures this quarter", ToneNeutral
				}},
			{label: "Vacant Positions", path: "$.vacant_positions", parse: Float},
			{label: "Leadership Alignment", path: "$.leadership_alignment", unit: UnitOutOf100, parse: Int,
				tone: above(80, 50), gauge: asGauge},
		},
		series: []seriesSpec{
			{title: "Team Growth Trends", lines: []lineSpec{
				{name: "Team Size", field: "team_size"},
				{name: "New Hires", field: "new_hires"},
				{name: "Turnover", field: "turnover"},
			}},
		},
		lists: []listSpec{
			{title: "Team Strengths", empty: "No strengths reported", fromHistory: "team_strengths"},
			{title: "Current Development Initiatives", empty: "No initiatives reported", fromHistory: "development_initiatives"},
		},
	},

	models.TabFundraising: {
		title: "Fundraising Overview",
		empty: "No fundraising data available",
		cards: []cardSpec{
			{label: "Current Round Target", path: "$.target_amount", unit: UnitCrore, parse: Float,
				note: func(s models.Snapshot) (string, Tone) {
					return "at ₹" + Text(lookup(s, "$.valuation_expectations")) + "Cr valuation", ToneNeutral
				}},
			{label: "Investor Pipeline", path: "$.investor_pipeline", parse: Float},
			{label: "Current Investors", path: "$.current_investors", parse: Float},
			{label: "Investor Relations", path: "$.investor_relations", unit: UnitOutOf100, parse: Int,
				tone: above(80, 50), gauge: asGauge},
		},
		series: []seriesSpec{
			{title: "Funding History", lines: []lineSpec{
				{name: "Amount (₹Cr)", field: "target_amount"},
				{name: "Valuation (₹Cr)", field: "valuation_expectations"},
			}},
		},
		extra: fundraisingExtra,
	},

	models.TabCompetitive: {
		title: "Competitive Landscape Analysis",
		empty: "No competitive data available",
		score: &scoreSpec{
			label: "Competitive Health Score",
			weights: []weight{
				{"differentiators", 2}, {"threats", -1}, {"new_competitors", -1}, {"defensive_strategies", 1.5},
			},
			divisor: 1,
			places:  -1,
		},
		lists: []listSpec{
			{title: "Key Strengths", bullets: []labelledSpec{
				{label: "Differentiators score", field: "differentiators"},
				{label: "Defensive strategies", field: "defensive_strategies"},
			}},
			{title: "Potential Risks", bullets: []labelledSpec{
				{label: "Threats score", field: "threats"},
				{label: "New competitors", field: "new_competitors"},
				{label: "Market shifts", field: "market_shifts"},
			}},
		},
		extra: competitiveExtra,
	},

	models.TabOperational: {
		title: "Operational Efficiency Dashboard",
		empty: "No operational data available",
		score: &scoreSpec{
			label: "Efficiency Score",
			weights: []weight{
				{"impact_metrics", .3}, {"infrastructure_capacity", .2}, {"operational_changes", .15},
				{"optimization_areas", .2}, {"scaling_plans", .15}, {"operational_bottlenecks", -.1},
			},
			divisor: 1,
			places:  2,
			good:    75,
			warn:    50,
		},
		series: []seriesSpec{
			{title: "Infrastructure & Scaling", lines: []lineSpec{
				{name: "Infrastructure", field: "infrastructure_capacity"},
				{name: "Scaling Plans", field: "scaling_plans"},
			}},
			{title: "Bottlenecks & Optimization", lines: []lineSpec{
				{name: "Bottlenecks", field: "operational_bottlenecks"},
				{name: "Optimization", field: "optimization_areas"},
			}},
		},
		lists: []listSpec{
			{title: "Top Strengths", bullets: []labelledSpec{
				{label: "Infrastructure", field: "infrastructure_capacity"},
				{label: "Scaling Plans", field: "scaling_plans"},
				{label: "Optimization", field: "optimization_areas"},
			}},
			{title: "Improvement Areas", bullets: []labelledSpec{
				{label: "Bottlenecks", field: "operational_bottlenecks"},
				{label: "Impact", field: "impact_metrics"},
				{label: "Changes Needed", field: "operational_changes"},
			}},
			{title: "Key Metrics Comparison", bullets: []labelledSpec{
				{label: "Infrastructure Capacity", field: "infrastructure_capacity"},
				{label: "Operational Bottlenecks", field: "operational_bottlenecks"},
				{label: "Optimization Areas", field: "optimization_areas"},
				{label: "Scaling Plans", field: "scaling_plans"},
			}},
		},
	},

	models.TabRisk: {
		title: "Risk Management Dashboard",
		empty: "No risk management data available",
		score: &scoreSpec{
			label: "Risk Score",
			weights: []weight{
				{"compliance_status", .4}, {"security_incidents", -.3}, {"regulatory_concerns", -.3},
			},
			divisor: 1,
			places:  -1,
		},
		series: []seriesSpec{
			{title: "Risk Trends", lines: []lineSpec{
				{name: "Compliance", field: "compliance_status"},
				{name: "Incidents", field: "security_incidents"},
				{name: "Concerns", field: "regulatory_concerns"},
			}},
		},
		lists: []listSpec{
			{title: "Positive Indicators", bullets: []labelledSpec{
				{label: "Compliance Status", field: "compliance_status"},
				{label: "Security Audits", field: "security_audits"},
				{label: "Data Protection", field: "data_protection"},
			}},
			{title: "Risk Areas", bullets: []labelledSpec{
				{label: "Security Incidents", field: "security_incidents"},
				{label: "Regulatory Concerns", field: "regulatory_concerns"},
				{label: "Key Dependencies", field: "key_dependencies"},
			}},
			{title: "Regulatory & Dependencies", bullets: []labelledSpec{
				{label: "Regulatory Changes", field: "regulatory_changes"},
				{label: "Contingency Plans", field: "contingency_plans"},
			}},
		},
	},

	models.TabAdditional: {
		title: "Strategic Initiatives Dashboard",
		empty: "No additional information available",
		score: &scoreSpec{
			label: "Initiative Health",
			weights: []weight{
				{"initiative_progress", .4}, {"business_model_adjustments", .3}, {"growth_challenges", -.3},
			},
			divisor: 20,
			places:  2,
		},
		series: []seriesSpec{
			{title: "Strategic Trends", lines: []lineSpec{
				{name: "Adjustments", field: "business_model_adjustments"},
				{name: "Challenges", field: "growth_challenges"},
				{name: "Initiatives", field: "initiative_progress"},
			}},
		},
		lists: []listSpec{
			{title: "Positive Indicators", bullets: []labelledSpec{
				{label: "Initiative Progress", field: "initiative_progress"},
				{label: "New Initiatives", field: "new_initiatives"},
				{label: "Business Model Adjustments", field: "business_model_adjustments"},
			}},
			{title: "Challenges", bullets: []labelledSpec{
				{label: "Growth Challenges", field: "growth_challenges"},
				{label: "Support Needed", field: "support_needed"},
				{label: "Policy Impact", field: "policy_impact"},
			}},
			{title: "Current Strategic Position", bullets: []labelledSpec{
				{label: "Policy Changes", field: "policy_changes"},
				{label: "Mitigation Strategies", field: "mitigation_strategies"},
			}},
		},
	},

	models.TabSelf: {
		title: "Startup Self-Assessment",
		empty: "No assessment data available",
		series: []seriesSpec{
			{title: "Overall Rating Trend", lines: []lineSpec{
				{name: "Overall", field: "overall_rating", parse: Float},
				{name: "Financial", field: "financial_rating", parse: Float},
				{name: "Market", field: "market_rating", parse: Float},
			}},
		},
		lists: []listSpec{
			{title: "Strengths", bullets: []labelledSpec{
				{label: "Financial Rating", field: "financial_rating", suffix: "/5"},
				{label: "Operational Rating", field: "operational_rating", suffix: "/5"},
				{label: "Incubator Support", field: "incubator_support"},
			}},
			{title: "Improvement Areas", bullets: []labelledSpec{
				{label: "Market Rating", field: "market_rating", suffix: "/5"},
				{label: "Product Rating", field: "product_rating", suffix: "/5"},
				{label: "Team Rating", field: "team_rating", suffix: "/5"},
			}},
			{title: "Strategic Priorities", empty: "No priorities set", path: "$.priorities",
				format: func(i int, s string) string { return fmt.Sprintf("Priority #%d: %s", i+1, s) }},
		},
		extra: selfAssessmentExtra,
	},
}

func marketShareChange(s models.Snapshot) (string, Tone) {
	raw := lookup(s, "$.market_share_change")
	d := Int(raw)
	sign, tone := "", ToneBad
	if !d.IsNegative() {
		sign, tone = "+", ToneGood
	}
	return "(" + sign + Text(raw) + "% change)", tone
}

func ltvHealth(s models.Snapshot) (string, Tone) {
	d := Int(lookup(s, "$.ltv_ratio"))
	switch {
	case d.GreaterThanOrEqual(decimal.NewFromInt(3)):
		return "Healthy", ToneGood
	case d.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return "Moderate", ToneWarn
	}
	return "Concerning", ToneBad
}

func newHires(s models.Snapshot) (string, Tone) {
	raw := lookup(s, "$.new_hires")
	if Int(raw).IsPositive() {
		return "↑ " + Text(raw) + " new hires", ToneGood
	}
	return "No new hires", ToneNeutral
}

// turnoverGauge scales departures so that 20 or more fill the gauge.
func turnoverGauge(d decimal.Decimal) decimal.Decimal {
	return decimal.Min(d.Truncate(0).Mul(decimal.NewFromInt(5)), decimal.NewFromInt(100))
}

func financeExtra(cur models.Snapshot, _ []models.Snapshot, _ time.Time) ([]Card, []Table, []List) {
	var cards []Card
	if raw := lookup(cur, "$.profitability_timeline"); present(raw) {
		cards = append(cards, Card{
			Label: "Projected Profitability",
			Value: text("Q" + Text(raw)),
			Note:  "Based on current trajectory",
		})
	}

	rows := lookup(cur, "$.revenue_breakdowns[*]")
	list, _ := rows.([]any)
	if len(list) == 0 {
		return cards, nil, nil
	}
	t := Table{Title: "Revenue Breakdown by Product", Header: []string{"Product", "Revenue", "Share"}}
	for _, r := range list {
		rec, _ := r.(map[string]any)
		t.Rows = append(t.Rows, []Value{
			text(Text(rec["product"])),
			optional(rec["revenue"], UnitINR, Float),
			optional(rec["percentage"], UnitPercent, Float),
		})
	}
	return cards, []Table{t}, nil
}

func unitEconomicsExtra(cur models.Snapshot, _ []models.Snapshot, _ time.Time) ([]Card, []Table, []List) {
	rows, _ := lookup(cur, "$.marketing_breakdowns[*]").([]any)
	if len(rows) == 0 {
		return nil, nil, nil
	}
	t := Table{
		Title:  "Marketing Spend & CAC by Channel",
		Header: []string{"Channel", "Spend (₹)", "Budget (₹)", "CAC (₹)", "Efficiency"},
	}
	for _, r := range rows {
		rec, _ := r.(map[string]any)
		t.Rows = append(t.Rows, []Value{
			text(Text(rec["channel"])),
			number(Int(rec["spend"]), UnitINR),
			optional(rec["budget"], UnitINR, Int),
			number(Int(rec["cac"]), UnitINR),
			ChannelEfficiency(rec["spend"], rec["budget"]),
		})
	}
	return nil, []Table{t}, nil
}

// ChannelEfficiency is round(spend/budget*100) percent, N/A without a budget.
func ChannelEfficiency(spend, budget any) Value {
	if !present(budget) || Text(budget) == "0" {
		return missing(UnitPercent)
	}
	b := Float(budget)
	if b.IsZero() {
		return missing(UnitPercent)
	}
	return number(Float(spend).Div(b).Mul(decimal.NewFromInt(100)).Round(0), UnitPercent)
}

func productExtra(cur models.Snapshot, hist []models.Snapshot, _ time.Time) ([]Card, []Table, []List) {
	card := Card{Label: "Milestone Completion Rate", Value: MilestoneCompletion(cur)}
	if !card.Value.Missing {
		g := clamp(card.Value.Number)
		card.Gauge = &g
	}

	roadmap := List{Title: "Product Roadmap", Empty: "No roadmap entries"}
	for _, h := range hist {
		entry := strings.TrimSpace(Text(h["roadmap"]))
		if entry == "" {
			continue
		}
		roadmap.Items = append(roadmap.Items, h.PeriodLabel()+": "+strings.ReplaceAll(entry, `"`, ""))
	}
	return []Card{card}, nil, []List{roadmap}
}

// MilestoneCompletion is round(achieved/(achieved+missed)*100) percent.
func MilestoneCompletion(cur models.Snapshot) Value {
	achieved := Int(lookup(cur, "$.milestones_achieved"))
	total := achieved.Add(Int(lookup(cur, "$.milestones_missed")))
	if total.IsZero() {
		return missing(UnitPercent)
	}
	return number(achieved.Div(total).Mul(decimal.NewFromInt(100)).Round(0), UnitPercent)
}

func fundraisingExtra(cur models.Snapshot, _ []models.Snapshot, now time.Time) ([]Card, []Table, []List) {
	target := Int(lookup(cur, "$.target_amount")).Mul(decimal.NewFromFloat(1.5))
	valuation := Int(lookup(cur, "$.valuation_expectations")).Mul(decimal.NewFromFloat(1.8))

	cards := []Card{
		{Label: "Target Amount", Value: number(target, UnitCrore)},
		{Label: "Valuation Target", Value: number(valuation, UnitCrore)},
	}

	next := Card{Label: "Time to Next Round", Value: missing(UnitDays)}
	if at, ok := parseDate(Text(lookup(cur, "$.next_round"))); ok {
		next.Value = number(DaysUntil(at, now), UnitDays)
		next.Note = "Projected close: " + at.Format("02/01/2006")
	}
	cards = append(cards, next)

	if at, ok := parseDate(Text(lookup(cur, "$.last_round"))); ok {
		cards = append(cards, Card{Label: "Last Round", Value: text(at.Format("Jan 2006"))})
	}
	return cards, nil, nil
}

// DaysUntil rounds the distance from now to at to whole days.
func DaysUntil(at, now time.Time) decimal.Decimal {
	days := decimal.NewFromFloat(at.Sub(now).Hours() / 24)
	return days.Round(0)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05", "01/02/2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func competitiveExtra(cur models.Snapshot, _ []models.Snapshot, _ time.Time) ([]Card, []Table, []List) {
	t := Table{Title: "Competitive Metrics Radar", Header: []string{"Dimension", "Value"}}
	for _, d := range []struct{ label, field string }{
		{"Differentiators", "differentiators"},
		{"Threats", "threats"},
		{"New Competitors", "new_competitors"},
		{"Market Shifts", "market_shifts"},
		{"Defensive Strategies", "defensive_strategies"},
		{"Competitor Strategies", "competitor_strategies"},
	} {
		t.Rows = append(t.Rows, []Value{text(d.label), optional(lookup(cur, field(d.field)), UnitNone, Float)})
	}
	return nil, []Table{t}, nil
}

func selfAssessmentExtra(cur models.Snapshot, _ []models.Snapshot, _ time.Time) ([]Card, []Table, []List) {
	raw := lookup(cur, "$.overall_rating")
	overall := Float(raw)
	pct := OverallRatingPercent(overall)
	card := Card{
		Label: "Overall Rating",
		Value: Value{Number: overall, Unit: UnitOutOf10, Missing: !present(raw)},
		Tone:  threshold(8, 5)(overall),
		Gauge: &pct,
	}

	t := Table{Title: "Rating Breakdown", Header: []string{"Area", "Rating"}}
	for _, d := range []struct{ label, field string }{
		{"Financial", "financial_rating"},
		{"Market", "market_rating"},
		{"Operational", "operational_rating"},
		{"Product", "product_rating"},
		{"Team", "team_rating"},
	} {
		t.Rows = append(t.Rows, []Value{text(d.label), optional(lookup(cur, field(d.field)), UnitOutOf5, Float)})
	}
	return []Card{card}, []Table{t}, nil
}

// OverallRatingPercent maps a rating out of 10 to a 0..100 gauge.
func OverallRatingPercent(overall decimal.Decimal) decimal.Decimal {
	return clamp(overall.Div(decimal.NewFromInt(10)).Mul(decimal.NewFromInt(100)))
}

func optional(v any, u Unit, parse parser) Value {
	if !present(v) {
		return missing(u)
	}
	return number(parse(v), u)
}

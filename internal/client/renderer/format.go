package renderer

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/dmitrijs2005/vcdash/internal/client/metrics"
	"github.com/shopspring/decimal"
)

const (
	notAvailable  = "N/A"
	currency      = "INR"
	gaugeSegments = 10
)

// Value formats a metric value with its unit.
func Value(v metrics.Value) string {
	if v.Missing {
		return notAvailable
	}
	if v.Text != "" {
		return v.Text
	}
	d := v.Number
	switch v.Unit {
	case metrics.UnitINR:
		return Money(d)
	case metrics.UnitCrore:
		return "₹" + d.String() + "Cr"
	case metrics.UnitPercent:
		return d.String() + "%"
	case metrics.UnitMonths:
		return d.String() + " months"
	case metrics.UnitDays:
		return d.String() + " days"
	case metrics.UnitRatio:
		return d.String() + ":1"
	case metrics.UnitOutOf100:
		return d.String() + "/100"
	case metrics.UnitOutOf10:
		return d.String() + "/10"
	case metrics.UnitOutOf5:
		return d.String() + "/5"
	}
	return d.String()
}

// Money formats an amount in rupees, e.g. ₹1,200,000.00.
func Money(amount decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.String()
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).IntPart(), currency).Display()
}

// Gauge draws a 0..100 value as a bar of ten segments.
func Gauge(pct decimal.Decimal) string {
	filled := int(pct.Div(decimal.NewFromInt(100 / gaugeSegments)).Round(0).IntPart())
	filled = max(0, min(filled, gaugeSegments))
	return strings.Repeat("█", filled) + strings.Repeat("░", gaugeSegments-filled) + " " + pct.Round(0).String() + "%"
}

func toneMark(t metrics.Tone) string {
	switch t {
	case metrics.ToneGood:
		return "✔"
	case metrics.ToneWarn:
		return "⚠"
	case metrics.ToneBad:
		return "✖"
	}
	return ""
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string { return cellEscaper.Replace(strings.TrimSpace(s)) }

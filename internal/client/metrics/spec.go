package metrics

import (
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/shopspring/decimal"
)

// parser turns a raw field into a number.
type parser func(any) decimal.Decimal

// cardSpec declares one headline card read from the current snapshot.
type cardSpec struct {
	label string
	path  string
	unit  Unit
	parse parser
	// asText shows the raw field instead of a number.
	asText bool
	tone   func(decimal.Decimal) Tone
	gauge  func(decimal.Decimal) decimal.Decimal
	note   func(models.Snapshot) (string, Tone)
}

type lineSpec struct {
	name  string
	field string
	parse parser
}

type seriesSpec struct {
	title string
	lines []lineSpec
}

// labelledSpec is a "<label>: <raw value>" bullet.
type labelledSpec struct {
	label  string
	field  string
	suffix string
}

type listSpec struct {
	title string
	empty string
	// fixed bullets read from the snapshot
	bullets []labelledSpec
	// path of a list-valued field of the snapshot
	path string
	// fromHistory splits a comma separated field of every history record
	fromHistory string
	format      func(i int, s string) string
}

type weight struct {
	field  string
	factor float64
}

// scoreSpec is a clamped weighted sum of integer fields.
type scoreSpec struct {
	label   string
	weights []weight
	divisor float64
	// places is the number of decimals kept, -1 keeps all.
	places int32
	// good and warn are the tone thresholds, 70 and 40 when both are zero.
	good, warn float64
}

func (s *scoreSpec) tone() func(decimal.Decimal) Tone {
	if s.good == 0 && s.warn == 0 {
		return threshold(70, 40)
	}
	return threshold(s.good, s.warn)
}

// category is one row of the panel table.
type category struct {
	title  string
	empty  string
	score  *scoreSpec
	cards  []cardSpec
	series []seriesSpec
	lists  []listSpec
	// extra derives the cards and tables that do not fit the declarative
	// specs above.
	extra func(cur models.Snapshot, hist []models.Snapshot, now time.Time) ([]Card, []Table, []List)
}

func threshold(good, warn float64) func(decimal.Decimal) Tone {
	return func(d decimal.Decimal) Tone {
		switch {
		case d.GreaterThanOrEqual(decimal.NewFromFloat(good)):
			return ToneGood
		case d.GreaterThanOrEqual(decimal.NewFromFloat(warn)):
			return ToneWarn
		}
		return ToneBad
	}
}

// atLeast is good from v up and below otherwise.
func atLeast(v float64, below Tone) func(decimal.Decimal) Tone {
	return func(d decimal.Decimal) Tone {
		if d.GreaterThanOrEqual(decimal.NewFromFloat(v)) {
			return ToneGood
		}
		return below
	}
}

// truncated applies tone to the integer part of the value.
func truncated(tone func(decimal.Decimal) Tone) func(decimal.Decimal) Tone {
	return func(d decimal.Decimal) Tone { return tone(d.Truncate(0)) }
}

// above is threshold with strict comparisons.
func above(good, warn float64) func(decimal.Decimal) Tone {
	return func(d decimal.Decimal) Tone {
		switch {
		case d.GreaterThan(decimal.NewFromFloat(good)):
			return ToneGood
		case d.GreaterThan(decimal.NewFromFloat(warn)):
			return ToneWarn
		}
		return ToneBad
	}
}

func asGauge(d decimal.Decimal) decimal.Decimal { return clamp(d) }

// arrow renders "↑ 12% <suffix>" from the integer part of a change field.
// inverse marks fields where growth is bad, such as cost or burn.
func arrow(name, suffix string, inverse bool) func(models.Snapshot) (string, Tone) {
	return func(s models.Snapshot) (string, Tone) {
		d := Int(lookup(s, field(name)))
		up := !d.IsNegative()
		sign, tone := "↓", ToneBad
		if up {
			sign, tone = "↑", ToneGood
		}
		if inverse {
			if tone == ToneGood {
				tone = ToneBad
			} else {
				tone = ToneGood
			}
		}
		return sign + " " + d.Abs().String() + "% " + suffix, tone
	}
}

// fixedNote is a note without tone.
func fixedNote(s string) func(models.Snapshot) (string, Tone) {
	return func(models.Snapshot) (string, Tone) { return s, ToneNeutral }
}

// Package metrics derives the content of the company metric panels from the
// raw snapshot and history records. It does no formatting beyond labels;
// rendering is left to the renderer package.
package metrics

import "github.com/shopspring/decimal"

// Unit tells the renderer how to format a Value.
type Unit int

const (
	UnitNone Unit = iota
	UnitINR
	UnitCrore
	UnitPercent
	UnitMonths
	UnitDays
	UnitRatio
	UnitOutOf100
	UnitOutOf10
	UnitOutOf5
)

// Tone is the traffic-light colour of a value.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

// Value is a number with a unit, or preformatted text. Missing values render
// as N/A.
type Value struct {
	Number  decimal.Decimal
	Text    string
	Unit    Unit
	Missing bool
}

func number(d decimal.Decimal, u Unit) Value { return Value{Number: d, Unit: u} }
func text(s string) Value                    { return Value{Text: s, Missing: s == ""} }
func missing(u Unit) Value                   { return Value{Unit: u, Missing: true} }

type Card struct {
	Label string
	Value Value
	Note  string
	Tone  Tone
	// Gauge is a 0..100 progress value shown next to the card, when set.
	Gauge *decimal.Decimal
}

type Line struct {
	Name   string
	Values []decimal.Decimal
}

// Series is a trend over the history records; Labels are "<quarter> <year>".
type Series struct {
	Title  string
	Labels []string
	Lines  []Line
}

type List struct {
	Title string
	Items []string
	// Empty is shown instead of an empty list.
	Empty string
}

type Table struct {
	Title  string
	Header []string
	Rows   [][]Value
}

// Panel is everything shown for one category and period.
type Panel struct {
	Title string
	// Placeholder is set, and everything else empty, when there is no data.
	Placeholder string

	Cards  []Card
	Tables []Table
	Series []Series
	Lists  []List
}

func (p Panel) Empty() bool { return p.Placeholder != "" }

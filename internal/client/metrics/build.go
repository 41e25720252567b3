package metrics

import (
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/shopspring/decimal"
)

// NoData is the placeholder for tabs without a panel definition.
const NoData = "No data available"

// Build assembles the panel of tab from the first snapshot record and the
// history series. now is used for date arithmetic such as days to the next
// funding round.
func Build(tab models.Tab, data, hist []models.Snapshot, now time.Time) Panel {
	cat, ok := categories[tab]
	if !ok {
		return Panel{Title: string(tab), Placeholder: NoData}
	}
	if len(data) == 0 || len(data[0]) == 0 {
		return Panel{Title: cat.title, Placeholder: cat.empty}
	}
	cur := data[0]

	p := Panel{Title: cat.title}
	if cat.score != nil {
		p.Cards = append(p.Cards, scoreCard(cur, cat.score))
	}
	for _, c := range cat.cards {
		p.Cards = append(p.Cards, buildCard(cur, c))
	}
	if cat.extra != nil {
		cards, tables, lists := cat.extra(cur, hist, now)
		p.Cards = append(p.Cards, cards...)
		p.Tables = append(p.Tables, tables...)
		p.Lists = append(p.Lists, lists...)
	}
	for _, s := range cat.series {
		p.Series = append(p.Series, buildSeries(hist, s))
	}
	for _, l := range cat.lists {
		p.Lists = append(p.Lists, buildList(cur, hist, l))
	}
	return p
}

func buildCard(cur models.Snapshot, c cardSpec) Card {
	raw := lookup(cur, c.path)
	card := Card{Label: c.label}
	if c.asText {
		card.Value = text(Text(raw))
	} else {
		parse := c.parse
		if parse == nil {
			parse = Int
		}
		v := parse(raw)
		card.Value = Value{Number: v, Unit: c.unit, Missing: !present(raw)}
		if c.tone != nil && present(raw) {
			card.Tone = c.tone(v)
		}
		if c.gauge != nil {
			g := c.gauge(v)
			card.Gauge = &g
		}
	}
	if c.note != nil {
		note, tone := c.note(cur)
		card.Note = note
		if c.tone == nil {
			card.Tone = tone
		}
	}
	return card
}

// score is the weighted sum of the integer fields of s, divided and clamped
// to [0,100].
func score(cur models.Snapshot, s *scoreSpec) decimal.Decimal {
	sum := decimal.Zero
	for _, w := range s.weights {
		sum = sum.Add(Int(lookup(cur, field(w.field))).Mul(decimal.NewFromFloat(w.factor)))
	}
	if s.divisor != 0 && s.divisor != 1 {
		sum = sum.Div(decimal.NewFromFloat(s.divisor))
	}
	sum = clamp(sum)
	if s.places >= 0 {
		sum = sum.Round(s.places)
	}
	return sum
}

func scoreCard(cur models.Snapshot, s *scoreSpec) Card {
	v := score(cur, s)
	g := v
	return Card{
		Label: s.label,
		Value: number(v, UnitOutOf100),
		Tone:  s.tone()(v),
		Gauge: &g,
	}
}

func buildSeries(hist []models.Snapshot, s seriesSpec) Series {
	out := Series{Title: s.title}
	for _, h := range hist {
		out.Labels = append(out.Labels, h.PeriodLabel())
	}
	for _, l := range s.lines {
		parse := l.parse
		if parse == nil {
			parse = Int
		}
		line := Line{Name: l.name, Values: make([]decimal.Decimal, 0, len(hist))}
		for _, h := range hist {
			line.Values = append(line.Values, parse(h[l.field]))
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func buildList(cur models.Snapshot, hist []models.Snapshot, l listSpec) List {
	out := List{Title: l.title, Empty: l.empty}
	for _, b := range l.bullets {
		v := "N/A"
		if raw := lookup(cur, field(b.field)); present(raw) {
			v = Text(raw) + b.suffix
		}
		out.Items = append(out.Items, b.label+": "+v)
	}
	if l.path != "" {
		out.Items = append(out.Items, items(lookup(cur, l.path))...)
	}
	if l.fromHistory != "" {
		for _, h := range hist {
			out.Items = append(out.Items, splitList(Text(h[l.fromHistory]))...)
		}
	}
	if l.format != nil {
		for i, s := range out.Items {
			out.Items[i] = l.format(i, s)
		}
	}
	return out
}

package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/dashboard"
	"github.com/dmitrijs2005/vcdash/internal/client/metrics"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
)

type doc struct {
	strings.Builder
}

func (d *doc) Printf(format string, args ...any) {
	fmt.Fprintf(d, format, args...)
}

func (d *doc) table(header []string, rows [][]string) {
	d.Printf("| %s |\n", strings.Join(header, " | "))
	d.Printf("|%s\n", strings.Repeat(":---|", len(header)))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = cell(c)
		}
		d.Printf("| %s |\n", strings.Join(cells, " | "))
	}
	d.Printf("\n")
}

// Companies renders the company grid. base is the dashboard address used
// for the detail links; an empty base leaves the link column out.
func Companies(list []models.CompanySummary, sector, base string) string {
	d := &doc{}
	title := "Companies"
	if sector != "" && sector != services.AllSectors {
		title += " in " + sector
	}
	d.Printf("# %s (%d)\n\n", title, len(list))
	if len(list) == 0 {
		d.Printf("_No companies found_\n")
		return d.String()
	}

	header := []string{" ", "ID", "Company", "Tags", "Description"}
	if base != "" {
		header = append(header, "Link")
	}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		row := []string{"**" + c.Letter() + "**", c.ID, c.Name, strings.Join(c.DisplayTags(), ", "), c.Description}
		if base != "" {
			row = append(row, services.CompanyURL(base, c.ID, c.Name))
		}
		rows = append(rows, row)
	}
	d.table(header, rows)
	return d.String()
}

// Panel renders one metrics panel.
func Panel(p metrics.Panel) string {
	d := &doc{}
	writePanel(d, p)
	return d.String()
}

func writePanel(d *doc, p metrics.Panel) {
	d.Printf("## %s\n\n", p.Title)
	if p.Empty() {
		d.Printf("_%s_\n\n", p.Placeholder)
		return
	}

	if len(p.Cards) > 0 {
		rows := make([][]string, 0, len(p.Cards))
		for _, c := range p.Cards {
			v := Value(c.Value)
			if m := toneMark(c.Tone); m != "" && !c.Value.Missing {
				v += " " + m
			}
			gauge := ""
			if c.Gauge != nil {
				gauge = Gauge(*c.Gauge)
			}
			rows = append(rows, []string{c.Label, v, gauge, c.Note})
		}
		d.table([]string{"Metric", "Value", "Gauge", "Note"}, rows)
	}

	for _, t := range p.Tables {
		d.Printf("### %s\n\n", t.Title)
		rows := make([][]string, 0, len(t.Rows))
		for _, r := range t.Rows {
			cells := make([]string, len(r))
			for i, v := range r {
				cells[i] = Value(v)
			}
			rows = append(rows, cells)
		}
		d.table(t.Header, rows)
	}

	for _, s := range p.Series {
		d.Printf("### %s\n\n", s.Title)
		if len(s.Labels) == 0 {
			d.Printf("_No history available_\n\n")
			continue
		}
		header := []string{"Period"}
		for _, l := range s.Lines {
			header = append(header, l.Name)
		}
		rows := make([][]string, 0, len(s.Labels))
		for i, label := range s.Labels {
			row := []string{label}
			for _, l := range s.Lines {
				row = append(row, l.Values[i].String())
			}
			rows = append(rows, row)
		}
		d.table(header, rows)
	}

	for _, l := range p.Lists {
		d.Printf("### %s\n\n", l.Title)
		if len(l.Items) == 0 {
			empty := l.Empty
			if empty == "" {
				empty = notAvailable
			}
			d.Printf("_%s_\n\n", empty)
			continue
		}
		for _, item := range l.Items {
			d.Printf("- %s\n", strings.TrimSpace(item))
		}
		d.Printf("\n")
	}
}

// Dashboard renders a company detail view: the tab bar, the selected period,
// load status and the panel for the loaded records.
func Dashboard(name string, st dashboard.State, now time.Time) string {
	d := &doc{}
	if name == "" {
		name = "Company " + st.CompanyID
	}
	d.Printf("# %s\n\n", name)

	tabs := make([]string, 0, len(models.Tabs))
	for _, t := range models.Tabs {
		if t == st.Tab {
			tabs = append(tabs, "**"+string(t)+"**")
			continue
		}
		tabs = append(tabs, string(t))
	}
	d.Printf("%s\n\n", strings.Join(tabs, " · "))
	d.Printf("Period: _%s_\n\n", st.Period)

	if st.Loading() {
		d.Printf("_Loading…_\n\n")
	}
	if st.DataErr != nil {
		d.Printf("> Failed to load metrics: %s. Type `retry` to try again.\n\n", st.DataErr)
	}
	if st.HistoryErr != nil {
		d.Printf("> Failed to load history: %s. Type `retry` to try again.\n\n", st.HistoryErr)
	}

	writePanel(d, metrics.Build(st.Tab, st.Data, st.History, now))
	return d.String()
}

// Enrollment renders the result of a two-factor enrollment: where the QR
// code was saved and the backup code.
func Enrollment(qr services.QRResult, qrPath string, backup services.BackupCodeResult) string {
	d := &doc{}
	d.Printf("# Two-factor authentication\n\n")

	if qr.Success && qrPath != "" {
		d.Printf("%s. Scan the image saved to `%s` with your authenticator app.\n\n", qr.Message, qrPath)
	} else {
		d.Printf("> %s\n\n", qr.Message)
	}

	if backup.Success {
		d.Printf("%s:\n\n```\n%s\n```\n\nStore it somewhere safe; it is the only way back in without your device.\n", backup.Message, backup.Code)
	} else {
		d.Printf("> %s\n", backup.Message)
	}
	return d.String()
}

package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/dashboard"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/renderer"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
)

// Companies prints the roster, filtered by sector unless it is empty or
// services.AllSectors.
func (a *App) Companies(ctx context.Context, sector string) error {
	if err := a.guard.Require(ctx); err != nil {
		return err
	}
	_, err := a.listCompanies(ctx, sector)
	return err
}

func (a *App) listCompanies(ctx context.Context, sector string) ([]models.CompanySummary, error) {
	all, err := a.companies.List(ctx)
	if err != nil {
		a.printf("Failed to load companies: %v\n", err)
		return nil, reported(err)
	}
	list := services.Filter(all, sector)
	a.print(renderer.Companies(list, sector, a.frontend))
	return list, nil
}

// Company prints one metrics category of a company for a period. The data
// and history are loaded together; a failure of either still prints what
// was loaded.
func (a *App) Company(ctx context.Context, id, name string, tab models.Tab, period models.Period) error {
	if err := a.guard.Require(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("company id is required")
	}

	l := dashboard.NewLoader(a.fetcher, id, a.now(), a.log)
	st, err := l.Select(ctx, tab, period)
	a.print(renderer.Dashboard(name, st, a.now()))
	return reported(err)
}

// parseSelection validates the tab and period flags of the company command.
// Empty quarter and year fall back to the default period.
func parseSelection(tab, quarter, year string, now time.Time) (models.Tab, models.Period, error) {
	t := models.TabFinance
	if tab != "" {
		var err error
		if t, err = models.ParseTab(tab); err != nil {
			return "", models.Period{}, err
		}
	}

	p := models.DefaultPeriod(now)
	if quarter == "" && year == "" {
		return t, p, nil
	}
	if quarter == "" {
		quarter = p.Quarter
	}
	if year == "" {
		year = strconv.Itoa(p.Year)
	}
	p, err := models.ParsePeriod(quarter, year, now)
	if err != nil {
		return "", models.Period{}, err
	}
	return t, p, nil
}

var errNoCompany = errors.New("no company open, use: open <id>")

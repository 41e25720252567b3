package cli

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion. Global flags
// come first, then one subcommand with its own flags.
func Completion(now time.Time) *complete.Command {
	tabs := make(predict.Set, 0, len(models.Tabs))
	for _, t := range models.Tabs {
		tabs = append(tabs, string(t))
	}
	var years predict.Set
	for _, y := range models.SelectableYears(now) {
		years = append(years, strconv.Itoa(y))
	}

	noFlags := func() *complete.Command { return &complete.Command{} }
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"login":           noFlags(),
			"signup":          noFlags(),
			"logout":          noFlags(),
			"whoami":          noFlags(),
			"verify":          noFlags(),
			"totp":            noFlags(),
			"forgot-password": noFlags(),
			"shell":           noFlags(),
			"companies": {
				Flags: map[string]complete.Predictor{
					"sector": predict.Set(services.Sectors),
				},
			},
			"company": {
				Flags: map[string]complete.Predictor{
					"id":      predict.Something,
					"name":    predict.Something,
					"tab":     tabs,
					"quarter": predict.Set{"Q1", "Q2", "Q3", "Q4"},
					"year":    years,
				},
			},
		},
		Flags: map[string]complete.Predictor{
			"a":      predict.Something,
			"f":      predict.Something,
			"s":      predict.Files("*.db"),
			"t":      predict.Something,
			"rps":    predict.Something,
			"burst":  predict.Something,
			"v":      predict.Nothing,
			"c":      predict.Files("*.json"),
			"config": predict.Files("*.json"),
		},
	}
}

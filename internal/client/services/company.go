package services

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vcdash/internal/client/client"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/logging"
)

// AllSectors selects every company.
const AllSectors = "All Sectors"

// Sectors is the fixed list of roster filters, AllSectors first.
var Sectors = []string{
	AllSectors, "EdTech", "HealthTech", "Healthcare", "AI",
	"Digital Learning", "Education Analytics", "Medical Imaging",
	"Telemedicine", "Patient Care", "Automation", "Business Process",
}

type CompanyService interface {
	// List fetches the whole roster. There is no pagination or caching.
	List(ctx context.Context) (map[string]models.CompanySummary, error)
}

type companyService struct {
	client client.Client
	log    logging.Logger
}

func NewCompanyService(c client.Client, log logging.Logger) CompanyService {
	if log == nil {
		log = logging.Nop()
	}
	return &companyService{client: c, log: log.With("component", "companies")}
}

func (s *companyService) List(ctx context.Context) (map[string]models.CompanySummary, error) {
	roster, err := s.client.ListCompanies(ctx)
	if err != nil {
		s.log.Warn(ctx, "company list fetch failed", "error", err)
		return nil, fmt.Errorf("list companies: %w", err)
	}
	s.log.Debug(ctx, "company list fetched", "count", len(roster))
	return roster, nil
}

// Filter selects the companies shown under tag. AllSectors (or "") keeps
// everything; any other tag matches the sector or one of the tags. The result
// is ordered by id, numerically when both ids are numbers.
func Filter(companies map[string]models.CompanySummary, tag string) []models.CompanySummary {
	out := make([]models.CompanySummary, 0, len(companies))
	for id, c := range companies {
		if c.ID == "" {
			c.ID = id
		}
		if tag == "" || tag == AllSectors || c.Sector == tag || slices.Contains(c.Tags, tag) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.CompanySummary) int { return compareIDs(a.ID, b.ID) })
	return out
}

func compareIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// CompanyURL is the dashboard address of a company.
func CompanyURL(base, id, name string) string {
	return strings.TrimRight(base, "/") + "/vc/company/" + url.PathEscape(id) + "/" + url.PathEscape(name)
}

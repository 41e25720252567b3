package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster() map[string]models.CompanySummary {
	return map[string]models.CompanySummary{
		"10": {ID: "10", Name: "Ten", Sector: "AI"},
		"2":  {ID: "2", Name: "Two", Sector: "EdTech", Tags: []string{"EdTech", "AI"}},
		"1":  {ID: "1", Name: "One", Sector: "Healthcare"},
		"x":  {ID: "x", Name: "Ex", Tags: []string{"Automation"}},
	}
}

func ids(cs []models.CompanySummary) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter_AllSectors_ReturnsEverythingSorted(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "10", "x"}, ids(Filter(roster(), AllSectors)))
	assert.Equal(t, []string{"1", "2", "10", "x"}, ids(Filter(roster(), "")))
}

func TestFilter_BySectorOrTag(t *testing.T) {
	assert.Equal(t, []string{"2", "10"}, ids(Filter(roster(), "AI")))
	assert.Equal(t, []string{"x"}, ids(Filter(roster(), "Automation")))
	assert.Empty(t, Filter(roster(), "Telemedicine"))
	assert.Empty(t, Filter(nil, "AI"))
}

func TestFilter_FillsMissingID(t *testing.T) {
	got := Filter(map[string]models.CompanySummary{"5": {Name: "Five"}}, AllSectors)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
}

func TestSectors_StartsWithAll(t *testing.T) {
	require.Len(t, Sectors, 12)
	assert.Equal(t, AllSectors, Sectors[0])
}

func TestCompanyURL(t *testing.T) {
	assert.Equal(t, "https://app.example/vc/company/7/Acme%20Health", CompanyURL("https://app.example/", "7", "Acme Health"))
	assert.Equal(t, "/vc/company/7/A%2FB", CompanyURL("", "7", "A/B"))
}

func TestCompanyService_List(t *testing.T) {
	fc := &fakeClient{Companies: roster()}
	svc := NewCompanyService(fc, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fc.ListCalls)

	fc.CompaniesErr = errNetwork
	_, err = svc.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNetwork))
}

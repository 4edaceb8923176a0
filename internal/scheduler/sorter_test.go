package scheduler

import (
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(sites []domain.Site) []string {
	out := make([]string, len(sites))
	for i, s := range sites {
		out[i] = s.ID
	}
	return out
}

func TestSortSites_BookedBeforeTBC(t *testing.T) {
	sites := []domain.Site{
		tbcSite("a", 0),
		bookedSite("b", 1, "2026-03-02"),
		tbcSite("c", 2),
	}

	for _, mode := range []domain.SortMode{domain.SortCreation, domain.SortName, domain.SortDate} {
		got := SortSites(sites, mode)
		require.Len(t, got, 3)
		assert.Equal(t, "b", got[0].ID, "mode %s: booked site first", mode)
	}
}

func TestSortSites_CreationOrdersBookedByDate(t *testing.T) {
	sites := []domain.Site{
		bookedSite("late", 0, "2026-05-04"),
		bookedSite("early", 1, "2026-03-02"),
		tbcSite("t2", 3),
		tbcSite("t1", 2),
	}

	got := SortSites(sites, domain.SortCreation)
	assert.Equal(t, []string{"early", "late", "t1", "t2"}, ids(got))
}

func TestSortSites_NameCaseInsensitive(t *testing.T) {
	a := tbcSite("1", 0)
	a.Name = "bravo"
	b := tbcSite("2", 1)
	b.Name = "Alpha"
	c := tbcSite("3", 2)
	c.Name = "alpha"

	got := SortSites([]domain.Site{a, b, c}, domain.SortName)
	assert.Equal(t, []string{"2", "3", "1"}, ids(got), "equal folded names fall back to exact comparison")
}

func TestSortSites_DateUsesCreatedAtForTBC(t *testing.T) {
	older := tbcSite("older", 5)
	older.CreatedAt = day("2025-12-01")
	newer := tbcSite("newer", 1)
	newer.CreatedAt = day("2026-01-02")

	got := SortSites([]domain.Site{newer, older}, domain.SortDate)
	assert.Equal(t, []string{"older", "newer"}, ids(got))
}

func TestSortSites_OrderThenIDTiebreak(t *testing.T) {
	a := tbcSite("b", 1)
	b := tbcSite("a", 1)
	c := tbcSite("c", 0)

	got := SortSites([]domain.Site{a, b, c}, domain.SortCreation)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
}

func TestSortSites_DoesNotMutateInput(t *testing.T) {
	sites := []domain.Site{tbcSite("b", 1), tbcSite("a", 0)}

	_ = SortSites(sites, domain.SortCreation)
	assert.Equal(t, []string{"b", "a"}, ids(sites))
}

func TestStatusPriority(t *testing.T) {
	assert.Less(t, StatusPriority(domain.SiteBooked), StatusPriority(domain.SiteTBC))
}

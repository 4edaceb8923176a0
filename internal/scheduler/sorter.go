package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// StatusPriority returns a sort priority (lower = placed first).
func StatusPriority(s domain.SiteStatus) int {
	if s == domain.SiteBooked {
		return 0
	}
	return 1
}

// SortSites returns the sites in placement order. The input slice is left
// untouched. Rules:
// 1. Booked before TBC
// 2. Mode-specific key:
//   - creation: Booked-vs-Booked by booked date, then order index
//   - name: case-insensitive name, then exact name
//   - date: booked date for Booked sites, creation time otherwise
//
// 3. Order index
// 4. Site ID (lexical)
func SortSites(sites []domain.Site, mode domain.SortMode) []domain.Site {
	out := make([]domain.Site, len(sites))
	copy(out, sites)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]

		// 1. Status class
		pa, pb := StatusPriority(a.Status), StatusPriority(b.Status)
		if pa != pb {
			return pa < pb
		}

		// 2. Sort mode
		switch mode {
		case domain.SortName:
			la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if la != lb {
				return la < lb
			}
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case domain.SortDate:
			da, db := sortDate(a), sortDate(b)
			if !da.Equal(db) {
				return da.Before(db)
			}
		default:
			if a.Status == domain.SiteBooked && b.Status == domain.SiteBooked {
				da, db := bookedOrZero(a), bookedOrZero(b)
				if !da.Equal(db) {
					return da.Before(db)
				}
			}
		}

		// 3. Order index
		if a.Order != b.Order {
			return a.Order < b.Order
		}

		// 4. Site ID
		return a.ID < b.ID
	})
	return out
}

func bookedOrZero(s *domain.Site) time.Time {
	if s.BookedDate == nil {
		return time.Time{}
	}
	return *s.BookedDate
}

func sortDate(s *domain.Site) time.Time {
	if s.Status == domain.SiteBooked && s.BookedDate != nil {
		return *s.BookedDate
	}
	return s.CreatedAt
}

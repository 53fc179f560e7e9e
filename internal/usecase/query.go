package usecase

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tinyflix/internal/domain"
)

// ComputeVisible filters and orders the catalog for a query. It is pure:
// the result depends only on its arguments, and the input slice is not
// modified. Ties keep catalog order.
func ComputeVisible(videos []domain.Video, q domain.QueryState, now time.Time) []domain.Video {
	needle := strings.ToLower(q.SearchText)
	cutoff := now.AddDate(0, 0, -domain.RecentWindowDays)

	visible := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if !matchesSearch(v, needle) {
			continue
		}
		switch q.Filter {
		case domain.FilterRecent:
			if v.PublishedAt.Before(cutoff) {
				continue
			}
		case domain.FilterPopular:
			if v.ViewCount <= domain.PopularViewThreshold {
				continue
			}
		}
		visible = append(visible, v.Clone())
	}

	switch q.Sort {
	case domain.SortTitle:
		c := collate.New(language.English)
		slices.SortStableFunc(visible, func(a, b domain.Video) int {
			return c.CompareString(a.Title, b.Title)
		})
	case domain.SortDate:
		slices.SortStableFunc(visible, func(a, b domain.Video) int {
			return b.PublishedAt.Compare(a.PublishedAt)
		})
	case domain.SortRating:
		slices.SortStableFunc(visible, func(a, b domain.Video) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	}
	return visible
}

func matchesSearch(v domain.Video, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(v.Title), needle) ||
		strings.Contains(strings.ToLower(v.Description), needle) {
		return true
	}
	for _, tag := range v.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

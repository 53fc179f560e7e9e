// Package catalog holds the compiled-in video catalog.
package catalog

import (
	"time"

	"tinyflix/internal/domain"
)

// Seed returns the default catalog. Each call returns fresh copies.
func Seed() []domain.Video {
	return []domain.Video{
		{
			ID:           "1",
			Title:        "React Basics",
			Duration:     "10:30",
			ThumbnailURL: "https://picsum.photos/200/300",
			Description:  "Learn the fundamentals of React",
			Tags:         []string{"react", "javascript", "frontend"},
			ViewCount:    1500,
			Rating:       4.5,
			PublishedAt:  date(2024, time.March, 1),
		},
		{
			ID:           "2",
			Title:        "Advanced React",
			Duration:     "15:45",
			ThumbnailURL: "https://picsum.photos/200/300",
			Description:  "Deep dive into React advanced concepts",
			Tags:         []string{"react", "hooks", "performance"},
			ViewCount:    2300,
			Rating:       4.8,
			PublishedAt:  date(2024, time.March, 15),
		},
		{
			ID:           "3",
			Title:        "Intro to Testing",
			Duration:     "12:20",
			ThumbnailURL: "https://picsum.photos/200/300",
			Description:  "Learn how to test React applications",
			Tags:         []string{"testing", "jest", "react-testing-library"},
			ViewCount:    1800,
			Rating:       4.2,
			PublishedAt:  date(2024, time.March, 20),
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

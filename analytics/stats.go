package analytics

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"portfolio/models"
)

type PathViews struct {
	Path  string
	Count int64
}

type DayViews struct {
	Date  string
	Count int64
}

// Stats reads aggregated page views.
type Stats struct {
	db *gorm.DB
}

func NewStats(db *gorm.DB) *Stats {
	return &Stats{db: db}
}

// TopPaths returns the most viewed paths since the given time.
func (s *Stats) TopPaths(ctx context.Context, since time.Time, limit int) ([]PathViews, error) {
	var out []PathViews
	err := s.db.WithContext(ctx).Model(&models.PageView{}).
		Select("path, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("path").
		Order("count DESC, path ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top paths: %w", err)
	}
	return out, nil
}

// ViewsByDay returns one entry per day for the last days days ending at
// now, including days without views. Days are bucketed in UTC.
func (s *Stats) ViewsByDay(ctx context.Context, now time.Time, days int) ([]DayViews, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	var stamps []time.Time
	err := s.db.WithContext(ctx).Model(&models.PageView{}).
		Where("created_at >= ?", start).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load views: %w", err)
	}

	out := make([]DayViews, days)
	index := make(map[string]int, days)
	for i := range out {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		out[i].Date = date
		index[date] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.UTC().Format("2006-01-02")]; ok {
			out[i].Count++
		}
	}
	return out, nil
}

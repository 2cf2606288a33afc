// Package grid buckets activities into a 7x24 day-of-week by hour-of-day grid
// and discretizes per-cell counts into the five intensity levels the legend
// renders.
package grid

import (
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

const (
	// Days is the number of day rows (Sunday = 0).
	Days = 7
	// Hours is the number of hour columns (24-hour form).
	Hours = 24
	// MaxLevel is the highest intensity level.
	MaxLevel = 4
)

// Cell is one (day, hour) bucket with its count, intensity level and the
// matching activities for detail display.
type Cell struct {
	Day        int               `json:"day"`
	Hour       int               `json:"hour"`
	Count      int               `json:"count"`
	Level      int               `json:"level"`
	Activities []*model.Activity `json:"activities,omitempty"`
}

// Grid is the full 7x24 aggregation for one activity list and filter.
type Grid struct {
	Cells  [Days][Hours]Cell `json:"cells"`
	Filter string            `json:"filter,omitempty"`
	Total  int               `json:"total"`
}

// Bucket maps an absolute timestamp to its (day-of-week, hour-of-day)
// coordinate in loc. Day 0 is Sunday; hour is 0-23.
func Bucket(t time.Time, loc *time.Location) (day, hour int) {
	t = t.In(loc)
	return int(t.Weekday()), t.Hour()
}

// Level maps a non-negative count to an intensity level in [0,4].
// The thresholds are a user-visible legend contract: 0->0, 1->1, 2->2,
// 3-4->3, >=5->4. Do not change them without changing the legend.
func Level(count int) int {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	default:
		return MaxLevel
	}
}

// Builder aggregates activity lists into grids using a fixed time location.
type Builder struct {
	loc *time.Location
}

// NewBuilder returns a Builder bucketing in loc. A nil loc means UTC.
func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{loc: loc}
}

// Build filters activities by exact name (empty filter keeps all) and counts
// them into the 168 cells. Deterministic and pure: every filtered activity
// lands in exactly one cell, so the cell counts sum to Total.
func (b *Builder) Build(activities []*model.Activity, filter string) *Grid {
	g := &Grid{Filter: filter}
	for day := 0; day < Days; day++ {
		for hour := 0; hour < Hours; hour++ {
			g.Cells[day][hour] = Cell{Day: day, Hour: hour}
		}
	}

	for _, a := range activities {
		if filter != "" && a.Name != filter {
			continue
		}
		day, hour := Bucket(a.Timestamp, b.loc)
		cell := &g.Cells[day][hour]
		cell.Count++
		cell.Activities = append(cell.Activities, a)
		g.Total++
	}

	for day := 0; day < Days; day++ {
		for hour := 0; hour < Hours; hour++ {
			cell := &g.Cells[day][hour]
			cell.Level = Level(cell.Count)
		}
	}
	return g
}

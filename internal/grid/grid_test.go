package grid

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// sunday returns a known Sunday in UTC at the given hour and minute.
func sunday(hour, min int) time.Time {
	// 2025-06-01 is a Sunday.
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func act(name string, ts time.Time) *model.Activity {
	return &model.Activity{ActivityID: name + ts.String(), Name: name, Timestamp: ts}
}

func TestLevelThresholds(t *testing.T) {
	cases := []struct {
		count, level int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{6, 4},
		{100, 4},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("count=%d", tc.count), func(t *testing.T) {
			assert.Equal(t, tc.level, Level(tc.count))
		})
	}
}

func TestBucket(t *testing.T) {
	day, hour := Bucket(sunday(8, 5), time.UTC)
	assert.Equal(t, 0, day)
	assert.Equal(t, 8, hour)

	// Monday 23:59.
	day, hour = Bucket(sunday(0, 0).AddDate(0, 0, 1).Add(23*time.Hour+59*time.Minute), time.UTC)
	assert.Equal(t, 1, day)
	assert.Equal(t, 23, hour)
}

func TestBucketHonorsLocation(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*60*60)
	// 22:30 UTC Sunday is 01:30 Monday in UTC+3.
	day, hour := Bucket(sunday(22, 30), east)
	assert.Equal(t, 1, day)
	assert.Equal(t, 1, hour)
}

func TestBuildUnfiltered(t *testing.T) {
	activities := []*model.Activity{
		act("Run", sunday(8, 5)),
		act("Run", sunday(8, 40)),
		act("Swim", sunday(8, 10)),
	}

	g := NewBuilder(time.UTC).Build(activities, "")

	cell := g.Cells[0][8]
	assert.Equal(t, 3, cell.Count)
	assert.Equal(t, 3, cell.Level)
	require.Len(t, cell.Activities, 3)
	assert.Equal(t, 3, g.Total)
}

func TestBuildFiltered(t *testing.T) {
	activities := []*model.Activity{
		act("Run", sunday(8, 5)),
		act("Run", sunday(8, 40)),
		act("Swim", sunday(8, 10)),
	}

	g := NewBuilder(time.UTC).Build(activities, "Swim")

	cell := g.Cells[0][8]
	assert.Equal(t, 1, cell.Count)
	assert.Equal(t, 1, cell.Level)
	assert.Equal(t, 1, g.Total)

	for day := 0; day < Days; day++ {
		for hour := 0; hour < Hours; hour++ {
			if day == 0 && hour == 8 {
				continue
			}
			assert.Zero(t, g.Cells[day][hour].Count)
			assert.Zero(t, g.Cells[day][hour].Level)
		}
	}
}

func TestBuildFilterIsCaseSensitive(t *testing.T) {
	g := NewBuilder(time.UTC).Build([]*model.Activity{act("run", sunday(9, 0))}, "Run")
	assert.Zero(t, g.Total)
}

func TestBuildEveryActivityLandsInExactlyOneCell(t *testing.T) {
	var activities []*model.Activity
	base := sunday(0, 0)
	for i := 0; i < 500; i++ {
		activities = append(activities, act("X", base.Add(time.Duration(i)*37*time.Minute)))
	}

	g := NewBuilder(time.UTC).Build(activities, "")

	sum := 0
	for day := 0; day < Days; day++ {
		for hour := 0; hour < Hours; hour++ {
			sum += g.Cells[day][hour].Count
		}
	}
	assert.Equal(t, len(activities), sum)
	assert.Equal(t, len(activities), g.Total)
}

func TestRankByFrequency(t *testing.T) {
	activities := []*model.Activity{
		act("Run", sunday(8, 5)),
		act("Run", sunday(8, 40)),
		act("Swim", sunday(8, 10)),
	}

	entries := RankByFrequency(activities)
	require.Len(t, entries, 2)
	assert.Equal(t, FrequencyEntry{Name: "Run", Count: 2}, entries[0])
	assert.Equal(t, FrequencyEntry{Name: "Swim", Count: 1}, entries[1])
}

func TestRankByFrequencyTiesKeepFirstSeenOrder(t *testing.T) {
	activities := []*model.Activity{
		act("Yoga", sunday(6, 0)),
		act("Swim", sunday(7, 0)),
		act("Run", sunday(8, 0)),
		act("Swim", sunday(9, 0)),
		act("Yoga", sunday(10, 0)),
	}

	entries := RankByFrequency(activities)
	require.Len(t, entries, 3)
	// Yoga and Swim both have 2; Yoga was seen first.
	assert.Equal(t, "Yoga", entries[0].Name)
	assert.Equal(t, "Swim", entries[1].Name)
	assert.Equal(t, "Run", entries[2].Name)
}

func TestRankByFrequencyEmpty(t *testing.T) {
	assert.Empty(t, RankByFrequency(nil))
}

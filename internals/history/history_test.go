package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

func check(id, status string, at time.Time) models.StatusCheck {
	return models.StatusCheck{ID: id, Status: status, CheckTime: at}
}

func TestGroupByDay(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	groups := GroupByDay([]models.StatusCheck{
		check("c1", models.StatusSuccess, day1),
		check("c2", models.StatusSuccess, day2),
		check("c3", models.StatusSlow, day1.Add(4*time.Hour)),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "2026-03-02", groups[0].Date, "newest day first")
	assert.Len(t, groups[0].Checks, 1)
	assert.Equal(t, "2026-03-01", groups[1].Date)
	require.Len(t, groups[1].Checks, 2)
	assert.Equal(t, "c1", groups[1].Checks[0].ID, "backend order kept within a day")
}

func TestGroupByDayEmpty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil))
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	summary := Summarize([]models.StatusCheck{
		check("c1", models.StatusSuccess, now),
		check("c2", models.StatusSuccess, now),
		check("c3", models.StatusSlow, now),
		check("c4", "Timeout", now),
	})

	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 1, summary.Slow)
	assert.Equal(t, 1, summary.Down)
	assert.Equal(t, 4, summary.TotalChecks)
	assert.Equal(t, 50.0, summary.UptimePercent)
}

func TestSummarizeRoundsUptime(t *testing.T) {
	now := time.Now()
	summary := Summarize([]models.StatusCheck{
		check("c1", models.StatusSuccess, now),
		check("c2", models.StatusSuccess, now),
		check("c3", "Down", now),
	})

	// 2/3 rounds to 67, the way the details page displays it.
	assert.Equal(t, 67.0, summary.UptimePercent)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalChecks)
	assert.Equal(t, 0.0, summary.UptimePercent)
}

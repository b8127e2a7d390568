// Package history prepares status-check history for display.
package history

import (
	"sort"

	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// DayGroup is one calendar day of checks, newest day first in GroupByDay's
// result.
type DayGroup struct {
	Date   string               `json:"date"` // YYYY-MM-DD
	Checks []models.StatusCheck `json:"checks"`
}

// Summary are the per-status counts shown on the website details page.
type Summary struct {
	Success       int     `json:"success"`
	Slow          int     `json:"slow"`
	Down          int     `json:"down"`
	TotalChecks   int     `json:"totalChecks"`
	UptimePercent float64 `json:"uptimePercent"`
}

// GroupByDay buckets checks by calendar day, newest day first; checks
// within a day keep their backend order.
func GroupByDay(checks []models.StatusCheck) []DayGroup {
	buckets := make(map[string][]models.StatusCheck)
	for _, check := range checks {
		day := check.CheckTime.Format("2006-01-02")
		buckets[day] = append(buckets[day], check)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	groups := make([]DayGroup, 0, len(days))
	for _, day := range days {
		groups = append(groups, DayGroup{Date: day, Checks: buckets[day]})
	}
	return groups
}

// Summarize counts checks by status. Uptime is the share of successful
// checks, rounded the way the details page displays it.
func Summarize(checks []models.StatusCheck) Summary {
	var s Summary
	for _, check := range checks {
		switch {
		case check.Down():
			s.Down++
		case check.Status == models.StatusSuccess:
			s.Success++
		default:
			s.Slow++
		}
	}
	s.TotalChecks = len(checks)
	if s.TotalChecks > 0 {
		s.UptimePercent = float64(int(float64(s.Success)/float64(s.TotalChecks)*100 + 0.5))
	}
	return s
}

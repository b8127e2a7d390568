package models

import "time"

// Check statuses as reported by the monitor backend. Anything that is not
// Success or Slow counts as down.
const (
	StatusSuccess = "Success"
	StatusSlow    = "Slow"
)

type Website struct {
	ID            string    `json:"id"`
	SiteName      string    `json:"site_name"`
	URL           string    `json:"url"`
	LastCheckTime time.Time `json:"last_check_time"`

	// Populated only by the details endpoint.
	StatusHistory    []StatusCheck `json:"statusHistory,omitempty"`
	UptimePercentage float64       `json:"uptimePercentage,omitempty"`
	DowntimeCount    int           `json:"downtimeCount,omitempty"`
	TotalDowntime    int64         `json:"totalDowntime,omitempty"`
}

// StatusCheck is a single periodic probe result.
type StatusCheck struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CheckTime time.Time `json:"check_time"`
}

// Down reports whether the check counts against uptime.
func (c StatusCheck) Down() bool {
	return c.Status != StatusSuccess && c.Status != StatusSlow
}

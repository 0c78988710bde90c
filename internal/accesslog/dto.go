package accesslog

import "time"

type AccessLogResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	AccessTime  time.Time `json:"access_time"`
	Action      string    `json:"action"`
	FirstAccess bool      `json:"firstaccess"`
}

type AccessLogsResponse struct {
	AccessLogs []AccessLogResponse `json:"access_logs"`
}

type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

package model

import "time"

type HubStats struct {
	ActiveChannels int           `json:"active_channels"`
	TotalSessions  int           `json:"total_sessions"`
	Uptime         time.Duration `json:"uptime"`
}

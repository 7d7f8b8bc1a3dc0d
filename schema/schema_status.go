package schema

import "time"

// StoreStatus represents the status of the organization store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalUpdates     int              `json:"total_updates"`
	LatestUpdateDate time.Time        `json:"latest_update_date"`
	OldestUpdateDate time.Time        `json:"oldest_update_date"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

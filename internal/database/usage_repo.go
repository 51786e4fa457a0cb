package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// UsageRepository writes and aggregates the append-only usage_logs table.
type UsageRepository struct {
	db *DB
}

func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record appends one usage row. Logging is best-effort: failures are logged
// and never propagated to the request that triggered them.
func (r *UsageRepository) Record(ctx context.Context, service, endpoint, userID string) {
	var user sql.NullString
	if userID != "" {
		user = sql.NullString{String: userID, Valid: true}
	}

	query := r.db.Rebind("INSERT INTO usage_logs (service_name, endpoint, user_id, timestamp) VALUES (?, ?, ?, ?)")
	if _, err := r.db.Conn().ExecContext(ctx, query, service, endpoint, user, time.Now()); err != nil {
		log.Printf("Error logging usage: %v", err)
	}
}

// UsageSummary aggregates usage rows over a time window.
type UsageSummary struct {
	TotalRequests int            `json:"total_requests"`
	ByEndpoint    map[string]int `json:"by_endpoint"`
	ByService     map[string]int `json:"by_service"`
}

// Summary counts usage rows with timestamp inside [from, to], grouped by
// endpoint and by service.
func (r *UsageRepository) Summary(ctx context.Context, from, to time.Time) (*UsageSummary, error) {
	query := r.db.Rebind(`SELECT service_name, endpoint, COUNT(*) as count
		FROM usage_logs
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY service_name, endpoint
		ORDER BY count DESC`)
	rows, err := r.db.Conn().QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage logs: %w", err)
	}
	defer rows.Close()

	summary := &UsageSummary{
		ByEndpoint: make(map[string]int),
		ByService:  make(map[string]int),
	}
	for rows.Next() {
		var service, endpoint string
		var count int
		if err := rows.Scan(&service, &endpoint, &count); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		summary.ByEndpoint[endpoint] += count
		summary.ByService[service] += count
		summary.TotalRequests += count
	}
	return summary, rows.Err()
}

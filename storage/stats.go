package storage

import (
	"fmt"
)

// DailyStats represents statistics for a single day
type DailyStats struct {
	Date         string `json:"date"`
	TotalActions int    `json:"totalActions"`
	Copies       int    `json:"copies"`
	Pastes       int    `json:"pastes"`
	EmptyPastes  int    `json:"emptyPastes"`
	Resets       int    `json:"resets"`
}

// SlotStats represents statistics grouped by slot
type SlotStats struct {
	Slot           int     `json:"slot"`
	Copies         int     `json:"copies"`
	Pastes         int     `json:"pastes"`
	EmptyPastes    int     `json:"emptyPastes"`
	Resets         int     `json:"resets"`
	AvgCopiedChars float64 `json:"avgCopiedChars"`
}

const kindCounts = `
	COALESCE(SUM(CASE WHEN kind = 'copy' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN kind = 'paste' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN kind = 'paste_empty' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN kind = 'reset' THEN 1 ELSE 0 END), 0)`

// GetDailyStats retrieves statistics grouped by date for the last N days
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as total_actions,` + kindCounts + `
		FROM actions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		err := rows.Scan(&s.Date, &s.TotalActions, &s.Copies, &s.Pastes, &s.EmptyPastes, &s.Resets)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetSlotStats retrieves statistics grouped by slot for the last N days
func (db *DB) GetSlotStats(days int) ([]SlotStats, error) {
	query := `
		SELECT
			slot,` + kindCounts + `,
			COALESCE(AVG(CASE WHEN kind = 'copy' THEN character_count END), 0)
		FROM actions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY slot
		ORDER BY slot
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot stats: %w", err)
	}
	defer rows.Close()

	var stats []SlotStats
	for rows.Next() {
		var s SlotStats
		err := rows.Scan(&s.Slot, &s.Copies, &s.Pastes, &s.EmptyPastes, &s.Resets, &s.AvgCopiedChars)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

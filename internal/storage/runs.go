package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one completed attempt at a map.
type Run struct {
	ID        int64
	MapID     string
	Time      time.Duration
	Deaths    int
	CreatedAt time.Time
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(mapID string, elapsed time.Duration, deaths int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (map_id, time_ms, deaths) VALUES (?, ?, ?)",
		mapID, elapsed.Milliseconds(), deaths,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// BestTimes returns the fastest runs on a map, quickest first. Ties go to
// the earlier run.
func (s *Store) BestTimes(mapID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, map_id, time_ms, deaths, created_at
		 FROM runs
		 WHERE map_id = ?
		 ORDER BY time_ms ASC, id ASC
		 LIMIT ?`,
		mapID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.MapID, &ms, &r.Deaths, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Time = time.Duration(ms) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// BestTime returns the fastest run time on a map. ok is false when the map
// has never been finished.
func (s *Store) BestTime(mapID string) (best time.Duration, ok bool, err error) {
	var ms sql.NullInt64
	err = s.db.QueryRow("SELECT MIN(time_ms) FROM runs WHERE map_id = ?", mapID).Scan(&ms)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}
	if !ms.Valid {
		return 0, false, nil
	}
	return time.Duration(ms.Int64) * time.Millisecond, true, nil
}

// ClearRuns deletes all runs for the given map.
func (s *Store) ClearRuns(mapID string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE map_id = ?", mapID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// MapStats aggregates the runs on one map.
type MapStats struct {
	MapID      string
	Runs       int
	Best       time.Duration
	Average    time.Duration
	Deaths     int
	LastPlayed time.Time
}

// MapStats returns aggregated statistics for a map. A map without runs
// yields zero stats.
func (s *Store) MapStats(mapID string) (*MapStats, error) {
	stats := &MapStats{MapID: mapID}

	var best int64
	var avg float64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(time_ms), 0), COALESCE(AVG(time_ms), 0), COALESCE(SUM(deaths), 0)
		 FROM runs WHERE map_id = ?`,
		mapID,
	).Scan(&stats.Runs, &best, &avg, &stats.Deaths)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}
	stats.Best = time.Duration(best) * time.Millisecond
	stats.Average = time.Duration(avg * float64(time.Millisecond))

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE map_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		mapID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}
	return stats, nil
}

// AllMapStats returns statistics for every map that has runs, keyed by map.
func (s *Store) AllMapStats() (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_id, COUNT(*), MIN(time_ms), AVG(time_ms), SUM(deaths), MAX(created_at)
		 FROM runs
		 GROUP BY map_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var m MapStats
		var best int64
		var avg float64
		var lastPlayed any
		if err := rows.Scan(&m.MapID, &m.Runs, &best, &avg, &m.Deaths, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.Best = time.Duration(best) * time.Millisecond
		m.Average = time.Duration(avg * float64(time.Millisecond))
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.MapID] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

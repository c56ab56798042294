package storage

import (
	"fmt"
	"time"
)

// Outcome is how a training episode ended.
type Outcome string

const (
	OutcomeDeath   Outcome = "death"
	OutcomeFinish  Outcome = "finish"
	OutcomeTimeout Outcome = "timeout"
)

// Episode is one headless training episode.
type Episode struct {
	ID        int64
	MapID     string
	Policy    string
	Seed      int64
	Steps     int
	Reward    float64
	Outcome   Outcome
	CreatedAt time.Time
}

// SaveEpisode records a training episode. Returns the ID of the inserted
// record.
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO episodes (map_id, policy, seed, steps, reward, outcome)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.MapID, e.Policy, e.Seed, e.Steps, e.Reward, string(e.Outcome),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentEpisodes returns the latest episodes, newest first.
func (s *Store) RecentEpisodes(limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, map_id, policy, seed, steps, reward, outcome, created_at
		 FROM episodes
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		var outcome string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.MapID, &e.Policy, &e.Seed, &e.Steps, &e.Reward, &outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Outcome = Outcome(outcome)
		e.CreatedAt = parseTime(createdAt)
		episodes = append(episodes, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return episodes, nil
}

// EpisodeSummary aggregates the training episodes on one map.
type EpisodeSummary struct {
	MapID      string
	Episodes   int
	Finishes   int
	Deaths     int
	BestReward float64
	AvgReward  float64
	AvgSteps   float64
}

// EpisodeSummary returns aggregated training results for a map.
func (s *Store) EpisodeSummary(mapID string) (*EpisodeSummary, error) {
	sum := &EpisodeSummary{MapID: mapID}
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'finish'), 0),
		        COALESCE(SUM(outcome = 'death'), 0),
		        COALESCE(MAX(reward), 0),
		        COALESCE(AVG(reward), 0),
		        COALESCE(AVG(steps), 0)
		 FROM episodes WHERE map_id = ?`,
		mapID,
	).Scan(&sum.Episodes, &sum.Finishes, &sum.Deaths, &sum.BestReward, &sum.AvgReward, &sum.AvgSteps)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get episode summary: %w", err)
	}
	return sum, nil
}

package domain

import (
	"fmt"
	"sort"
)

type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (e LeaderboardEntry) String() string {
	return fmt.Sprintf("%s: %d points", e.Name, e.Score)
}

// Leaderboard keeps one entry per name, ordered by score descending. Scores
// are overwritten, not accumulated.
type Leaderboard struct {
	entries []LeaderboardEntry
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

func (l *Leaderboard) RecordScore(name string, score int) {
	found := false
	for i := range l.entries {
		if l.entries[i].Name == name {
			l.entries[i].Score = score
			found = true
			break
		}
	}
	if !found {
		l.entries = append(l.entries, LeaderboardEntry{Name: name, Score: score})
	}

	// Stable so equal scores keep their relative order.
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Score > l.entries[j].Score
	})
}

func (l *Leaderboard) Snapshot() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

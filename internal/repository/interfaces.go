package repository

import (
	"bytes"
	"context"
)

// MoveStat is the accumulated playout result of one candidate move.
type MoveStat struct {
	Wins   float64 `json:"wins"`
	Visits int     `json:"visits"`
}

// Rate returns the mean playout score, or 0 when the move was never visited.
func (s MoveStat) Rate() float64 {
	if s.Visits == 0 {
		return 0
	}
	return s.Wins / float64(s.Visits)
}

// Add returns the sum of two stats.
func (s MoveStat) Add(o MoveStat) MoveStat {
	return MoveStat{Wins: s.Wins + o.Wins, Visits: s.Visits + o.Visits}
}

// Experience maps board points to their playout stats for one position.
type Experience map[int]MoveStat

// Position addresses one stored position. Size and Fingerprint locate the
// entry; Key is the exact encoding of the stones and player to move, stored
// with the stats and compared on load.
type Position struct {
	Size        int
	Fingerprint uint64
	Key         []byte
}

// Matches reports whether a stored key belongs to p.
func (p Position) Matches(key []byte) bool {
	return bytes.Equal(p.Key, key)
}

// ExperienceStore persists playout stats across move selections. An entry
// whose stored key differs from the requested one is a fingerprint
// collision and loads as a miss.
type ExperienceStore interface {
	// LoadExperience returns the stored stats, or nil and no error when the
	// position has never been saved.
	LoadExperience(ctx context.Context, pos Position) (Experience, error)
	// SaveExperience replaces the stored stats for the position.
	SaveExperience(ctx context.Context, pos Position, exp Experience) error
	Close() error
}

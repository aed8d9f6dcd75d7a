package domain

import "math"

// UserStats holds the six scout ratings, each conceptually in [0,100].
type UserStats struct {
	Technical int `bson:"technical" json:"technical"`
	Physical  int `bson:"physical" json:"physical"`
	Tactical  int `bson:"tactical" json:"tactical"`
	Mental    int `bson:"mental" json:"mental"`
	Speed     int `bson:"speed" json:"speed"`
	Stamina   int `bson:"stamina" json:"stamina"`
}

// StatsPoint is one entry of the profile's progression history. Date is a
// label ("Entry" for the onboarding baseline, "W3" for week three), not a
// calendar date.
type StatsPoint struct {
	Date      string `bson:"date" json:"date"`
	Overall   int    `bson:"overall" json:"overall"`
	Technical int    `bson:"technical" json:"technical"`
	Physical  int    `bson:"physical" json:"physical"`
}

// Overall returns the arithmetic mean of the six ratings, rounded to the
// nearest integer.
func (s UserStats) Overall() int {
	sum := s.Technical + s.Physical + s.Tactical + s.Mental + s.Speed + s.Stamina
	return int(math.Round(float64(sum) / 6.0))
}

// MergeStats combines two stat sets by taking the per-field maximum.
// Ratings must never regress across weeks regardless of what the plan
// generator returns, so the previous value always wins a downgrade.
func MergeStats(prev, next UserStats) UserStats {
	return UserStats{
		Technical: maxInt(prev.Technical, next.Technical),
		Physical:  maxInt(prev.Physical, next.Physical),
		Tactical:  maxInt(prev.Tactical, next.Tactical),
		Mental:    maxInt(prev.Mental, next.Mental),
		Speed:     maxInt(prev.Speed, next.Speed),
		Stamina:   maxInt(prev.Stamina, next.Stamina),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

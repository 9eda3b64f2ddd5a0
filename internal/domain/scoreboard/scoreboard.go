// Package scoreboard builds the weekly creator leaderboard from
// momentum-scored catalog items.
package scoreboard

import (
	"math"
	"sort"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/momentum"
)

// Aggregation constants.
const (
	recencyWindowDays = 30
	recencyFloor      = 0.05
	recencyPostGate   = 0.4
	weeklyPlayShare   = 0.18
	growthBaseShare   = 0.06
	growthMin         = 2
	growthMax         = 180
	liftDivisor       = 500
	liftCap           = 160
	liftDisplayScale  = 1000
	growthWeight      = 0.55
	liftWeight        = 0.3
	postWeight        = 2.5
	hoursPerDay       = 24
)

// Row is one creator's weekly standing. Growth, lift and score are
// presentation-rounded to one decimal; WeeklyPosts is floored at 1.
type Row struct {
	Rank             int     `json:"rank"`
	CreatorID        string  `json:"creatorId"`
	DisplayName      string  `json:"displayName"`
	WeeklyGrowthRate float64 `json:"weeklyGrowthRate"`
	MomentumLift     float64 `json:"momentumLift"`
	WeeklyPosts      int     `json:"weeklyPosts"`
	WeeklyPlays      int     `json:"weeklyPlays"`
	Score            float64 `json:"score"`
}

type creatorStat struct {
	weeklyPosts  int
	weeklyPlays  int
	momentumLift float64
}

// Build aggregates per-creator weekly growth and returns rows sorted
// descending by score with dense ranks 1..N. Ties keep the creators'
// input order; the source does not define a stronger tie-break rule.
func Build(creators []model.Creator, scored []momentum.ScoredItem, now time.Time) []Row {
	stats := make(map[string]*creatorStat, len(creators))

	for _, item := range scored {
		st := stats[item.CreatorID]
		if st == nil {
			st = &creatorStat{}
			stats[item.CreatorID] = st
		}
		ageDays := now.Sub(item.CreatedAt).Hours() / hoursPerDay
		boost := clamp(1-ageDays/recencyWindowDays, recencyFloor, 1)
		if boost > recencyPostGate {
			st.weeklyPosts++
		}
		st.weeklyPlays += int(math.Round(float64(item.PlayCount) * weeklyPlayShare * boost))
		st.momentumLift += item.Score * boost
	}

	rows := make([]Row, len(creators))
	for i, c := range creators {
		st := stats[c.ID]
		if st == nil {
			st = &creatorStat{}
		}
		growth := clamp(
			float64(st.weeklyPlays)/math.Max(1, float64(c.TotalPlays)*growthBaseShare)*100,
			growthMin, growthMax,
		)
		score := growth*growthWeight +
			math.Min(liftCap, st.momentumLift/liftDivisor)*liftWeight +
			float64(st.weeklyPosts)*postWeight

		rows[i] = Row{
			CreatorID:        c.ID,
			DisplayName:      c.DisplayName,
			WeeklyGrowthRate: round1(growth),
			MomentumLift:     round1(st.momentumLift / liftDisplayScale),
			WeeklyPosts:      max(1, st.weeklyPosts),
			WeeklyPlays:      st.weeklyPlays,
			Score:            round1(score),
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

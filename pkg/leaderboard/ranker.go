package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/toolscout/toolscout/pkg/catalog"
)

const (
	viewWeight             = 10
	toolWeight             = 5
	freshnessPenaltyPerDay = 0.1
)

// RankedCollection is a collection annotated with its leaderboard
// position, composite score, and resolved owner display name.
type RankedCollection struct {
	catalog.Collection
	Owner string `json:"owner"`
	Rank  int    `json:"rank"`
	Score int    `json:"score"`
}

// Score computes the leaderboard score for a collection at the given
// instant: views*10 + toolCount*5, minus 0.1 per day of age, rounded.
// The penalty never goes negative for collections created in the future.
func Score(c catalog.Collection, now time.Time) int {
	viewScore := c.Views * viewWeight
	toolScore := c.ToolCount * toolWeight

	ageDays := int(now.Sub(c.CreatedAt).Hours() / 24)
	penalty := float64(ageDays) * freshnessPenaltyPerDay
	if penalty < 0 {
		penalty = 0
	}

	return int(math.Round(float64(viewScore+toolScore) - penalty))
}

// Rank scores every candidate, sorts descending by score with ties
// broken by collection id ascending, and assigns dense 1..N ranks.
// The input is never mutated; calling twice with the same now yields
// identical output.
func Rank(candidates []catalog.Collection, now time.Time) []RankedCollection {
	ranked := make([]RankedCollection, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, RankedCollection{
			Collection: c,
			Owner:      c.DisplayName(),
			Score:      Score(c, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

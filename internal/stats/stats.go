// Package stats derives display statistics from match records. Everything
// here is pure and recomputed on demand; at the expected scale (hundreds of
// matches) there is nothing worth caching.
package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mauv0809/courtline/internal/tennis"
)

// SetScore is one set's games, owner first.
type SetScore struct {
	Games1 int `json:"games1"`
	Games2 int `json:"games2"`
}

// HeadToHead aggregates completed matches against one opponent on one surface.
type HeadToHead struct {
	GamesWon      int    `json:"gamesWon"`
	GamesLost     int    `json:"gamesLost"`
	MatchCount    int    `json:"totalMatches"`
	WinPercentage string `json:"percentage"`
}

// SurfaceStats is the win rate on a single configured surface.
type SurfaceStats struct {
	Surface       string `json:"surface"`
	MatchCount    int    `json:"matchCount"`
	WinPercentage string `json:"winRate"`
}

// Summary is the overall dashboard aggregate across completed matches.
type Summary struct {
	GamesWon      int    `json:"gamesWon"`
	GamesLost     int    `json:"gamesLost"`
	SetsWon       int    `json:"setsWon"`
	SetsLost      int    `json:"setsLost"`
	WinPercentage string `json:"winPercentage"`
}

// ParseSetScores turns the two comma-separated score strings into per-set
// game pairs. Each side's tokens are walked independently up to its own
// length; a missing or non-numeric token counts as zero games.
func ParseSetScores(score1, score2 string) []SetScore {
	s1 := splitScores(score1)
	s2 := splitScores(score2)

	n := len(s1)
	if len(s2) > n {
		n = len(s2)
	}

	sets := make([]SetScore, 0, n)
	for i := 0; i < n; i++ {
		var set SetScore
		if i < len(s1) {
			set.Games1 = s1[i]
		}
		if i < len(s2) {
			set.Games2 = s2[i]
		}
		sets = append(sets, set)
	}
	return sets
}

func splitScores(score string) []int {
	if score == "" {
		return nil
	}
	tokens := strings.Split(score, ",")
	games := make([]int, len(tokens))
	for i, token := range tokens {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || n < 0 {
			n = 0
		}
		games[i] = n
	}
	return games
}

// SetWins counts won sets per side. Strictly more games wins the set; an
// equal set counts for neither side.
func SetWins(sets []SetScore) (sets1, sets2 int) {
	for _, set := range sets {
		switch {
		case set.Games1 > set.Games2:
			sets1++
		case set.Games2 > set.Games1:
			sets2++
		}
	}
	return sets1, sets2
}

// MatchGames sums one match's games per side. A match without recorded
// scores contributes nothing.
func MatchGames(match tennis.Match) (games1, games2 int) {
	if match.Score1 == nil && match.Score2 == nil {
		return 0, 0
	}
	var score1, score2 string
	if match.Score1 != nil {
		score1 = *match.Score1
	}
	if match.Score2 != nil {
		score2 = *match.Score2
	}
	for _, set := range ParseSetScores(score1, score2) {
		games1 += set.Games1
		games2 += set.Games2
	}
	return games1, games2
}

// AggregateGames sums games for and against across all sets of the given matches.
func AggregateGames(matches []tennis.Match) (gamesFor, gamesAgainst int) {
	for _, match := range matches {
		g1, g2 := MatchGames(match)
		gamesFor += g1
		gamesAgainst += g2
	}
	return gamesFor, gamesAgainst
}

// WinPercentage reports gamesFor/(gamesFor+gamesAgainst) as a whole-percent
// string, "0" when no games were played at all.
func WinPercentage(gamesFor, gamesAgainst int) string {
	total := gamesFor + gamesAgainst
	if total == 0 {
		return "0"
	}
	pct := math.Round(float64(gamesFor) / float64(total) * 100)
	return strconv.Itoa(int(pct))
}

// ComputeHeadToHead aggregates the completed matches against one opponent on
// one surface. Names and surfaces match by exact, case-sensitive equality.
// Returns nil when no such match exists.
func ComputeHeadToHead(matches []tennis.Match, opponent, surface string) *HeadToHead {
	var against []tennis.Match
	for _, match := range matches {
		if match.Status == tennis.StatusCompleted && match.Player2 == opponent && match.Surface == surface {
			against = append(against, match)
		}
	}
	if len(against) == 0 {
		return nil
	}

	won, lost := AggregateGames(against)
	return &HeadToHead{
		GamesWon:      won,
		GamesLost:     lost,
		MatchCount:    len(against),
		WinPercentage: WinPercentage(won, lost),
	}
}

// PerSurfaceBreakdown computes the win rate on each configured surface over
// the completed matches, ordered by descending match count. Ties keep the
// configured surface order.
func PerSurfaceBreakdown(matches []tennis.Match, surfaces []string) []SurfaceStats {
	breakdown := make([]SurfaceStats, 0, len(surfaces))
	for _, surface := range surfaces {
		var onSurface []tennis.Match
		for _, match := range matches {
			if match.Status == tennis.StatusCompleted && match.Surface == surface {
				onSurface = append(onSurface, match)
			}
		}
		won, lost := AggregateGames(onSurface)
		breakdown = append(breakdown, SurfaceStats{
			Surface:       surface,
			MatchCount:    len(onSurface),
			WinPercentage: WinPercentage(won, lost),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].MatchCount > breakdown[j].MatchCount
	})
	return breakdown
}

// Summarize computes the overall aggregate over completed matches.
func Summarize(matches []tennis.Match) Summary {
	var summary Summary
	for _, match := range matches {
		if match.Status != tennis.StatusCompleted {
			continue
		}
		g1, g2 := MatchGames(match)
		summary.GamesWon += g1
		summary.GamesLost += g2

		var score1, score2 string
		if match.Score1 != nil {
			score1 = *match.Score1
		}
		if match.Score2 != nil {
			score2 = *match.Score2
		}
		s1, s2 := SetWins(ParseSetScores(score1, score2))
		summary.SetsWon += s1
		summary.SetsLost += s2
	}
	summary.WinPercentage = WinPercentage(summary.GamesWon, summary.GamesLost)
	return summary
}

// Scoreline formats a match's score as "6-4, 7-5" for human-readable output.
func Scoreline(match tennis.Match) string {
	var score1, score2 string
	if match.Score1 != nil {
		score1 = *match.Score1
	}
	if match.Score2 != nil {
		score2 = *match.Score2
	}
	sets := ParseSetScores(score1, score2)
	if len(sets) == 0 {
		return ""
	}
	parts := make([]string, len(sets))
	for i, set := range sets {
		parts[i] = strconv.Itoa(set.Games1) + "-" + strconv.Itoa(set.Games2)
	}
	return strings.Join(parts, ", ")
}

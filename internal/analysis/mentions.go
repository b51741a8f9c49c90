// internal/analysis/mentions.go
package analysis

import (
	"sort"
)

// MentionCount is the total number of times one player was named.
type MentionCount struct {
	Player string
	Count  int
}

// TallyMentions counts every mention across all rows, most frequent first.
// Ties keep the order in which players were first seen.
func TallyMentions(rows []Row) []MentionCount {
	idx := make(map[string]int)
	var out []MentionCount
	for _, r := range rows {
		for _, m := range r.Mentions {
			i, ok := idx[m]
			if !ok {
				i = len(out)
				idx[m] = i
				out = append(out, MentionCount{Player: m})
			}
			out[i].Count++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MentionMatrix counts mentions by (player, variant).
type MentionMatrix struct {
	Players  []string
	Variants []string
	Counts   [][]int // Counts[player][variant]
}

// Empty reports whether no player was mentioned at all.
func (m MentionMatrix) Empty() bool {
	return len(m.Players) == 0
}

// CanonicalPlayers returns "Player A" through "Player Z".
func CanonicalPlayers() []string {
	out := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, "Player "+string(c))
	}
	return out
}

// BuildMentionMatrix cross-tabulates mentions by variant over the canonical
// players. Players never mentioned are omitted.
func BuildMentionMatrix(rows []Row) MentionMatrix {
	variants := Variants(rows)
	players := CanonicalPlayers()
	vIdx := indexOf(variants)
	pIdx := indexOf(players)

	counts := make([][]int, len(players))
	for i := range counts {
		counts[i] = make([]int, len(variants))
	}
	for _, r := range rows {
		for _, m := range r.Mentions {
			if p, ok := pIdx[m]; ok {
				counts[p][vIdx[r.Variant]]++
			}
		}
	}

	m := MentionMatrix{Variants: variants}
	for i, row := range counts {
		total := 0
		for _, c := range row {
			total += c
		}
		if total > 0 {
			m.Players = append(m.Players, players[i])
			m.Counts = append(m.Counts, row)
		}
	}
	return m
}

package analysis

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/biaslens/internal/features"
	"github.com/mwiater/biaslens/internal/records"
)

func row(h, v string, sentiment float64, focus string, mentions ...string) Row {
	return Row{
		Record:    records.Record{Hypothesis: h, Variant: v},
		Sentiment: sentiment,
		Focus:     focus,
		Mentions:  mentions,
	}
}

func TestRunEmptyInput(t *testing.T) {
	_, err := Run(nil, features.NewScorer())
	assert.True(t, errors.Is(err, ErrNoRecords))
}

func TestRunEndToEnd(t *testing.T) {
	recs := []records.Record{
		{ID: "1", Hypothesis: "H1", Variant: "positive", ResponseText: "Player A shows great potential in scoring goals."},
		{ID: "2", Hypothesis: "H1", Variant: "positive", ResponseText: "Player B is a wonderful assist leader."},
		{ID: "3", Hypothesis: "H1", Variant: "negative", ResponseText: "Player A has terrible turnovers and poor clears."},
		{ID: "4", Hypothesis: "H1", Variant: "negative", ResponseText: ""},
	}
	res, err := Run(recs, features.NewScorer())
	require.NoError(t, err)

	require.Len(t, res.Rows, 4)
	assert.Equal(t, recs[0], res.Rows[0].Record)
	assert.Equal(t, 0.0, res.Rows[3].Sentiment)
	assert.Equal(t, features.FocusUnclear, res.Rows[3].Focus)
	assert.Equal(t, []string{}, res.Rows[3].Mentions)

	require.Len(t, res.Summary, 2)
	assert.Equal(t, "negative", res.Summary[0].Variant)
	require.Len(t, res.Tests, 1)
	assert.Equal(t, "negative", res.Tests[0].V1)
	assert.Equal(t, "positive", res.Tests[0].V2)

	assert.Equal(t, []MentionCount{{"Player A", 2}, {"Player B", 1}}, res.Mentions)
	assert.Equal(t, []string{"Player A", "Player B"}, res.Matrix.Players)
	assert.Equal(t, [][]int{{1, 1}, {0, 1}}, res.Matrix.Counts)
}

func TestSummarizeSampleStd(t *testing.T) {
	rows := []Row{
		row("H1", "positive", 0.2, features.FocusOffense),
		row("H1", "positive", 0.4, features.FocusOffense),
		row("H1", "positive", 0.6, features.FocusOffense),
		row("H0", "solo", 0.5, features.FocusUnclear),
	}
	got := Summarize(rows)
	require.Len(t, got, 2)

	assert.Equal(t, "H0", got[0].Hypothesis)
	assert.Equal(t, 1, got[0].N)
	assert.True(t, math.IsNaN(got[0].SD))

	assert.Equal(t, "H1", got[1].Hypothesis)
	assert.Equal(t, "positive", got[1].Variant)
	assert.Equal(t, 3, got[1].N)
	assert.InDelta(t, 0.4, got[1].Mean, 1e-12)
	assert.InDelta(t, 0.2, got[1].SD, 1e-12)
}

func TestWelchTTestKnownValue(t *testing.T) {
	res := WelchTTest([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8, 10})
	assert.InDelta(t, -2.2514363, res.T, 1e-6)
	assert.InDelta(t, 5.5207877, res.DF, 1e-6)
	assert.InDelta(t, 0.0691, res.P, 1e-3)
}

func TestWelchTTestDegenerate(t *testing.T) {
	res := WelchTTest([]float64{0.5}, []float64{0.1, 0.2})
	assert.True(t, math.IsNaN(res.T))
	assert.True(t, math.IsNaN(res.P))

	res = WelchTTest([]float64{0.5, 0.5}, []float64{0.1, 0.1})
	assert.True(t, math.IsNaN(res.P))
}

func TestPairwiseTestsDisjointDistributions(t *testing.T) {
	var rows []Row
	for _, v := range []float64{0.6, 0.7, 0.8, 0.9} {
		rows = append(rows, row("H1", "positive", v, features.FocusOffense))
	}
	for _, v := range []float64{-0.6, -0.7, -0.8, -0.9} {
		rows = append(rows, row("H1", "negative", v, features.FocusDefense))
	}

	got := PairwiseTests(rows)
	require.Len(t, got, 1)
	assert.Less(t, got[0].PValue, 0.05)
	assert.Equal(t, 4, got[0].NV1)
	assert.Equal(t, 4, got[0].NV2)
	assert.InDelta(t, -0.75, got[0].MeanV1, 1e-12)
	assert.InDelta(t, 0.75, got[0].MeanV2, 1e-12)
}

func TestPairwiseTestsOrderIndependent(t *testing.T) {
	var rows []Row
	for i := 0; i < 10; i++ {
		rows = append(rows, row("H3", "negative", -0.1*float64(i), features.FocusDefense))
		rows = append(rows, row("H3", "positive", 0.05*float64(i*i%7), features.FocusOffense))
	}
	want := PairwiseTests(rows)

	rng := rand.New(rand.NewSource(1))
	for k := 0; k < 5; k++ {
		shuffled := append([]Row(nil), rows...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := PairwiseTests(shuffled)
		require.Len(t, got, 1)
		assert.Equal(t, want[0].V1, got[0].V1)
		assert.InDelta(t, want[0].MeanV1, got[0].MeanV1, 1e-12)
		assert.InDelta(t, want[0].TStat, got[0].TStat, 1e-9)
		assert.InDelta(t, want[0].PValue, got[0].PValue, 1e-9)
	}
}

func TestPairwiseTestsSkipsNonPairs(t *testing.T) {
	rows := []Row{
		row("H2", "a", 0.1, features.FocusOffense),
		row("H2", "b", 0.2, features.FocusOffense),
		row("H2", "c", 0.3, features.FocusOffense),
		row("H4", "only", 0.3, features.FocusOffense),
		row("H4", "only", 0.4, features.FocusOffense),
	}
	assert.Empty(t, PairwiseTests(rows))
}

func TestCrosstab(t *testing.T) {
	rows := []Row{
		row("H1", "positive", 0, features.FocusOffense),
		row("H1", "positive", 0, features.FocusOffense),
		row("H1", "negative", 0, features.FocusDefense),
		row("H2", "demo", 0, features.FocusBalanced),
	}
	ct := Crosstab(rows)
	assert.Equal(t, []string{"demo", "negative", "positive"}, ct.Variants)
	assert.Equal(t, []string{"balanced", "defense", "offense"}, ct.Labels)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 2}}, ct.Counts)
}

func TestChiSquareBalancedTable(t *testing.T) {
	table := Contingency{
		Variants: []string{"a", "b", "c"},
		Labels:   []string{"balanced", "defense", "offense", "unclear"},
		Counts:   [][]float64{{6, 6, 6, 6}, {6, 6, 6, 6}, {6, 6, 6, 6}},
	}
	res := ChiSquare(table)
	assert.Equal(t, 6, res.DOF)
	assert.InDelta(t, 0, res.Stat, 1e-12)
	assert.InDelta(t, 1, res.P, 1e-9)
	assert.Empty(t, res.Caveats)

	res = ChiSquare(Contingency{
		Variants: []string{"a", "b"},
		Labels:   []string{"defense", "offense"},
		Counts:   [][]float64{{3, 3}, {3, 3}},
	})
	assert.Equal(t, 1, res.DOF)
	assert.InDelta(t, 1, res.P, 1e-9)
	assert.Len(t, res.Caveats, 4)
}

func TestChiSquareYatesCorrection(t *testing.T) {
	res := ChiSquare(Contingency{
		Variants: []string{"a", "b"},
		Labels:   []string{"x", "y"},
		Counts:   [][]float64{{10, 20}, {30, 40}},
	})
	assert.Equal(t, 1, res.DOF)
	assert.InDelta(t, 0.446429, res.Stat, 1e-5)
	assert.InDelta(t, 0.5040, res.P, 1e-3)
	assert.Equal(t, [][]float64{{12, 18}, {28, 42}}, res.Expected)
}

func TestChiSquareWithoutCorrection(t *testing.T) {
	res := ChiSquare(Contingency{
		Variants: []string{"a", "b"},
		Labels:   []string{"x", "y", "z"},
		Counts:   [][]float64{{10, 20, 30}, {20, 20, 20}},
	})
	assert.Equal(t, 2, res.DOF)
	assert.InDelta(t, 16.0/3.0, res.Stat, 1e-9)
	assert.InDelta(t, math.Exp(-8.0/3.0), res.P, 1e-9)
}

func TestChiSquareZeroDOF(t *testing.T) {
	res := ChiSquare(Contingency{
		Variants: []string{"only"},
		Labels:   []string{"offense", "defense"},
		Counts:   [][]float64{{4, 2}},
	})
	assert.Equal(t, 0, res.DOF)
	assert.Equal(t, 0.0, res.Stat)
	assert.Equal(t, 1.0, res.P)
}

func TestTallyMentions(t *testing.T) {
	rows := []Row{
		row("H1", "a", 0, "", "Player C", "Player A"),
		row("H1", "b", 0, "", "Player A", "Player B"),
		row("H1", "b", 0, "", "Player B"),
	}
	got := TallyMentions(rows)
	assert.Equal(t, []MentionCount{{"Player A", 2}, {"Player B", 2}, {"Player C", 1}}, got)
}

func TestBuildMentionMatrixOmitsUnmentioned(t *testing.T) {
	rows := []Row{
		row("H1", "positive", 0, "", "Player E", "Player A", "Player E"),
		row("H1", "negative", 0, ""),
		row("H2", "demo", 0, "", "Player Z"),
	}
	m := BuildMentionMatrix(rows)
	assert.Equal(t, []string{"demo", "negative", "positive"}, m.Variants)
	assert.Equal(t, []string{"Player A", "Player E", "Player Z"}, m.Players)
	assert.Equal(t, [][]int{{0, 0, 1}, {0, 0, 2}, {1, 0, 0}}, m.Counts)

	empty := BuildMentionMatrix([]Row{row("H1", "x", 0, "")})
	assert.True(t, empty.Empty())
}

func TestCanonicalPlayers(t *testing.T) {
	p := CanonicalPlayers()
	require.Len(t, p, 26)
	assert.Equal(t, "Player A", p[0])
	assert.Equal(t, "Player Z", p[25])
}

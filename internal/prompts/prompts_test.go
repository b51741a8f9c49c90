package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	got := Build(now)
	require.Len(t, got, 10)

	stems := make([]string, 0, len(got))
	for _, p := range got {
		stems = append(stems, p.Stem)
		assert.True(t, strings.HasPrefix(p.Text, "# "+p.Stem+"\n# Generated: 2025-03-01T12:30:00.000000Z\n"), p.Stem)
		assert.Contains(t, p.Text, BaseData)
		assert.True(t, strings.HasSuffix(p.Text, Footer))
	}
	assert.Equal(t, []string{
		"H1_negative", "H1_positive", "H2_neutral", "H2_demo", "H3_negative",
		"H3_positive", "H4_neutral", "H4_hypothesis", "H5_general", "H5_defense_cued",
	}, stems)

	assert.Equal(t, "H5", got[9].Hypothesis)
	assert.Equal(t, "defense_cued", got[9].Variant)
	assert.Contains(t, got[3].Text, "Player E (Junior Goalie)")
	assert.Contains(t, strings.ToLower(got[7].Text), "faceoff performance caused")
}

func TestWriteSkipsExistingUnlessForced(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	ps := []Prompt{{Stem: "H1_positive", Text: "first"}}

	res, err := Write(dir, ps, false)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.False(t, res[0].Skipped)

	ps[0].Text = "second"
	res, err = Write(dir, ps, false)
	require.NoError(t, err)
	assert.True(t, res[0].Skipped)
	data, _ := os.ReadFile(res[0].Path)
	assert.Equal(t, "first", string(data))

	res, err = Write(dir, ps, true)
	require.NoError(t, err)
	assert.False(t, res[0].Skipped)
	data, _ = os.ReadFile(res[0].Path)
	assert.Equal(t, "second", string(data))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"H2_demo.txt", "H1_defense_cued.txt", "baseline.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.txt"), 0o755))

	files, err := List(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, File{Path: filepath.Join(dir, "H1_defense_cued.txt"), Hypothesis: "H1", Variant: "defense_cued"}, files[0])
	assert.Equal(t, "H2", files[1].Hypothesis)
	assert.Equal(t, File{Path: filepath.Join(dir, "baseline.txt"), Hypothesis: "baseline", Variant: "default"}, files[2])
}

func TestListEmptyDir(t *testing.T) {
	files, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

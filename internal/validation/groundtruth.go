// internal/validation/groundtruth.go
package validation

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stat is one numeric player statistic. Literal is the form searched for in
// response text: integers as written, floats always with a fractional part.
type Stat struct {
	Name    string
	Value   float64
	Literal string
}

// Player holds a player's statistics in file order.
type Player struct {
	Name  string
	Stats []Stat
}

// GroundTruth is the reference data responses are checked against.
type GroundTruth struct {
	Players    []Player
	TeamRecord string
	ClearPct   float64
	FaceoffPct float64
}

// DefaultGroundTruth matches the statistics embedded in the generated prompts.
func DefaultGroundTruth() GroundTruth {
	return GroundTruth{
		Players: []Player{
			{Name: "Player A", Stats: []Stat{intStat("goals", 45), intStat("assists", 20), intStat("turnovers", 10)}},
			{Name: "Player B", Stats: []Stat{intStat("goals", 38), intStat("assists", 35), intStat("turnovers", 8)}},
			{Name: "Player C", Stats: []Stat{intStat("goals", 22), intStat("assists", 40), intStat("turnovers", 6)}},
			{Name: "Player D", Stats: []Stat{intStat("goals", 14), intStat("assists", 15), intStat("turnovers", 5)}},
			{Name: "Player E", Stats: []Stat{intStat("saves", 198), floatStat("gaa", 11.0)}},
		},
		TeamRecord: "12-6",
		ClearPct:   87.1,
		FaceoffPct: 53.0,
	}
}

func intStat(name string, v int64) Stat {
	return Stat{Name: name, Value: float64(v), Literal: strconv.FormatInt(v, 10)}
}

func floatStat(name string, v float64) Stat {
	return Stat{Name: name, Value: v, Literal: formatDecimal(v)}
}

// formatDecimal renders v the way it would be printed as a decimal number:
// shortest form, with ".0" kept for whole values.
func formatDecimal(v float64) string {
	if math.Abs(v) >= 1e16 || (v != 0 && math.Abs(v) < 1e-4) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

type groundTruthFile struct {
	Players    yaml.Node `yaml:"players"`
	TeamRecord string    `yaml:"team_record"`
	ClearPct   float64   `yaml:"clear_pct"`
	FaceoffPct float64   `yaml:"faceoff_pct"`
}

// LoadGroundTruth reads a YAML file of the form
//
//	players:
//	  Player A: {goals: 45, assists: 20}
//	team_record: "12-6"
//	clear_pct: 87.1
//	faceoff_pct: 53.0
//
// Player and stat order follow the file.
func LoadGroundTruth(path string) (GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GroundTruth{}, err
	}
	var raw groundTruthFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return GroundTruth{}, fmt.Errorf("parse %s: %w", path, err)
	}

	truth := GroundTruth{TeamRecord: raw.TeamRecord, ClearPct: raw.ClearPct, FaceoffPct: raw.FaceoffPct}
	if raw.Players.Kind != 0 && raw.Players.Kind != yaml.MappingNode {
		return GroundTruth{}, fmt.Errorf("%s: players must be a mapping", path)
	}
	for i := 0; i+1 < len(raw.Players.Content); i += 2 {
		name, statsNode := raw.Players.Content[i].Value, raw.Players.Content[i+1]
		if statsNode.Kind != yaml.MappingNode {
			return GroundTruth{}, fmt.Errorf("%s: stats for %q must be a mapping", path, name)
		}
		player := Player{Name: name}
		for j := 0; j+1 < len(statsNode.Content); j += 2 {
			stat, ok, err := parseStat(statsNode.Content[j].Value, statsNode.Content[j+1])
			if err != nil {
				return GroundTruth{}, fmt.Errorf("%s: %s.%w", path, name, err)
			}
			if ok {
				player.Stats = append(player.Stats, stat)
			}
		}
		truth.Players = append(truth.Players, player)
	}
	return truth, nil
}

// parseStat converts a scalar node to a Stat. Non-numeric values are ignored.
func parseStat(name string, node *yaml.Node) (Stat, bool, error) {
	if node.Kind != yaml.ScalarNode {
		return Stat{}, false, nil
	}
	switch node.ShortTag() {
	case "!!int":
		var v int64
		if err := node.Decode(&v); err != nil {
			return Stat{}, false, fmt.Errorf("%s: %w", name, err)
		}
		return intStat(name, v), true, nil
	case "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return Stat{}, false, fmt.Errorf("%s: %w", name, err)
		}
		return floatStat(name, v), true, nil
	default:
		return Stat{}, false, nil
	}
}

// Package config holds the gameplay tuning: grid size, action points, growth
// and wear thresholds, terrain movement costs and the starting roster.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/brigands/types"
)

// UnitSpec describes one unit placed by world generation.
type UnitSpec struct {
	Kind     types.Kind `yaml:"kind"`
	Owner    string     `yaml:"owner"`
	Behavior string     `yaml:"behavior"`
}

// Tuning is the full set of gameplay constants.
type Tuning struct {
	GridSize      int `yaml:"grid_size"`
	MaxAP         int `yaml:"max_ap"`
	UnitHP        int `yaml:"unit_hp"`
	GrowthTurns   int `yaml:"growth_turns"`
	WearThreshold int `yaml:"wear_threshold"`
	AttackRange   int `yaml:"attack_range"`

	Players []string `yaml:"players"`

	UnknownCost  int                `yaml:"unknown_cost"`
	TerrainCosts map[types.Kind]int `yaml:"terrain_costs"`

	Roster  []UnitSpec         `yaml:"roster"`
	Scatter map[types.Kind]int `yaml:"scatter"` // terrain kind → cell count; the rest is grass
}

// Default returns the stock tuning: a 10×10 field, three human units and one brigand.
func Default() Tuning {
	return Tuning{
		GridSize:      10,
		MaxAP:         1,
		UnitHP:        5,
		GrowthTurns:   5,
		WearThreshold: 3,
		AttackRange:   1,
		Players:       []string{types.PlayerHuman, types.PlayerAI},
		UnknownCost:   500,
		TerrainCosts: map[types.Kind]int{
			types.KindPath:      5,
			types.KindGrass:     10,
			types.KindFarm:      10,
			types.KindWarehouse: 10,
			types.KindPlanted:   10,
			types.KindCrop:      10,
			types.KindTree:      20,
			types.KindRock:      50,
			types.KindWater:     100,
		},
		Roster: []UnitSpec{
			{Kind: types.KindHuman, Owner: types.PlayerHuman, Behavior: "farmer"},
			{Kind: types.KindEnemy, Owner: types.PlayerAI, Behavior: "brigand"},
			{Kind: types.KindHuman, Owner: types.PlayerHuman, Behavior: "farmer"},
			{Kind: types.KindHuman, Owner: types.PlayerHuman, Behavior: "hauler"},
		},
		Scatter: map[types.Kind]int{
			types.KindTree:  6,
			types.KindRock:  3,
			types.KindWater: 3,
		},
	}
}

// Load reads a YAML tuning file and overlays it on Default. Keys absent from
// the file keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate checks that the tuning can generate and run a world.
func (t Tuning) Validate() error {
	var errs []error
	if t.GridSize <= 0 {
		errs = append(errs, fmt.Errorf("grid_size must be positive, got %d", t.GridSize))
	}
	if t.MaxAP <= 0 {
		errs = append(errs, fmt.Errorf("max_ap must be positive, got %d", t.MaxAP))
	}
	if t.UnitHP <= 0 {
		errs = append(errs, fmt.Errorf("unit_hp must be positive, got %d", t.UnitHP))
	}
	if t.WearThreshold < 0 {
		errs = append(errs, fmt.Errorf("wear_threshold must not be negative, got %d", t.WearThreshold))
	}
	if len(t.Players) < 2 {
		errs = append(errs, fmt.Errorf("at least two players required, got %d", len(t.Players)))
	}
	if t.UnknownCost <= 0 {
		errs = append(errs, fmt.Errorf("unknown_cost must be positive, got %d", t.UnknownCost))
	}
	for kind, cost := range t.TerrainCosts {
		if cost <= 0 {
			errs = append(errs, fmt.Errorf("terrain cost for %q must be positive, got %d", kind, cost))
		}
	}

	players := map[string]bool{}
	for _, p := range t.Players {
		players[p] = true
	}
	for i, u := range t.Roster {
		if u.Kind != types.KindHuman && u.Kind != types.KindEnemy {
			errs = append(errs, fmt.Errorf("roster[%d]: %q is not a unit kind", i, u.Kind))
		}
		if !players[u.Owner] {
			errs = append(errs, fmt.Errorf("roster[%d]: unknown owner %q", i, u.Owner))
		}
	}

	scattered := 0
	for _, n := range t.Scatter {
		scattered += n
	}
	if cells := t.GridSize * t.GridSize; t.GridSize > 0 && (scattered > cells || len(t.Roster) > cells) {
		errs = append(errs, fmt.Errorf("grid of %d cells cannot hold %d scattered cells and %d units",
			cells, scattered, len(t.Roster)))
	}
	return errors.Join(errs...)
}

// Cost returns the movement cost of entering a cell of the given kind.
func (t Tuning) Cost(kind types.Kind) int {
	if c, ok := t.TerrainCosts[kind]; ok {
		return c
	}
	return t.UnknownCost
}

// MinCost returns the lowest movement cost over all terrain kinds. It keeps
// the A* estimate from overestimating.
func (t Tuning) MinCost() int {
	min := t.UnknownCost
	for _, c := range t.TerrainCosts {
		if c < min {
			min = c
		}
	}
	return min
}

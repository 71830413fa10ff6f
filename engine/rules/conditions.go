// Package rules evaluates rule guards and verb preconditions, and resolves
// the item accessors carried by actions.
package rules

import (
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nathoo/brigands/config"
	"github.com/nathoo/brigands/engine/movement"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// Evaluator decides whether actions may run. It caches compiled When
// expressions; everything else is a pure function of the snapshot.
type Evaluator struct {
	Tuning config.Tuning
	Logger *slog.Logger

	mu       sync.Mutex
	programs map[string]*vm.Program
}

// NewEvaluator creates an evaluator for the given tuning.
func NewEvaluator(t config.Tuning, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		Tuning:   t,
		Logger:   logger,
		programs: map[string]*vm.Program{},
	}
}

// Holds reports whether the rule a may fire in s: its guard passes and, if
// set, its When expression evaluates to true.
func (ev *Evaluator) Holds(s *types.State, a types.Action) bool {
	switch a.Guard.Type {
	case types.GuardAlways:
	case types.GuardNever:
		return false
	case types.GuardUntilTurn:
		if s.Turn > a.Guard.Turn {
			return false
		}
	case types.GuardValid, "":
		if !ev.Valid(s, a) {
			return false
		}
	default:
		return false
	}
	if a.Guard.When == "" {
		return true
	}
	return ev.evalWhen(s, a)
}

// Valid reports whether the verb's own precondition holds. An action that
// is not valid is an invalid order: the reducer leaves the world unchanged.
func (ev *Evaluator) Valid(s *types.State, a types.Action) bool {
	if !ConsumesAP(a.Type) {
		return true
	}
	agent, ok := ResolveAgent(s, a.Agent)
	if !ok || !state.IsUnit(agent.Kind) || state.IsDead(agent) {
		return false
	}
	if a.Type == types.ActionSleep {
		return true
	}
	if agent.AP <= 0 {
		return false
	}

	switch a.Type {
	case types.ActionAttack:
		target, ok := ResolveTarget(s, a.Target, agent)
		return ok && state.IsUnit(target.Kind) && target.ID != agent.ID &&
			movement.ItemDistance(agent, target) <= ev.Tuning.AttackRange

	case types.ActionMove:
		target, ok := ResolveTarget(s, a.Target, agent)
		return ok && !(agent.X == target.X && agent.Y == target.Y)

	case types.ActionBuildFarm:
		return hasKindHere(s, agent, types.KindGrass) && !state.HasBuilt(s, agent.ID, types.KindFarm)

	case types.ActionBuildWarehouse:
		return hasKindHere(s, agent, types.KindGrass)

	case types.ActionPlantCrop:
		return hasKindHere(s, agent, types.KindGrass) && state.HasBuilt(s, agent.ID, types.KindFarm)

	case types.ActionHarvestCrop:
		return hasKindHere(s, agent, types.KindCrop)

	case types.ActionLoadResource:
		b, ok := StoreAt(s, agent.X, agent.Y)
		return ok && len(b.Resources) > 0

	case types.ActionUnloadResource:
		_, ok := StoreAt(s, agent.X, agent.Y)
		return ok && len(agent.Resources) > 0

	default:
		return false
	}
}

// StoreAt returns the farm or warehouse on (x, y).
func StoreAt(s *types.State, x, y int) (types.Item, bool) {
	for _, it := range s.Items {
		if it.X == x && it.Y == y && (it.Kind == types.KindFarm || it.Kind == types.KindWarehouse) {
			return it, true
		}
	}
	return types.Item{}, false
}

// IsHome reports whether building is the agent's home: built by the agent
// and not a shared warehouse.
func IsHome(building, agent types.Item) bool {
	return building.BuilderID == agent.ID && building.Kind != types.KindWarehouse
}

// CompileWhen compiles a When expression, reporting syntax and type errors.
func CompileWhen(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(Env{}), expr.AsBool())
}

func (ev *Evaluator) evalWhen(s *types.State, a types.Action) bool {
	prog, err := ev.program(a.Guard.When)
	if err != nil {
		ev.Logger.Warn("rule guard does not compile", "when", a.Guard.When, "error", err)
		return false
	}
	agent, _ := ResolveAgent(s, a.Agent)
	env := NewEnv(s, agent, a.Target)
	result, err := vm.Run(prog, env)
	if err != nil {
		ev.Logger.Warn("rule guard error", "when", a.Guard.When, "error", err)
		return false
	}
	ok, _ := result.(bool)
	return ok
}

func (ev *Evaluator) program(src string) (*vm.Program, error) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if p, ok := ev.programs[src]; ok {
		return p, nil
	}
	p, err := CompileWhen(src)
	if err != nil {
		return nil, err
	}
	ev.programs[src] = p
	return p, nil
}

func hasKindHere(s *types.State, agent types.Item, kind types.Kind) bool {
	_, ok := state.ItemAtCellOfKind(s, agent.X, agent.Y, kind)
	return ok
}

// ConsumesAP reports whether a verb is an order that spends the agent's
// action points.
func ConsumesAP(t types.ActionType) bool {
	switch t {
	case types.ActionAttack, types.ActionMove, types.ActionBuildFarm,
		types.ActionBuildWarehouse, types.ActionPlantCrop, types.ActionHarvestCrop,
		types.ActionLoadResource, types.ActionUnloadResource, types.ActionSleep:
		return true
	default:
		return false
	}
}

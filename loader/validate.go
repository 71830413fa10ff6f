package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/brigands/engine/rules"
	"github.com/nathoo/brigands/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Verbs a behavior rule may use. Turn, selection and training verbs are
// player commands and cannot appear in a rule list.
var validVerbs = map[types.ActionType]bool{
	types.ActionAttack:         true,
	types.ActionMove:           true,
	types.ActionBuildFarm:      true,
	types.ActionBuildWarehouse: true,
	types.ActionPlantCrop:      true,
	types.ActionHarvestCrop:    true,
	types.ActionLoadResource:   true,
	types.ActionUnloadResource: true,
}

var targetedVerbs = map[types.ActionType]bool{
	types.ActionAttack: true,
	types.ActionMove:   true,
}

var validRefKinds = map[types.RefKind]bool{
	types.RefSelected:     true,
	types.RefNearestEnemy: true,
	types.RefHome:         true,
	types.RefNearestKind:  true,
}

var validGuards = map[types.GuardType]bool{
	types.GuardValid:  true,
	types.GuardAlways: true,
}

var knownKinds = map[types.Kind]bool{
	types.KindHuman: true, types.KindEnemy: true, types.KindGrass: true,
	types.KindTree: true, types.KindRock: true, types.KindWater: true,
	types.KindFarm: true, types.KindWarehouse: true, types.KindCrop: true,
	types.KindPlanted: true, types.KindPath: true,
}

var knownEvents = map[string]bool{
	types.EventDefault:        true,
	types.EventCropGrown:      true,
	types.EventResourcePickup: true,
	types.EventEnemySpotted:   true,
	types.EventGameStarted:    true,
}

// validate checks the compiled behaviors for unknown verbs, references and
// guard expressions. Warnings are logged and do not fail the load.
func validate(defs []behaviorDef, logger *slog.Logger) error {
	ve := &ValidationError{}

	seen := map[string]bool{}
	for _, def := range defs {
		if def.Name == "" {
			ve.Errors = append(ve.Errors, "behavior name is required")
		}
		if len(def.Events) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("behavior %q has no On blocks", def.Name))
		}
		for _, eb := range def.Events {
			key := def.Name + "/" + eb.EventType
			if seen[key] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"duplicate rules for behavior %q event %q", def.Name, eb.EventType))
			}
			seen[key] = true

			if eb.EventType == types.EventSleeping {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"behavior %q: %s is set by the engine and cannot have rules", def.Name, eb.EventType))
			} else if !knownEvents[eb.EventType] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"behavior %q reacts to unrecognized event %q", def.Name, eb.EventType))
			}
			if len(eb.Actions) == 0 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"behavior %q event %q has an empty rule list", def.Name, eb.EventType))
			}
			validateRules(def.Name, eb, ve)
		}
	}

	for _, w := range ve.Warnings {
		logger.Warn("behavior library", "warning", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateRules(name string, eb types.EventBehavior, ve *ValidationError) {
	for i, a := range eb.Actions {
		where := fmt.Sprintf("behavior %q event %q rule %d", name, eb.EventType, i+1)

		if !validVerbs[a.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown verb %q", where, a.Type))
			continue
		}
		if !validGuards[a.Guard.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown guard %q", where, a.Guard.Type))
		}

		switch {
		case targetedVerbs[a.Type] && a.Target == nil:
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %s needs a target", where, a.Type))
		case !targetedVerbs[a.Type] && a.Target != nil:
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: %s ignores its target", where, a.Type))
		case a.Target != nil:
			validateRef(where, *a.Target, ve)
		}

		if a.Guard.When != "" {
			if _, err := rules.CompileWhen(a.Guard.When); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: bad when expression %q: %v", where, a.Guard.When, err))
			}
		}
	}
}

func validateRef(where string, ref types.Ref, ve *ValidationError) {
	if !validRefKinds[ref.Kind] {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown target %q", where, ref.Kind))
		return
	}
	if ref.Kind == types.RefNearestKind && !knownKinds[ref.ItemKind] {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown item kind %q", where, ref.ItemKind))
	}
}

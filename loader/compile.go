// Package loader loads the Lua behavior library into the behavior table at
// startup. The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/brigands/engine/actions"
	"github.com/nathoo/brigands/types"
	lua "github.com/yuin/gopher-lua"
)

// rawBehavior holds a Behavior table before compilation.
type rawBehavior struct {
	name  string
	table *lua.LTable
	order int
}

// behaviorDef is one compiled Behavior block. A behavior may be split over
// several blocks and files; build merges them.
type behaviorDef struct {
	Name        string
	Events      []types.EventBehavior
	SourceOrder int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// arrayTables returns the table elements of the array part of tbl, in
// index order. Non-table elements are reported by position.
func arrayTables(tbl *lua.LTable) ([]*lua.LTable, error) {
	n := tbl.MaxN()
	out := make([]*lua.LTable, 0, n)
	for i := 1; i <= n; i++ {
		t, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("entry %d is a %s, not a table", i, tbl.RawGetInt(i).Type())
		}
		out = append(out, t)
	}
	return out, nil
}

// compile converts all collected Lua data into behavior definitions.
func compile(coll *collector) ([]behaviorDef, error) {
	if len(coll.behaviors) == 0 {
		return nil, fmt.Errorf("no Behavior definitions found")
	}
	defs := make([]behaviorDef, 0, len(coll.behaviors))
	for _, raw := range coll.behaviors {
		def, err := compileBehavior(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling behavior %s: %w", raw.name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func compileBehavior(raw rawBehavior) (behaviorDef, error) {
	def := behaviorDef{Name: raw.name, SourceOrder: raw.order}
	blocks, err := arrayTables(raw.table)
	if err != nil {
		return def, err
	}
	for i, block := range blocks {
		eventType := getString(block, "__event")
		if eventType == "" {
			return def, fmt.Errorf("entry %d is not an On block", i+1)
		}
		rules := getTable(block, "rules")
		if rules == nil {
			return def, fmt.Errorf("On %q has no rules table", eventType)
		}
		acts, err := compileRules(rules)
		if err != nil {
			return def, fmt.Errorf("On %q: %w", eventType, err)
		}
		def.Events = append(def.Events, types.EventBehavior{EventType: eventType, Actions: acts})
	}
	return def, nil
}

func compileRules(tbl *lua.LTable) ([]types.Action, error) {
	entries, err := arrayTables(tbl)
	if err != nil {
		return nil, err
	}
	acts := make([]types.Action, 0, len(entries))
	for _, e := range entries {
		acts = append(acts, compileRule(e))
	}
	return acts, nil
}

// compileRule turns a verb table into an action. The agent is left as the
// selected-item accessor; behavior resolution rebinds it to the acting unit.
func compileRule(tbl *lua.LTable) types.Action {
	a := types.Action{
		Type:  types.ActionType(getString(tbl, "verb")),
		Agent: actions.Selected(),
		Guard: types.Guard{Type: types.GuardValid, When: getString(tbl, "when")},
	}
	if g := getString(tbl, "guard"); g != "" {
		a.Guard.Type = types.GuardType(g)
	}
	if t := getTable(tbl, "target"); t != nil {
		ref := compileRef(t)
		a.Target = &ref
	}
	return a
}

func compileRef(tbl *lua.LTable) types.Ref {
	return types.Ref{
		Kind:     types.RefKind(getString(tbl, "kind")),
		ItemKind: types.Kind(getString(tbl, "item_kind")),
	}
}

// build merges behavior definitions into one table. Later blocks for the
// same behavior add event types; validate has already rejected duplicates.
func build(defs []behaviorDef) types.Behaviors {
	sorted := make([]behaviorDef, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SourceOrder < sorted[j].SourceOrder })

	b := types.Behaviors{}
	for _, def := range sorted {
		byEvent, ok := b[def.Name]
		if !ok {
			byEvent = map[string]types.EventBehavior{}
			b[def.Name] = byEvent
		}
		for _, eb := range def.Events {
			byEvent[eb.EventType] = eb
		}
	}
	return b
}

// sortedLuaFiles returns .lua files with common.lua first and the rest
// sorted alphabetically, so shared helpers are defined before use.
func sortedLuaFiles(files []string) []string {
	var common string
	var others []string
	for _, f := range files {
		if f == "common.lua" {
			common = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if common != "" {
		return append([]string{common}, others...)
	}
	return others
}

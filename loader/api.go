package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRefHelpers(L)
	registerVerbHelpers(L)
	registerGuardHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Behavior "name" { On "Event" { ... }, ... }, curried.
	L.SetGlobal("Behavior", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.add(name, L.CheckTable(1))
			return 0
		}))
		return 1
	}))

	// On "EventType" { rule1, rule2, ... } is curried and returns a marker table
	// the Behavior constructor picks up.
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			rules := L.CheckTable(1)
			marker := L.NewTable()
			marker.RawSetString("__event", lua.LString(eventType))
			marker.RawSetString("rules", rules)
			L.Push(marker)
			return 1
		}))
		return 1
	}))
}

func registerRefHelpers(L *lua.LState) {
	ref := func(kind string) *lua.LTable {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString(kind))
		return tbl
	}

	// Home() is the farm the acting unit built.
	L.SetGlobal("Home", L.NewFunction(func(L *lua.LState) int {
		L.Push(ref("home"))
		return 1
	}))

	// NearestEnemy() is the closest living unit of another faction.
	L.SetGlobal("NearestEnemy", L.NewFunction(func(L *lua.LState) int {
		L.Push(ref("nearest_enemy"))
		return 1
	}))

	// Selected() is whatever the player has selected.
	L.SetGlobal("Selected", L.NewFunction(func(L *lua.LState) int {
		L.Push(ref("selected"))
		return 1
	}))

	// NearestKind("crop") is the closest item of a kind.
	L.SetGlobal("NearestKind", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		tbl := ref("nearest_kind")
		tbl.RawSetString("item_kind", lua.LString(kind))
		L.Push(tbl)
		return 1
	}))
}

func registerVerbHelpers(L *lua.LState) {
	// Targeted verbs: Attack(ref), Move(ref).
	for name, verb := range map[string]string{
		"Attack": "attack",
		"Move":   "move",
	} {
		verb := verb
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			target := L.CheckTable(1)
			tbl := L.NewTable()
			tbl.RawSetString("verb", lua.LString(verb))
			tbl.RawSetString("target", target)
			L.Push(tbl)
			return 1
		}))
	}

	// Verbs acting on the unit's own cell.
	for name, verb := range map[string]string{
		"BuildFarm":      "build_farm",
		"BuildWarehouse": "build_warehouse",
		"PlantCrop":      "plant_crop",
		"HarvestCrop":    "harvest_crop",
		"LoadResource":   "load_resource",
		"UnloadResource": "unload_resource",
	} {
		verb := verb
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.NewTable()
			tbl.RawSetString("verb", lua.LString(verb))
			L.Push(tbl)
			return 1
		}))
	}
}

func registerGuardHelpers(L *lua.LState) {
	// When("Carrying('crop') > 0", rule) adds an expression the rule's
	// guard must also satisfy.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		rule := L.CheckTable(2)
		rule.RawSetString("when", lua.LString(expr))
		L.Push(rule)
		return 1
	}))

	// Always(rule) fires without checking the verb's precondition first.
	L.SetGlobal("Always", L.NewFunction(func(L *lua.LState) int {
		rule := L.CheckTable(1)
		rule.RawSetString("guard", lua.LString("always"))
		L.Push(rule)
		return 1
	}))
}

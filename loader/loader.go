package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/brigands/types"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Behavior blocks while the files run.
type collector struct {
	behaviors []rawBehavior
}

func (c *collector) add(name string, tbl *lua.LTable) {
	c.behaviors = append(c.behaviors, rawBehavior{name: name, table: tbl, order: len(c.behaviors) + 1})
}

// Load runs every .lua file in dir, compiles and validates the Behavior
// blocks they define, and returns the merged behavior table. Warnings go
// to logger, which may be nil.
func Load(dir string, logger *slog.Logger) (types.Behaviors, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	files, err := discover(dir)
	if err != nil {
		return nil, err
	}

	coll := &collector{}
	if err := run(files, coll); err != nil {
		return nil, err
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling behaviors: %w", err)
	}
	if err := validate(defs, logger); err != nil {
		return nil, err
	}

	b := build(defs)
	logger.Debug("behavior library loaded", "dir", dir, "files", len(files), "behaviors", len(b))
	return b, nil
}

// discover returns the .lua files in dir in load order.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading behavior directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	names = sortedLuaFiles(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// run executes files in one sandboxed VM that is closed afterwards.
func run(files []string, coll *collector) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	sandbox(L)
	registerAPI(L, coll)

	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			return fmt.Errorf("executing %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// Globals removed after the safe libraries are opened.
var blockedGlobals = []string{
	"dofile", "loadfile", "load", "loadstring",
	"rawset", "rawget", "rawequal", "collectgarbage",
}

// sandbox opens base, table, string and math, then removes what reaches
// outside the VM or makes a load depend on anything but the files.
func sandbox(L *lua.LState) {
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if math, ok := L.GetGlobal("math").(*lua.LTable); ok {
		math.RawSetString("random", lua.LNil)
		math.RawSetString("randomseed", lua.LNil)
	}
}

// Brigands is a deterministic turn-based world of farmers and brigands
// whose units learn behavior by example.
//
// Usage: brigands [--version] [--plain] [--script <file>] [--trace]
// [--config <file>] [--seed <n>] [--log-level <level>] [behaviors_dir]
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/nathoo/brigands/cli"
	"github.com/nathoo/brigands/config"
	"github.com/nathoo/brigands/engine"
	"github.com/nathoo/brigands/loader"
	"github.com/nathoo/brigands/session"
	"github.com/nathoo/brigands/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: brigands [--version] [--plain] [--script <file>] [--trace] " +
	"[--config <file>] [--seed <n>] [--log-level <level>] [behaviors_dir]\n"

// errExit stops main after --help or --version has printed.
var errExit = errors.New("exit")

type options struct {
	plain       bool
	trace       bool
	script      string
	config      string
	seed        int64
	level       slog.Level
	behaviorDir string
}

func parseArgs(args []string, out io.Writer) (options, error) {
	opts := options{seed: 1, level: slog.LevelWarn, behaviorDir: "content/behaviors"}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", errors.New("requires a value")
			}
			i++
			return args[i], nil
		}

		var v string
		var err error
		switch arg {
		case "--version":
			fmt.Fprintf(out, "brigands %s (commit %s, built %s)\n", version, commit, date)
			return opts, errExit
		case "--help", "-h":
			fmt.Fprint(out, usage)
			return opts, errExit
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script":
			opts.script, err = value()
		case "--config":
			opts.config, err = value()
		case "--seed":
			if v, err = value(); err == nil {
				opts.seed, err = strconv.ParseInt(v, 10, 64)
			}
		case "--log-level":
			if v, err = value(); err == nil {
				err = opts.level.UnmarshalText([]byte(v))
			}
		default:
			opts.behaviorDir = arg
		}
		if err != nil {
			return opts, fmt.Errorf("%s: %w", arg, err)
		}
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stdout)
	if errors.Is(err, errExit) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s", err, usage)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.level}))

	tuning := config.Default()
	if opts.config != "" {
		t, err := config.Load(opts.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		tuning = t
	}

	behaviors, err := loader.Load(opts.behaviorDir, logger)
	if err != nil {
		return fmt.Errorf("loading behaviors: %w", err)
	}

	eng := engine.New(tuning, logger)
	ss := session.New(eng, eng.Generate(opts.seed, behaviors))
	logger.Info("world ready", "seed", opts.seed, "behaviors", len(behaviors), "grid", tuning.GridSize)

	switch {
	case opts.script != "":
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(ss)
		c.In = f
		c.EchoInput = true
		c.Trace = opts.trace
		c.Run()
		return nil

	case opts.plain || !isTerminal():
		c := cli.New(ss)
		c.Trace = opts.trace
		c.Run()
		return nil

	default:
		return tui.Run(ss, opts.trace)
	}
}

// isTerminal reports whether stdout is a terminal rather than a pipe or file.
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

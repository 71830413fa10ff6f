package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseArgs_Defaults(t *testing.T) {
	opts, err := parseArgs(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.seed != 1 || opts.level != slog.LevelWarn || opts.behaviorDir != "content/behaviors" {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

func TestParseArgs_Flags(t *testing.T) {
	args := []string{"--plain", "--trace", "--seed", "42", "--log-level", "debug",
		"--config", "tuning.yaml", "--script", "play.txt", "mybehaviors"}
	opts, err := parseArgs(args, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	want := options{
		plain: true, trace: true, seed: 42, level: slog.LevelDebug,
		config: "tuning.yaml", script: "play.txt", behaviorDir: "mybehaviors",
	}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--seed"}, "--seed: requires a value"},
		{[]string{"--seed", "many"}, "--seed: strconv.ParseInt"},
		{[]string{"--log-level", "loud"}, "--log-level:"},
		{[]string{"--config"}, "--config: requires a value"},
	}
	for _, tt := range tests {
		_, err := parseArgs(tt.args, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("parseArgs(%q) error = %v, want %q", tt.args, err, tt.want)
		}
	}
}

func TestParseArgs_VersionAndHelp(t *testing.T) {
	var out bytes.Buffer
	if _, err := parseArgs([]string{"--version"}, &out); !errors.Is(err, errExit) {
		t.Errorf("expected errExit, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "brigands dev") {
		t.Errorf("unexpected version output %q", out.String())
	}

	out.Reset()
	if _, err := parseArgs([]string{"-h"}, &out); !errors.Is(err, errExit) {
		t.Errorf("expected errExit, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "Usage: brigands") {
		t.Errorf("unexpected help output %q", out.String())
	}
}

// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/brigands/types"
)

var verbAliases = map[string]string{
	// Selection
	"sel":    "select",
	"pick":   "select",
	"choose": "select",

	// Movement
	"go":    "move",
	"walk":  "move",
	"m":     "move",
	"step":  "move",
	"march": "move",

	// Combat
	"a":      "attack",
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"raid":   "attack",

	// Building and farming
	"f":       "farm",
	"w":       "warehouse",
	"sow":     "plant",
	"p":       "plant",
	"reap":    "harvest",
	"gather":  "harvest",
	"h":       "harvest",
	"take":    "load",
	"get":     "load",
	"pickup":  "load",
	"drop":    "unload",
	"deposit": "unload",
	"store":   "unload",

	// Training
	"t":      "train",
	"learn":  "train",
	"record": "train",
	"teach":  "train",
	"done":   "finish",
	"stop":   "finish",

	// Turn flow
	"act":   "auto",
	"think": "auto",
	"e":     "end",
	"next":  "end",
	"pass":  "end",
	"reset": "restart",
	"new":   "restart",

	// Inspection
	"l":     "map",
	"look":  "map",
	"grid":  "map",
	"u":     "unit",
	"info":  "unit",
	"card":  "unit",
	"ev":    "events",
	"queue": "events",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "as": true, "toward": true,
	"towards": true, "for": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// "move to crop" has no object before the preposition: the word after
	// it is the object.
	if len(rest) > 0 && prepositions[rest[0]] {
		rest = rest[1:]
	}

	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "build farm", "end turn", "plant crop" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "build":
		if words[1] == "farm" || words[1] == "warehouse" {
			return append([]string{words[1]}, words[2:]...)
		}
	case "end":
		if words[1] == "turn" {
			return append([]string{"end"}, words[2:]...)
		}
	case "plant", "harvest", "sow", "reap":
		if words[1] == "crop" || words[1] == "crops" {
			return append([]string{words[0]}, words[2:]...)
		}
	case "load", "unload":
		if words[1] == "resource" || words[1] == "crop" {
			return append([]string{words[0]}, words[2:]...)
		}
	case "finish":
		if words[1] == "training" {
			return []string{"finish"}
		}
	case "show":
		switch words[1] {
		case "map", "unit", "events":
			return append([]string{words[1]}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}

// Package resolve maps the item names players type to item ids.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// AmbiguityError indicates multiple units matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no item matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is nothing called %q", e.Name)
}

// Item resolves a name to an item id. It accepts an id ("3" or "#3"), a
// unit label ("farmer #3", "farmer 3"), or a word that names exactly one
// living unit: its behavior name, its kind, or a word of its kind
// ("hauler", "human", "enemy").
func Item(s *types.State, name string) (int, error) {
	query := strings.ToLower(strings.TrimSpace(name))

	if id, ok := parseID(query); ok {
		if _, found := state.ItemByID(s, id); found {
			return id, nil
		}
		return 0, &NotFoundError{Name: name}
	}

	// "farmer #3" / "farmer 3": the id decides, the word must agree.
	if fields := strings.Fields(query); len(fields) > 1 {
		if id, ok := parseID(fields[len(fields)-1]); ok {
			it, found := state.ItemByID(s, id)
			if found && matchesName(it, strings.Join(fields[:len(fields)-1], " ")) {
				return id, nil
			}
			return 0, &NotFoundError{Name: name}
		}
	}

	var matches []types.Item
	for _, it := range state.Units(s) {
		if state.IsDead(it) {
			continue
		}
		if matchesName(it, query) {
			matches = append(matches, it)
		}
	}

	switch len(matches) {
	case 0:
		return 0, &NotFoundError{Name: name}
	case 1:
		return matches[0].ID, nil
	default:
		candidates := make([]string, len(matches))
		for i, it := range matches {
			candidates[i] = label(it)
		}
		return 0, &AmbiguityError{Name: name, Candidates: candidates}
	}
}

func parseID(word string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(word, "#"))
	return id, err == nil
}

// matchesName checks a unit against a lower-case query: behavior name,
// kind, or any dash-separated word of the kind ("enemy" matches
// "enemy-unit").
func matchesName(it types.Item, query string) bool {
	if strings.ToLower(it.BehaviorName) == query {
		return true
	}
	kind := string(it.Kind)
	if kind == query || strings.ReplaceAll(query, " ", "-") == kind {
		return true
	}
	for _, word := range strings.Split(kind, "-") {
		if word == query {
			return true
		}
	}
	return false
}

func label(it types.Item) string {
	name := it.BehaviorName
	if name == "" {
		name = string(it.Kind)
	}
	return fmt.Sprintf("%s #%d", name, it.ID)
}

package movement

import (
	"container/heap"

	"github.com/nathoo/brigands/types"
)

// Node is one cell of the search graph.
type Node struct {
	X    int
	Y    int
	Cost int // cost of entering this cell
}

// Nodes builds the search graph from the placed terrain and buildings of a
// snapshot. Units are not nodes; they stand on terrain. When two entries
// share a cell the cheaper one wins.
func Nodes(items []types.Item, costs Costs) map[string]Node {
	nodes := make(map[string]Node, len(items))
	for _, it := range items {
		if it.Kind == types.KindHuman || it.Kind == types.KindEnemy {
			continue
		}
		k := Key(it.X, it.Y)
		n := Node{X: it.X, Y: it.Y, Cost: costs.Cost(it.Kind)}
		if prev, ok := nodes[k]; ok && prev.Cost <= n.Cost {
			continue
		}
		nodes[k] = n
	}
	return nodes
}

// FindPath runs A* from start to goal over nodes and returns the full path,
// both ends included. Edge cost is the cost of the entered node; the
// estimate is a.Cost + (Distance(a, goal)-1)*minCost. Returns nil when
// either end is missing from nodes or the goal is unreachable.
func FindPath(sx, sy, gx, gy int, nodes map[string]Node, minCost int) []Node {
	start, ok := nodes[Key(sx, sy)]
	if !ok {
		return nil
	}
	goal, ok := nodes[Key(gx, gy)]
	if !ok {
		return nil
	}
	startKey, goalKey := Key(sx, sy), Key(gx, gy)
	if startKey == goalKey {
		return []Node{start}
	}

	estimate := func(n Node) int {
		return n.Cost + (Distance(n.X, n.Y, goal.X, goal.Y)-1)*minCost
	}

	open := &openSet{}
	heap.Init(open)
	cameFrom := map[string]string{}
	gScore := map[string]int{startKey: 0}
	seq := 0
	heap.Push(open, &openItem{node: start, key: startKey, f: estimate(start), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		if current.g > gScore[current.key] {
			continue // stale entry
		}
		if current.key == goalKey {
			return reconstructPath(cameFrom, nodes, startKey, goalKey)
		}
		for _, n := range successors(current.node, nodes) {
			k := Key(n.X, n.Y)
			tentative := gScore[current.key] + n.Cost
			if prev, seen := gScore[k]; seen && tentative >= prev {
				continue
			}
			cameFrom[k] = current.key
			gScore[k] = tentative
			seq++
			heap.Push(open, &openItem{node: n, key: k, g: tentative, f: tentative + estimate(n), seq: seq})
		}
	}
	return nil
}

// successors returns the orthogonal neighbors present in nodes, in a fixed
// order so equal-cost searches are deterministic.
func successors(n Node, nodes map[string]Node) []Node {
	out := make([]Node, 0, 4)
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if next, ok := nodes[Key(n.X+d[0], n.Y+d[1])]; ok {
			out = append(out, next)
		}
	}
	return out
}

func reconstructPath(cameFrom map[string]string, nodes map[string]Node, startKey, goalKey string) []Node {
	path := make([]Node, 0, 16)
	for cur := goalKey; ; {
		path = append(path, nodes[cur])
		if cur == startKey {
			break
		}
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type openItem struct {
	node Node
	key  string
	g    int
	f    int
	seq  int
}

type openSet []*openItem

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	return s[i].seq < s[j].seq
}

func (s openSet) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *openSet) Push(x any) { *s = append(*s, x.(*openItem)) }

func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	it := old[n-1]
	*s = old[:n-1]
	return it
}

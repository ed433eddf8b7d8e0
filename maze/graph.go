package maze

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zucenko/keymaze/model"
)

// MaxAgents bounds the agent vector of a search state.
const MaxAgents = 8

type NodeKind int

const (
	AgentStart NodeKind = iota
	KeyNode
)

func (k NodeKind) String() string {
	if k == AgentStart {
		return "start"
	}
	return "key"
}

// Node is an agent start or a key. Key is zero for starts.
type Node struct {
	ID   int
	Pos  model.Position
	Kind NodeKind
	Key  byte
}

// Edge is one shortest grid path between two nodes. Doors holds the key ids
// of the doors along that particular path.
type Edge struct {
	From     int
	To       int
	Distance int
	Doors    KeySet
}

// Graph is the compressed maze. Nodes 0 to Agents()-1 are the agent starts in
// the order they were given, key nodes follow in row-major order. Edges[i]
// holds the outgoing edges of node i and always points at key nodes.
type Graph struct {
	Nodes []Node
	Edges [][]Edge

	agents int
	keys   KeySet
}

func (g *Graph) Agents() int { return g.agents }

// Keys is the set of every key present in the maze.
func (g *Graph) Keys() KeySet { return g.keys }

func (g *Graph) KeyCount() int { return g.keys.Len() }

// BuildGraph floods the grid once from every start and every key. Doors never
// stop a flood, they are only recorded on the edges. Since every cell is
// visited once per flood, an edge keeps the doors of the first shortest path
// found, even if another path of the same length needs fewer doors.
func BuildGraph(ctx context.Context, grid *model.Grid, starts []model.Position, options ...Option) (*Graph, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrMalformedGrid)
	}
	if err := checkStarts(grid, starts); err != nil {
		return nil, err
	}
	opts := applyOptions(options)

	g := &Graph{agents: len(starts)}
	for i, p := range starts {
		g.Nodes = append(g.Nodes, Node{ID: i, Pos: p, Kind: AgentStart})
	}

	cellNode := make([]int, grid.Size())
	for i := range cellNode {
		cellNode[i] = -1
	}
	for _, p := range grid.Keys() {
		id := grid.At(p).Symbol
		if g.keys.Has(id) {
			return nil, duplicateKey(id)
		}
		g.keys = g.keys.With(id)
		node := Node{ID: len(g.Nodes), Pos: p, Kind: KeyNode, Key: id}
		cellNode[grid.Index(p)] = node.ID
		g.Nodes = append(g.Nodes, node)
	}

	g.Edges = make([][]Edge, len(g.Nodes))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.NumberOfWorkers)
	for i := range g.Nodes {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g.Edges[i] = flood(grid, g.Nodes[i], cellNode, g.keys.Len())
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		edges := 0
		for _, out := range g.Edges {
			edges += len(out)
		}
		log.WithFields(log.Fields{
			"agents": g.agents,
			"keys":   g.keys.String(),
			"nodes":  len(g.Nodes),
			"edges":  edges,
		}).Debug("maze graph built")
	}
	return g, nil
}

func checkStarts(grid *model.Grid, starts []model.Position) error {
	if len(starts) > MaxAgents {
		return fmt.Errorf("%w: %d agents, at most %d supported", ErrMalformedGrid, len(starts), MaxAgents)
	}
	for i, p := range starts {
		if !grid.In(p) {
			return fmt.Errorf("%w: agent %d start %v out of bounds", ErrMalformedGrid, i, p)
		}
		switch kind := grid.At(p).Kind; kind {
		case model.Wall, model.Key, model.Door:
			return fmt.Errorf("%w: agent %d start %v is a %v", ErrMalformedGrid, i, p, kind)
		}
	}
	return nil
}

func duplicateKey(id byte) error {
	return fmt.Errorf("%w: key %q appears more than once", ErrMalformedGrid, id)
}

type step struct {
	pos   model.Position
	dist  int
	doors KeySet
}

// flood is a breadth-first search from src with its own visited buffer, so
// floods can run side by side.
func flood(grid *model.Grid, src Node, cellNode []int, keyCount int) []Edge {
	remaining := keyCount
	if src.Kind == KeyNode {
		remaining--
	}
	var edges []Edge
	if remaining == 0 {
		return edges
	}

	visited := make([]bool, grid.Size())
	visited[grid.Index(src.Pos)] = true
	queue := []step{{pos: src.Pos}}
	var adj []model.Position
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if id := cellNode[grid.Index(current.pos)]; id >= 0 && id != src.ID {
			edges = append(edges, Edge{From: src.ID, To: id, Distance: current.dist, Doors: current.doors})
			if remaining--; remaining == 0 {
				break
			}
		}

		adj = grid.Neighbors(adj[:0], current.pos)
		for _, n := range adj {
			i := grid.Index(n)
			if visited[i] {
				continue
			}
			visited[i] = true
			next := step{pos: n, dist: current.dist + 1, doors: current.doors}
			if cell := grid.At(n); cell.Kind == model.Door {
				next.doors = next.doors.With(cell.Symbol)
			}
			queue = append(queue, next)
		}
	}
	return edges
}

package maze

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Pickup is one move of a solution: Agent walked Distance steps to Key.
type Pickup struct {
	Agent    int
	Key      byte
	Distance int
}

// Result of a search. Steps lists the pickups in the order they happen and
// their distances add up to Distance.
type Result struct {
	Distance int
	Found    bool
	Expanded int
	Steps    []Pickup
}

// stateKey identifies a search state: the node of every agent plus the keys
// collected so far. It is a plain value, so copying it never aliases.
type stateKey struct {
	agents [MaxAgents]uint8
	keys   KeySet
}

type link struct {
	prev  stateKey
	agent int
	key   byte
	dist  int
}

// Search returns the smallest total distance after which keyCount keys have
// been collected, starting with every agent on its own start node. Only
// ErrUnreachable and ErrUnexpectedAgentCount are returned.
func Search(g *Graph, agentCount, keyCount int) (Result, error) {
	if agentCount != g.agents {
		return Result{}, fmt.Errorf("%w: graph has %d agents, caller expects %d", ErrUnexpectedAgentCount, g.agents, agentCount)
	}

	var start stateKey
	for i := 0; i < g.agents; i++ {
		start.agents[i] = uint8(i)
	}
	best := map[stateKey]int{start: 0}
	parent := make(map[stateKey]link)
	open := newFrontier[stateKey]()
	open.push(start, 0)

	expanded := 0
	for open.len() > 0 {
		current, dist, _ := open.pop()
		if best[current] != dist {
			continue
		}
		expanded++

		if current.keys.Len() == keyCount {
			result := Result{
				Distance: dist,
				Found:    true,
				Expanded: expanded,
				Steps:    trace(parent, current, start),
			}
			log.WithFields(log.Fields{
				"distance": dist,
				"expanded": expanded,
				"states":   len(best),
			}).Debug("maze search finished")
			return result, nil
		}

		for a := 0; a < g.agents; a++ {
			for _, e := range g.Edges[current.agents[a]] {
				target := g.Nodes[e.To]
				if current.keys.Has(target.Key) || !current.keys.ContainsAll(e.Doors) {
					continue
				}
				next := current
				next.agents[a] = uint8(e.To)
				next.keys = current.keys.With(target.Key)
				nextDist := dist + e.Distance
				if known, seen := best[next]; seen && known <= nextDist {
					continue
				}
				best[next] = nextDist
				parent[next] = link{prev: current, agent: a, key: target.Key, dist: e.Distance}
				open.push(next, nextDist)
			}
		}
	}

	log.WithFields(log.Fields{
		"expanded": expanded,
		"states":   len(best),
	}).Debug("maze search exhausted")
	return Result{Expanded: expanded}, ErrUnreachable
}

func trace(parent map[stateKey]link, end, start stateKey) []Pickup {
	var steps []Pickup
	for current := end; current != start; {
		l, ok := parent[current]
		if !ok {
			break
		}
		steps = append(steps, Pickup{Agent: l.agent, Key: l.key, Distance: l.dist})
		current = l.prev
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

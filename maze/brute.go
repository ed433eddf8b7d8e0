package maze

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/zucenko/keymaze/model"
)

type cellState struct {
	agents [MaxAgents]model.Position
	keys   KeySet
}

type move struct {
	prev  cellState
	agent int
	key   byte
}

// BruteForce searches the raw grid one step at a time. Doors block until
// their key is held and an agent picks up a key by stepping on it. It
// collects every key of the grid and returns the same errors as
// BuildGraph and Search, plus ctx.Err() when the context ends first.
func BruteForce(ctx context.Context, grid *model.Grid, starts []model.Position) (Result, error) {
	if grid == nil {
		return Result{}, ErrMalformedGrid
	}
	if err := checkStarts(grid, starts); err != nil {
		return Result{}, err
	}
	var target KeySet
	for _, p := range grid.Keys() {
		id := grid.At(p).Symbol
		if target.Has(id) {
			return Result{}, duplicateKey(id)
		}
		target = target.With(id)
	}

	var start cellState
	copy(start.agents[:], starts)
	best := map[cellState]int{start: 0}
	parent := make(map[cellState]move)
	closed := mapset.New[cellState]()
	open := newFrontier[cellState]()
	open.push(start, 0)

	var adj []model.Position
	for open.len() > 0 {
		current, dist, _ := open.pop()
		if closed.Has(current) {
			continue
		}
		closed.Put(current)
		if closed.Size()%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}

		if current.keys == target {
			log.WithFields(log.Fields{
				"distance": dist,
				"expanded": closed.Size(),
			}).Debug("brute force search finished")
			return Result{
				Distance: dist,
				Found:    true,
				Expanded: closed.Size(),
				Steps:    pickups(parent, current, start, len(starts)),
			}, nil
		}

		for a := range starts {
			adj = grid.Neighbors(adj[:0], current.agents[a])
			for _, n := range adj {
				cell := grid.At(n)
				if cell.Kind == model.Door && !current.keys.Has(cell.Symbol) {
					continue
				}
				next := current
				next.agents[a] = n
				var picked byte
				if cell.Kind == model.Key && !current.keys.Has(cell.Symbol) {
					next.keys = current.keys.With(cell.Symbol)
					picked = cell.Symbol
				}
				if closed.Has(next) {
					continue
				}
				if known, seen := best[next]; seen && known <= dist+1 {
					continue
				}
				best[next] = dist + 1
				parent[next] = move{prev: current, agent: a, key: picked}
				open.push(next, dist+1)
			}
		}
	}
	return Result{Expanded: closed.Size()}, ErrUnreachable
}

// pickups folds single steps into one Pickup per collected key. The distance
// of a pickup counts the steps its agent took since its previous pickup.
func pickups(parent map[cellState]move, end, start cellState, agents int) []Pickup {
	var moves []move
	for current := end; current != start; {
		m, ok := parent[current]
		if !ok {
			break
		}
		moves = append(moves, m)
		current = m.prev
	}

	var steps []Pickup
	walked := make([]int, agents)
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		walked[m.agent]++
		if m.key != 0 {
			steps = append(steps, Pickup{Agent: m.agent, Key: m.key, Distance: walked[m.agent]})
			walked[m.agent] = 0
		}
	}
	return steps
}

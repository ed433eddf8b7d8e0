package cache

import (
	"context"
	"encoding/hex"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/keymaze/maze"
	"github.com/zucenko/keymaze/model"
)

// Solver answers from the store when it can and searches otherwise. A nil
// Store turns caching off. Brute force requests always search and are never
// stored.
type Solver struct {
	Store   *Store
	Options []maze.Option
}

// Solve parses and solves one request. Unreachable mazes are a normal answer
// with Found false, only malformed input and agent count mismatches fail.
func (s *Solver) Solve(ctx context.Context, req model.ClientMessage) (model.Solution, error) {
	grid, err := model.ReadString(req.Grid)
	if err != nil {
		return model.Solution{}, err
	}
	canonical := grid.String()
	digest := Digest(canonical, req.Agents)
	fields := log.Fields{"digest": hex.EncodeToString(digest)[:12], "agents": req.Agents}

	useStore := s.Store != nil && !req.Brute
	if useStore {
		e, err := s.Store.Get(digest)
		if err == nil {
			log.WithFields(fields).Debug("solution served from cache")
			return e.Solution(), nil
		}
		if !errors.Is(err, ErrNotFound) {
			log.WithFields(fields).Warnf("cache lookup failed: %v", err)
		}
	}

	options := append([]maze.Option{}, s.Options...)
	options = append(options, maze.WithBruteForce(req.Brute))
	result, err := maze.Solve(ctx, grid, req.Agents, options...)
	if err != nil && !errors.Is(err, maze.ErrUnreachable) {
		return model.Solution{}, err
	}

	e := Entry{
		Digest:   digest,
		Agents:   req.Agents,
		Found:    result.Found,
		Distance: result.Distance,
		Expanded: result.Expanded,
		Steps:    Pickups(result.Steps),
		Grid:     canonical,
	}
	if useStore {
		if err := s.Store.Put(e); err != nil {
			log.WithFields(fields).Warnf("cache store failed: %v", err)
		}
	}
	log.WithFields(fields).WithField("distance", e.Distance).WithField("found", e.Found).Info("maze solved")

	solution := e.Solution()
	solution.Cached = false
	return solution, nil
}

func Pickups(steps []maze.Pickup) []model.Pickup {
	if len(steps) == 0 {
		return nil
	}
	out := make([]model.Pickup, 0, len(steps))
	for _, s := range steps {
		out = append(out, model.Pickup{Agent: s.Agent, Key: string(rune(s.Key)), Distance: s.Distance})
	}
	return out
}

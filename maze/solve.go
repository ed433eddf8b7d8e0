package maze

import (
	"context"
	"fmt"

	"github.com/zucenko/keymaze/model"
)

// Solve collects every key of grid using the agents standing on its start
// cells. A positive expectedAgents must match the number of start cells,
// otherwise ErrUnexpectedAgentCount is returned.
func Solve(ctx context.Context, grid *model.Grid, expectedAgents int, options ...Option) (Result, error) {
	if grid == nil {
		return Result{}, fmt.Errorf("%w: nil grid", ErrMalformedGrid)
	}
	starts := grid.Starts()
	if expectedAgents > 0 && len(starts) != expectedAgents {
		return Result{}, fmt.Errorf("%w: grid has %d, want %d", ErrUnexpectedAgentCount, len(starts), expectedAgents)
	}

	if applyOptions(options).BruteForce {
		return BruteForce(ctx, grid, starts)
	}
	g, err := BuildGraph(ctx, grid, starts, options...)
	if err != nil {
		return Result{}, err
	}
	return Search(g, len(starts), g.KeyCount())
}

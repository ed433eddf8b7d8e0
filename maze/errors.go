package maze

import (
	"errors"

	"github.com/zucenko/keymaze/model"
)

var (
	// ErrMalformedGrid is returned by BuildGraph for bad start positions,
	// duplicate key ids and more agents than MaxAgents.
	ErrMalformedGrid = model.ErrMalformedGrid

	ErrUnexpectedAgentCount = errors.New("unexpected agent count")

	// ErrUnreachable means no sequence of moves collects every key. It comes
	// with a Result whose Found is false.
	ErrUnreachable = errors.New("keys unreachable")
)

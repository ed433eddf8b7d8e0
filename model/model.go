package model

import "fmt"

type Kind int

const (
	Wall Kind = iota
	Open
	Start
	Key
	Door
)

func (k Kind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Open:
		return "open"
	case Start:
		return "start"
	case Key:
		return "key"
	case Door:
		return "door"
	default:
		return fmt.Sprintf("n/a:%d", int(k))
	}
}

type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell is one square of the grid. Symbol holds the lower case id for both
// keys and doors, so a door and the key opening it share a Symbol.
type Cell struct {
	Kind   Kind
	Symbol byte
}

// Grid is read only once built. Rows may have different lengths, anything
// past the end of a row is a wall.
type Grid struct {
	rows  [][]Cell
	width int
}

package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCells(t *testing.T) {
	g, err := ReadString("#@.aB#\n")
	require.NoError(t, err)

	assert.Equal(t, 1, g.Rows())
	assert.Equal(t, 6, g.Width())
	assert.Equal(t, Cell{Kind: Wall}, g.At(Position{0, 0}))
	assert.Equal(t, Cell{Kind: Start}, g.At(Position{0, 1}))
	assert.Equal(t, Cell{Kind: Open}, g.At(Position{0, 2}))
	assert.Equal(t, Cell{Kind: Key, Symbol: 'a'}, g.At(Position{0, 3}))
	assert.Equal(t, Cell{Kind: Door, Symbol: 'b'}, g.At(Position{0, 4}))
	assert.Equal(t, []Position{{0, 1}}, g.Starts())
	assert.Equal(t, []Position{{0, 3}}, g.Keys())
}

func TestReadSkipsBlankLines(t *testing.T) {
	g, err := ReadString("\n\n#@a#\r\n#..#\n\nignored\n")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, "#@a#\n#..#", g.String())
}

func TestReadJagged(t *testing.T) {
	g, err := ReadString("#####\n#@.\n#####")
	require.NoError(t, err)
	assert.Equal(t, 3, g.RowLen(1))
	assert.False(t, g.In(Position{1, 3}))
	assert.Equal(t, Wall, g.At(Position{1, 4}).Kind)
	assert.Equal(t, []Position{{1, 1}}, g.Neighbors(nil, Position{1, 2}))

	_, err = ReadString("#####\n#@.\n#####", RequireRectangular())
	assert.ErrorIs(t, err, ErrMalformedGrid)
}

func TestReadErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":   "",
		"blank":   "\n\n",
		"unknown": "#@?#",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadString(input)
			assert.ErrorIs(t, err, ErrMalformedGrid)
		})
	}
}

func TestNeighbors(t *testing.T) {
	g, err := ReadString("#.#\n.@A\n###")
	require.NoError(t, err)
	assert.Equal(t, []Position{{0, 1}, {1, 2}, {1, 0}}, g.Neighbors(nil, Position{1, 1}))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maze.txt")
	require.NoError(t, os.WriteFile(path, []byte("#@a#\n"), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#@a#", g.String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestNewGridCopies(t *testing.T) {
	rows := [][]Cell{{{Kind: Start}, {Kind: Open}}}
	g := NewGrid(rows)
	rows[0][1] = Cell{Kind: Wall}
	assert.Equal(t, Open, g.At(Position{0, 1}).Kind)
}

package maze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zucenko/keymaze/model"
)

func readGrid(t *testing.T, lines ...string) *model.Grid {
	t.Helper()
	g, err := model.ReadString(strings.Join(lines, "\n"))
	require.NoError(t, err)
	return g
}

var (
	singleAgentMazes = []struct {
		name string
		grid []string
		want int
	}{
		{"door behind start", []string{
			"#######",
			"#a.@.A#",
			"#######",
		}, 2},
		{"no keys", []string{
			"#####",
			"#@..#",
			"#####",
		}, 0},
		{"one key", []string{
			"#######",
			"#@...a#",
			"#######",
		}, 4},
		{"door forces order", []string{
			"#############",
			"#a.B.@.....b#",
			"#############",
		}, 16},
		{"small", []string{
			"#########",
			"#b.A.@.a#",
			"#########",
		}, 8},
		{"corridor", []string{
			"########################",
			"#f.D.E.e.C.b.A.@.a.B.c.#",
			"######################.#",
			"#d.....................#",
			"########################",
		}, 86},
		{"winding", []string{
			"########################",
			"#...............b.C.D.f#",
			"#.######################",
			"#.@.a.B.c.d.A.e.F.g....#",
			"########################",
		}, 132},
		{"branches", []string{
			"########################",
			"#@..............ac.GI.b#",
			"###d#e#f################",
			"###A#B#C################",
			"###g#h#i################",
			"########################",
		}, 81},
	}

	multiAgentMazes = []struct {
		name string
		grid []string
		want int
	}{
		{"disjoint corridors", []string{
			"#####",
			"#@.a#",
			"#####",
			"#@.b#",
			"#####",
		}, 4},
		{"quadrants", []string{
			"#######",
			"#a.#Cd#",
			"##@#@##",
			"#######",
			"##@#@##",
			"#cB#Ab#",
			"#######",
		}, 8},
		{"wide quadrants", []string{
			"###############",
			"#d.ABC.#.....a#",
			"######@#@######",
			"###############",
			"######@#@######",
			"#b.....#.....c#",
			"###############",
		}, 24},
		{"crossed doors", []string{
			"#############",
			"#DcBa.#.GhKl#",
			"#.###@#@#I###",
			"#e#d#####j#k#",
			"###C#@#@###J#",
			"#fEbA.#.FgHi#",
			"#############",
		}, 32},
		{"deep quadrants", []string{
			"#############",
			"#g#f.D#..h#l#",
			"#F###e#E###.#",
			"#dCba@#@BcIJ#",
			"#############",
			"#nK.L@#@G...#",
			"#M###N#H###.#",
			"#o#m..#i#jk.#",
			"#############",
		}, 72},
	}
)

package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMalformedGrid = errors.New("malformed grid")

type readOptions struct {
	rectangular bool
}

type ReadOption func(*readOptions)

// RequireRectangular rejects grids whose rows differ in length.
func RequireRectangular() ReadOption {
	return func(o *readOptions) { o.rectangular = true }
}

func Load(path string, options ...ReadOption) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, options...)
}

// ReadString is Read over an in-memory grid.
func ReadString(s string, options ...ReadOption) (*Grid, error) {
	return Read(strings.NewReader(s), options...)
}

// Read parses a text grid. Leading blank lines are skipped and the grid ends
// at the first blank line after it started.
func Read(reader io.Reader, options ...ReadOption) (*Grid, error) {
	opts := readOptions{}
	for _, o := range options {
		o(&opts)
	}

	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	rows := make([][]Cell, 0)
	for scanner.Scan() {
		s := strings.TrimRight(scanner.Text(), "\r")
		if s == "" {
			if len(rows) == 0 {
				continue
			}
			break
		}
		line := make([]Cell, 0, len(s))
		for col := 0; col < len(s); col++ {
			char := s[col]
			switch {
			case char == '#':
				line = append(line, Cell{Kind: Wall})
			case char == '.':
				line = append(line, Cell{Kind: Open})
			case char == '@':
				line = append(line, Cell{Kind: Start})
			case 'a' <= char && char <= 'z':
				line = append(line, Cell{Kind: Key, Symbol: char})
			case 'A' <= char && char <= 'Z':
				line = append(line, Cell{Kind: Door, Symbol: char | 0x20})
			default:
				return nil, fmt.Errorf("%w: unexpected %q at row %d col %d", ErrMalformedGrid, char, len(rows), col)
			}
		}
		if opts.rectangular && len(rows) > 0 && len(line) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, len(rows), len(line), len(rows[0]))
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedGrid)
	}
	return NewGrid(rows), nil
}

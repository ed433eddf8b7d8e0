package server

import (
	"errors"
	"fmt"

	"github.com/zucenko/keymaze/maze"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408
const HTTP_TOO_LARGE = 413
const HTTP_SERVER_ERR = 503

var ErrGridTooLarge = errors.New("grid too large")

type ResponseCode int

const (
	SOLVE_OK ResponseCode = iota
	SOLVE_INVALID
	SOLVE_NOT_FOUND
	SOLVE_TOO_LARGE
	SOLVE_TIMEOUT
	SOLVE_FAILED
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case SOLVE_OK:
		return HTTP_SUCCESS
	case SOLVE_INVALID:
		return HTTP_BAD_REQUEST
	case SOLVE_NOT_FOUND:
		return HTTP_NOT_FOUND
	case SOLVE_TOO_LARGE:
		return HTTP_TOO_LARGE
	case SOLVE_TIMEOUT:
		return HTTP_TIMEOUT
	case SOLVE_FAILED:
		return HTTP_SERVER_ERR
	default:
		panic(h)
	}
}

// codeFor classifies an error returned while solving.
func codeFor(err error) ResponseCode {
	switch {
	case err == nil:
		return SOLVE_OK
	case errors.Is(err, maze.ErrMalformedGrid), errors.Is(err, maze.ErrUnexpectedAgentCount):
		return SOLVE_INVALID
	case errors.Is(err, ErrGridTooLarge):
		return SOLVE_TOO_LARGE
	default:
		return SOLVE_FAILED
	}
}

func (ss SessionState) Name() string {
	switch ss {
	case SS_NEW:
		return "NEW"
	case SS_OPEN:
		return "OPEN"
	case SS_OVER:
		return "OVER"
	case SS_ERR:
		return "ERR"
	default:
		return fmt.Sprintf("n/a:%d", ss)
	}
}

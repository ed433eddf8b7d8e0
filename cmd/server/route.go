package main

import (
	"github.com/matryer/way"
)

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.SolveServer.Mount(s.router)
}

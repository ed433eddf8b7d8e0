package server

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zucenko/keymaze/cache"
	"github.com/zucenko/keymaze/config"
	"github.com/zucenko/keymaze/model"
)

// SolveServer accepts websocket sessions and JSON requests. The session
// registry is owned by Loop and only touched through its channels.
type SolveServer struct {
	Solver        *cache.Solver
	Config        *config.Config
	Upgrader      *websocket.Upgrader
	Register      chan *Session
	Unregister    chan *Session
	StatsRequests chan chan Stats

	sessions map[string]*Session
	solved   atomic.Int64
	failed   atomic.Int64
}

type Stats struct {
	Sessions int    `json:"sessions"`
	Solved   int64  `json:"solved"`
	Failed   int64  `json:"failed"`
	Cached   int    `json:"cached"`
	Version  string `json:"version"`
}

type SessionState int

const (
	SS_NEW SessionState = iota + 1
	SS_OPEN
	SS_OVER
	SS_ERR
)

type Session struct {
	State  SessionState
	Id     string
	Server *SolveServer
	Conn   *websocket.Conn

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugPings       int
}

package server

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/keymaze/cache"
	"github.com/zucenko/keymaze/config"
	"github.com/zucenko/keymaze/model"
)

func NewSolveServer(cfg *config.Config, solver *cache.Solver) *SolveServer {
	return &SolveServer{
		Solver:        solver,
		Config:        cfg,
		Upgrader:      &websocket.Upgrader{},
		Register:      make(chan *Session),
		Unregister:    make(chan *Session),
		StatsRequests: make(chan chan Stats),
		sessions:      make(map[string]*Session),
	}
}

// HandleHttpCall upgrades the connection and serves one session until the
// client goes away.
func (s *SolveServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - connection received")

		conn, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered the client
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		defer conn.Close()

		ps := &Session{
			State:          SS_NEW,
			Id:             uuid.NewString(),
			Server:         s,
			Conn:           conn,
			MessagesToSend: make(chan model.ServerMessage, 10),
		}
		select {
		case s.Register <- ps:
		case <-time.After(s.Config.Timeout):
			log.Warn("HandleHttpCall Register TIMEOUTED")
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server busy"),
				time.Now().Add(time.Second))
			return
		}

		conn.SetPingHandler(func(message string) error {
			ps.DebugPings++
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			if err == websocket.ErrCloseSent {
				return nil
			}
			return err
		})

		ps.State = SS_OPEN
		ps.MessagesToSend <- model.ServerMessage{Setup: []model.Setup{{Session: ps.Id, Version: s.Config.Version}}}
		writerDone := make(chan struct{})
		go func() {
			ps.LoopChannelWrite()
			close(writerDone)
		}()

		ps.LoopChannelRead(r.Context())
		close(ps.MessagesToSend)
		<-writerDone

		select {
		case s.Unregister <- ps:
		case <-time.After(s.Config.Timeout):
			log.Warnf("HandleHttpCall Unregister %s TIMEOUTED", ps.Id)
		}
	}
}

// Loop owns the session registry. It returns when ctx is done.
func (s *SolveServer) Loop(ctx context.Context) {
	log.Printf("SolveServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Printf("SolveServer.Loop stopping, %d sessions open", len(s.sessions))
			return
		case ps := <-s.Register:
			s.sessions[ps.Id] = ps
			log.WithField("session", ps.Id).Infof("session registered, %d open", len(s.sessions))
		case ps := <-s.Unregister:
			delete(s.sessions, ps.Id)
			log.WithField("session", ps.Id).Infof("session closed (%s), %d open", ps.State.Name(), len(s.sessions))
		case reply := <-s.StatsRequests:
			stats := Stats{
				Sessions: len(s.sessions),
				Solved:   s.solved.Load(),
				Failed:   s.failed.Load(),
				Version:  s.Config.Version,
			}
			if s.Solver != nil && s.Solver.Store != nil {
				if n, err := s.Solver.Store.Count(); err == nil {
					stats.Cached = n
				}
			}
			reply <- stats
		}
	}
}

// Stats asks Loop for a snapshot of the registry.
func (s *SolveServer) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case s.StatsRequests <- reply:
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case <-time.After(s.Config.Timeout):
		return Stats{}, fmt.Errorf("stats request timed out")
	}
	select {
	case stats := <-reply:
		return stats, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// solve checks the request size and hands it to the solver.
func (s *SolveServer) solve(ctx context.Context, req model.ClientMessage) (model.Solution, error) {
	if limit := s.Config.MaxCells; limit > 0 && len(req.Grid)-strings.Count(req.Grid, "\n") > limit {
		s.failed.Add(1)
		return model.Solution{}, fmt.Errorf("%w: more than %d cells", ErrGridTooLarge, limit)
	}
	if req.Agents == 0 {
		req.Agents = s.Config.Agents
	}
	solution, err := s.Solver.Solve(ctx, req)
	if err != nil {
		s.failed.Add(1)
		return model.Solution{}, err
	}
	s.solved.Add(1)
	return solution, nil
}

func (ps *Session) LoopChannelRead(ctx context.Context) {
	log.Printf("LoopChannelRead STARTED %s", ps.Id)
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ps.State = SS_OVER
			} else {
				log.Printf("LoopChannelRead err reading message from Conn %v", err)
				ps.State = SS_ERR
			}
			break loop
		}
		cm := &model.ClientMessage{}
		if err := gob.NewDecoder(r).Decode(cm); err != nil {
			log.Warnf("LoopChannelRead cant decode %v", err)
			ps.State = SS_ERR
			break loop
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		solution, err := ps.Server.solve(ctx, *cm)
		if err != nil {
			ps.MessagesToSend <- model.ServerMessage{Errors: []string{err.Error()}}
			continue
		}
		ps.MessagesToSend <- model.ServerMessage{Solutions: []model.Solution{solution}}
	}
	log.Printf("LoopChannelRead ENDED %s", ps.Id)
}

// LoopChannelWrite drains MessagesToSend until it is closed.
func (ps *Session) LoopChannelWrite() {
	log.Printf("Session.LoopChannelWrite STARTED %s", ps.Id)
	broken := false
	for mes := range ps.MessagesToSend {
		if broken {
			continue
		}
		w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
		if err != nil {
			log.Warnf("Session.LoopChannelWrite cant get writer %v", err)
			broken = true
			continue
		}
		if err := gob.NewEncoder(w).Encode(mes); err != nil {
			log.Warnf("Session.LoopChannelWrite cant encode %v", err)
			broken = true
		}
		if err := w.Close(); err != nil {
			log.Warnf("Session.LoopChannelWrite cant flush %v", err)
			broken = true
			continue
		}
		ps.DebugOutMessages++
	}
	log.Printf("Session.LoopChannelWrite ENDED %s", ps.Id)
}

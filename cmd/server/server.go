package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/keymaze/cache"
	"github.com/zucenko/keymaze/config"
	"github.com/zucenko/keymaze/maze"
	"github.com/zucenko/keymaze/server"
)

type Server struct {
	router      *way.Router
	SolveServer *server.SolveServer
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("KEYMAZE_CONFIG"); path != "" {
		return config.FromFile(path)
	}
	return config.FromEnv(), nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalln(err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	solver := &cache.Solver{Options: []maze.Option{maze.WithWorkers(cfg.Workers)}}
	if cfg.CachePath != "" {
		store, err := cache.Open(cfg.CachePath)
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()
		solver.Store = store
		log.Printf("Caching solutions in %s", store.Path())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := Server{SolveServer: server.NewSolveServer(cfg, solver)}
	go s.SolveServer.Loop(ctx)
	s.routes()

	httpServer := &http.Server{Addr: cfg.Listen, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdown)
	}()

	log.Printf("Listening on %s", cfg.Listen)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}

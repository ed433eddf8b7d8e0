package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zucenko/keymaze/cache"
	"github.com/zucenko/keymaze/client"
	"github.com/zucenko/keymaze/config"
	"github.com/zucenko/keymaze/maze"
	"github.com/zucenko/keymaze/model"
)

// Version is the current keymaze CLI version
var Version = "0.1.0"

var (
	configPath string
	verbose    bool
	cachePath  string
	workers    int
	agents     int

	solveBrute  bool
	solveSteps  bool
	solveRemote string
)

var rootCmd = &cobra.Command{
	Use:          "keymaze",
	Short:        "keymaze - shortest walk collecting every key in a door maze",
	Long:         `keymaze reads a maze of walls, keys, doors and agent starts and prints the fewest total steps the agents need to collect every key.`,
	Version:      Version,
	SilenceUsage: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve [file]",
	Short: "Solve one maze read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSolve,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides KEYMAZE_* environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log solver progress to stderr")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "SQLite cache of solved mazes")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Parallel floods while building the graph (default from config)")
	rootCmd.PersistentFlags().IntVar(&agents, "agents", 0, "Expected number of agents, 0 accepts any")

	solveCmd.Flags().BoolVar(&solveBrute, "brute", false, "Search cell by cell instead of over the key graph")
	solveCmd.Flags().BoolVar(&solveSteps, "steps", false, "Print which agent picks up which key")
	solveCmd.Flags().StringVar(&solveRemote, "remote", "", "Solve on a server, e.g. ws://localhost:8080/solve")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the config file or environment with the command line.
func loadConfig() (*config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		var err error
		if cfg, err = config.FromFile(configPath); err != nil {
			return nil, err
		}
	}
	if cachePath != "" {
		cfg.CachePath = cachePath
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if agents > 0 {
		cfg.Agents = agents
	}

	log.SetOutput(os.Stderr)
	switch {
	case verbose || cfg.Debug:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
	return cfg, nil
}

// openSolver returns a local solver and a function releasing its cache.
func openSolver(cfg *config.Config) (*cache.Solver, func(), error) {
	solver := &cache.Solver{Options: []maze.Option{maze.WithWorkers(cfg.Workers)}}
	if cfg.CachePath == "" {
		return solver, func() {}, nil
	}
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	solver.Store = store
	return solver, func() { store.Close() }, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading maze: %w", err)
	}
	req := model.ClientMessage{Grid: string(data), Agents: cfg.Agents, Brute: solveBrute}

	var solution model.Solution
	if solveRemote != "" {
		solution, err = solveOnServer(cmd.Context(), solveRemote, req)
	} else {
		solver, release, openErr := openSolver(cfg)
		if openErr != nil {
			return openErr
		}
		defer release()
		solution, err = solver.Solve(cmd.Context(), req)
	}
	if err != nil {
		return err
	}
	printSolution(cmd.OutOrStdout(), solution, solveSteps)
	return nil
}

func solveOnServer(ctx context.Context, url string, req model.ClientMessage) (model.Solution, error) {
	c, err := client.Dial(ctx, url)
	if err != nil {
		return model.Solution{}, err
	}
	defer c.Close()
	return c.Solve(ctx, req)
}

func printSolution(w io.Writer, s model.Solution, steps bool) {
	if !s.Found {
		fmt.Fprintln(w, "no solution")
		return
	}
	fmt.Fprintln(w, s.Distance)
	if !steps {
		return
	}
	for _, p := range s.Steps {
		fmt.Fprintf(w, "  agent %d picks %s at %d\n", p.Agent, p.Key, p.Distance)
	}
}

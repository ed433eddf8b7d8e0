package main

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zucenko/keymaze/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch <glob>...",
	Short: "Solve every maze file matching the patterns",
	Long: `Solve every maze file matching the patterns and print one line per file.

Patterns support ** (e.g. "mazes/**/*.txt"). A file that fails to solve is
reported and the remaining files are still solved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	solver, release, err := openSolver(cfg)
	if err != nil {
		return err
	}
	defer release()

	var files []string
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %v", args)
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err == nil {
			var s model.Solution
			s, err = solver.Solve(cmd.Context(), model.ClientMessage{Grid: string(data), Agents: cfg.Agents})
			if err == nil {
				if s.Found {
					fmt.Fprintf(out, "%s\t%d\n", path, s.Distance)
				} else {
					fmt.Fprintf(out, "%s\tno solution\n", path)
				}
				continue
			}
		}
		failed++
		log.WithField("file", path).Debugf("batch solve failed: %v", err)
		fmt.Fprintf(out, "%s\terror: %v\n", path, err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d mazes failed", failed, len(files))
	}
	return nil
}

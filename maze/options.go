package maze

import "runtime"

// Options tunes graph building.
type Options struct {
	// NumberOfWorkers caps how many per-node floods run at once.
	NumberOfWorkers int
	// BruteForce makes Solve walk the raw grid instead of the graph.
	BruteForce bool
}

type Option func(*Options)

// WithWorkers sets how many floods BuildGraph runs in parallel. Values below
// one fall back to a single worker.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithBruteForce switches Solve to BruteForce.
func WithBruteForce(enabled bool) Option {
	return func(options *Options) { options.BruteForce = enabled }
}

func applyOptions(options []Option) Options {
	opts := Options{NumberOfWorkers: runtime.NumCPU()}
	for _, option := range options {
		option(&opts)
	}
	if opts.NumberOfWorkers < 1 {
		opts.NumberOfWorkers = 1
	}
	return opts
}

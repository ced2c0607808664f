package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// SweepOptions configures a parameter sweep.
type SweepOptions struct {
	Workers int
	// Metrics builds fresh metrics for each run.
	Metrics func(Config) []Metric
	Logger  *zap.Logger
}

// SweepRun is the outcome of one configuration in a sweep.
type SweepRun struct {
	Value  float64
	Config Config
	Result *Result
	Err    error
}

// Sweep runs base once per value of the named parameter on a worker pool.
// Runs are returned in the order of values.
func Sweep(ctx context.Context, base Config, param string, values []float64, opts SweepOptions) ([]SweepRun, error) {
	runs := make([]SweepRun, len(values))
	for i, v := range values {
		cfg := base
		if err := cfg.SetParam(param, v); err != nil {
			return nil, fmt.Errorf("%w: %q", err, param)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}
		runs[i] = SweepRun{Value: v, Config: cfg}
	}
	if len(runs) == 0 {
		return runs, nil
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool, err := ants.NewPool(
		workers,
		ants.WithPanicHandler(func(p any) {
			log.Error("sweep worker panicked", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		run := &runs[i]
		run.Err = fmt.Errorf("sweep run %s=%g did not complete", param, run.Value)

		err := pool.Submit(func() {
			defer wg.Done()
			run.Result, run.Err = runOne(ctx, run.Config, opts, log)
		})
		if err != nil {
			wg.Done()
			run.Err = err
		}
	}
	wg.Wait()

	log.Debug("sweep finished", zap.String("param", param), zap.Int("runs", len(runs)))
	return runs, nil
}

func runOne(ctx context.Context, cfg Config, opts SweepOptions, log *zap.Logger) (*Result, error) {
	d, err := New(cfg, WithLogger(log))
	if err != nil {
		return nil, err
	}
	defer d.Close()

	if opts.Metrics != nil {
		for _, m := range opts.Metrics(cfg) {
			d.AddMetric(m)
		}
	}
	return d.Run(ctx, nil)
}

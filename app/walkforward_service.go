package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/domain/walkforward"
	"stratcheck/ports"
)

// WalkForwardOptions tunes one walk-forward run
type WalkForwardOptions struct {
	// IncludeTrain additionally evaluates every train period; train results
	// stay empty otherwise.
	IncludeTrain bool
	// TradingDays overrides the default business-day calendar.
	TradingDays []time.Time
	// Parallelism bounds concurrent engine calls. Values <= 1 keep the
	// sequential window-order dispatch; higher values fan out but results
	// always come back in window-id order.
	Parallelism int
}

// WalkForwardService orchestrates per-window engine invocations and
// aggregates the outcome. It performs no retries and fabricates no partial
// results: a failing engine call aborts the whole run.
type WalkForwardService struct {
	engine ports.EnginePort
	log    zerolog.Logger
}

// NewWalkForwardService creates a walk-forward orchestrator around an engine
func NewWalkForwardService(engine ports.EnginePort, log zerolog.Logger) *WalkForwardService {
	return &WalkForwardService{engine: engine, log: log}
}

// Run partitions the base request's date range into train/test windows,
// invokes the engine once per window period, and returns the collected
// results with summary statistics.
func (s *WalkForwardService) Run(ctx context.Context, baseReq ports.RunRequest, cfg walkforward.Config, opts WalkForwardOptions) (*walkforward.Result, error) {
	if baseReq.Start == nil || baseReq.End == nil {
		return nil, core.NewValidationError("base request", "explicit start and end dates are required for walk-forward")
	}

	windows, err := walkforward.GenerateWindows(*baseReq.Start, *baseReq.End, cfg, opts.TradingDays)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("strategy", baseReq.Strategy).
		Int("windows", len(windows)).
		Bool("anchored", cfg.Anchored).
		Bool("include_train", opts.IncludeTrain).
		Msg("walk-forward run starting")

	testResults := make([]*contract.RunResult, len(windows))
	var trainResults []*contract.RunResult
	if opts.IncludeTrain {
		trainResults = make([]*contract.RunResult, len(windows))
	}

	runWindow := func(ctx context.Context, w walkforward.Window) error {
		testRes, err := s.engine.Run(ctx, baseReq.WithDates(w.TestStart, w.TestEnd))
		if err != nil {
			return fmt.Errorf("window %d test period: %w", w.ID, err)
		}
		testResults[w.ID] = testRes

		if opts.IncludeTrain {
			trainRes, err := s.engine.Run(ctx, baseReq.WithDates(w.TrainStart, w.TrainEnd))
			if err != nil {
				return fmt.Errorf("window %d train period: %w", w.ID, err)
			}
			trainResults[w.ID] = trainRes
		}
		return nil
	}

	if opts.Parallelism > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Parallelism)
		for _, w := range windows {
			w := w
			g.Go(func() error { return runWindow(gctx, w) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, w := range windows {
			if err := runWindow(ctx, w); err != nil {
				return nil, err
			}
		}
	}

	result := &walkforward.Result{
		Config:       cfg,
		Windows:      windows,
		TestResults:  testResults,
		TrainResults: trainResults,
		Summary:      walkforward.SummarizeMetrics(testResults),
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("windows", len(windows)).
		Float64("window_count", result.Summary[walkforward.SummaryWindowCount]).
		Msg("walk-forward run complete")
	return result, nil
}

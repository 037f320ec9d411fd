package harness

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/dockplate/pkg/logging"
)

// BatchResult is the outcome of a batch run
type BatchResult struct {
	Suites []*Suite `json:"suites"`
	Passed int      `json:"passed"`
	Failed int      `json:"failed"`
}

// Success reports whether every template passed
func (b *BatchResult) Success() bool { return b.Failed == 0 }

// RunBatch runs the templates concurrently, at most Options.Concurrency at
// a time. params maps a template path to its test parameters. Suites are
// returned in the order of paths.
func (h *Harness) RunBatch(ctx context.Context, paths []string, params map[string]map[string]interface{}) *BatchResult {
	logger := logging.GetLogger("harness")
	done := logging.LogOperationStart(logger, "batch")
	defer done()

	// check docker before fanning out so every suite sees the same answer
	h.DockerAvailable(ctx)

	suites := make([]*Suite, len(paths))
	var g errgroup.Group
	g.SetLimit(h.opts.Concurrency)

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				s := &Suite{Template: p}
				s.add(StageResult{Name: StageValidation, Status: StatusFailed, Error: err.Error()})
				suites[i] = s
				return nil
			}
			suites[i] = h.Run(ctx, p, params[p])
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{Suites: suites}
	for _, s := range suites {
		if s.Success() {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	logger.Info().Int("passed", result.Passed).Int("failed", result.Failed).Msg("batch finished")
	return result
}

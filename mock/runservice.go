package mock

import (
	"context"

	"github.com/fwojciec/comprof"
)

var _ comprof.RunService = (*RunService)(nil)

// RunService is a mock implementation of comprof.RunService.
type RunService struct {
	SaveRunFn     func(ctx context.Context, result *comprof.RunResult) error
	FindRunByIDFn func(ctx context.Context, id string) (*comprof.RunResult, error)
	FindRunsFn    func(ctx context.Context, filter comprof.RunFilter) ([]*comprof.RunResult, error)
}

func (s *RunService) SaveRun(ctx context.Context, result *comprof.RunResult) error {
	return s.SaveRunFn(ctx, result)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*comprof.RunResult, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter comprof.RunFilter) ([]*comprof.RunResult, error) {
	return s.FindRunsFn(ctx, filter)
}

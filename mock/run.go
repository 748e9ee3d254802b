package mock

import (
	"context"

	"github.com/fwojciec/docvec"
)

var _ docvec.RunService = (*RunService)(nil)

// RunService is a mock implementation of docvec.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, report *docvec.Report) error
	FindRunByIDFn func(ctx context.Context, id string) (*docvec.Report, error)
	FindRunsFn    func(ctx context.Context, filter docvec.RunFilter) ([]*docvec.Report, error)
}

func (s *RunService) CreateRun(ctx context.Context, report *docvec.Report) error {
	return s.CreateRunFn(ctx, report)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*docvec.Report, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter docvec.RunFilter) ([]*docvec.Report, error) {
	return s.FindRunsFn(ctx, filter)
}

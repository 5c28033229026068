package contract

import (
	"context"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
)

type ResearchRepository interface {
	CreateRun(ctx context.Context, run *entity.ResearchRun) error
	UpdateRunStatus(ctx context.Context, runID string, status string) error
	DeleteRun(ctx context.Context, runID string) error
	FindRun(ctx context.Context, specs ...specification.Specification) (*entity.ResearchRun, error)
	FindAllRuns(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchRun, error)
	CountRuns(ctx context.Context, specs ...specification.Specification) (int64, error)

	// AddSources inserts run sources, ignoring rows whose (run_id,
	// ref_id) already exists so repeated runs stay idempotent.
	AddSources(ctx context.Context, sources []*entity.ResearchSource) error
	FindSources(ctx context.Context, runID string) ([]*entity.ResearchSource, error)
	UpdateSourceFlags(ctx context.Context, runID, refID string, pinned, excluded *bool) error
	DeleteSources(ctx context.Context, runID string) error
}

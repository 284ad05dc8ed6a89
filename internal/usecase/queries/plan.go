package queries

import (
	"context"

	"github.com/google/uuid"

	"hostpanel/internal/infra"
	"hostpanel/internal/pkg/errs"
)

var ErrPlanNotFound = errs.New("plan not found")

type PlanQueries interface {
	ListEnabled(ctx context.Context) ([]*PlanListItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PlanListItem, error)
}

type PlanReadStore interface {
	FindEnabled(ctx context.Context) ([]*PlanListItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*PlanListItem, error)
}

type planQueriesImpl struct {
	readStore PlanReadStore
}

func NewPlanQueries(readStore PlanReadStore) PlanQueries {
	return &planQueriesImpl{
		readStore: readStore,
	}
}

func (q *planQueriesImpl) ListEnabled(ctx context.Context) ([]*PlanListItem, error) {
	return q.readStore.FindEnabled(ctx)
}

func (q *planQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*PlanListItem, error) {
	plan, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

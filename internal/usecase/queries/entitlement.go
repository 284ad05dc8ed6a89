package queries

import (
	"context"

	"github.com/google/uuid"

	"hostpanel/internal/infra"
	"hostpanel/internal/pkg/errs"
)

var ErrEntitlementNotFound = errs.New("entitlement not found")

type EntitlementQueries interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*EntitlementView, error)
}

type EntitlementReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*EntitlementView, error)
}

type entitlementQueriesImpl struct {
	readStore EntitlementReadStore
}

func NewEntitlementQueries(readStore EntitlementReadStore) EntitlementQueries {
	return &entitlementQueriesImpl{
		readStore: readStore,
	}
}

func (q *entitlementQueriesImpl) GetByUser(ctx context.Context, userID uuid.UUID) (*EntitlementView, error) {
	view, err := q.readStore.FindByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntitlementNotFound
		}
		return nil, err
	}
	return view, nil
}

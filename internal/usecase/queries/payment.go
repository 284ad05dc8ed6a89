package queries

import (
	"context"

	"github.com/google/uuid"

	"hostpanel/internal/infra"
	"hostpanel/internal/pkg/errs"
)

var (
	ErrPaymentNotFound = errs.New("payment not found")
	ErrPaymentAccess   = errs.New("payment access denied")
)

type PaymentQueries interface {
	// GetByKey returns the payment created under the given idempotency key.
	// Only the owning user may read it.
	GetByKey(ctx context.Context, actor uuid.UUID, idempotencyKey uuid.UUID) (*PaymentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*PaymentView, error)
}

type PaymentReadStore interface {
	FindByKey(ctx context.Context, idempotencyKey uuid.UUID) (*PaymentView, uuid.UUID, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*PaymentView, error)
}

type paymentQueriesImpl struct {
	readStore PaymentReadStore
}

func NewPaymentQueries(readStore PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{
		readStore: readStore,
	}
}

func (q *paymentQueriesImpl) GetByKey(ctx context.Context, actor uuid.UUID, idempotencyKey uuid.UUID) (*PaymentView, error) {
	view, ownerID, err := q.readStore.FindByKey(ctx, idempotencyKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if ownerID != actor {
		return nil, ErrPaymentAccess
	}
	return view, nil
}

func (q *paymentQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*PaymentView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return q.readStore.FindByUserID(ctx, userID, int32(limit))
}

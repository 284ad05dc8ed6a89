package commands

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/redemption"
	reqdto "hostpanel/internal/handler/dto/request"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/pkg/clock"
	"hostpanel/internal/pkg/config"
	"hostpanel/internal/pkg/errs"
	"hostpanel/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrPlanNotFound            = errs.New("plan not found")
	ErrCouponNotFound          = errs.New("coupon not found")
	ErrPaymentNotFound         = errs.New("payment not found")
	ErrPaymentAccessDenied     = errs.New("idempotency key belongs to another user")
	ErrPaymentTerminal         = errs.New("payment already in a terminal state")
	ErrGatewayUnavailable      = errs.New("payment gateway unavailable")
	ErrConflictExceededRetries = errs.New("write conflict persisted after max retries")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const (
	maxApplyAttempts = 5
	applyRetryBase   = 20 * time.Millisecond
)

type BeginPurchaseResult struct {
	IdempotencyKey  uuid.UUID
	PaymentID       uuid.UUID
	AmountCents     int64
	Currency        string
	Status          payment.Status
	ExternalOrderID *string
	Rejection       *redemption.Rejection
	IsReplayed      bool
}

type CapturePurchaseResult struct {
	Status        payment.Status
	Effect        *redemption.Effect
	FailureReason *string
	Rejection     *redemption.Rejection
	IsReplayed    bool
}

type PurchaseCommands interface {
	BeginPurchase(ctx context.Context, req reqdto.BeginPurchaseRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*BeginPurchaseResult, error)
	CaptureOrder(ctx context.Context, userID uuid.UUID, idempotencyKey uuid.UUID) (*CapturePurchaseResult, error)
}

type purchaseUseCaseImpl struct {
	userRepo     UserRepository
	planRepo     PlanRepository
	couponRepo   CouponRepository
	paymentRepo  PaymentRepository
	userPlanRepo UserPlanRepository
	txManager    TxManager
	gateway      PaymentGateway
	audit        AuditRecorder
	provisioner  Provisioner
	clock        clock.Clock
	gatewayCfg   config.GatewayConfig
}

func NewPurchaseUseCase(
	userRepo UserRepository,
	planRepo PlanRepository,
	couponRepo CouponRepository,
	paymentRepo PaymentRepository,
	userPlanRepo UserPlanRepository,
	txManager TxManager,
	gateway PaymentGateway,
	audit AuditRecorder,
	provisioner Provisioner,
	clock clock.Clock,
	gatewayCfg config.GatewayConfig,
) PurchaseCommands {
	return &purchaseUseCaseImpl{
		userRepo:     userRepo,
		planRepo:     planRepo,
		couponRepo:   couponRepo,
		paymentRepo:  paymentRepo,
		userPlanRepo: userPlanRepo,
		txManager:    txManager,
		gateway:      gateway,
		audit:        audit,
		provisioner:  provisioner,
		clock:        clock,
		gatewayCfg:   gatewayCfg,
	}
}

// BeginPurchase evaluates the purchase, records a payment row under the
// idempotency key, and opens the external order when money is due. It never
// mutates user, coupon or plan state; all of that waits for capture. Calling
// it again with the same key replays the stored row without a second order.
func (u *purchaseUseCaseImpl) BeginPurchase(
	ctx context.Context,
	req reqdto.BeginPurchaseRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*BeginPurchaseResult, error) {
	if idempotencyKey == uuid.Nil {
		idempotencyKey = uuid.New()
	}

	existing, err := u.paymentRepo.FindByKey(ctx, nil, idempotencyKey)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if existing != nil {
		return u.replayBegin(ctx, existing, userID)
	}

	planSnap, err := u.planRepo.FindByID(ctx, nil, req.PlanID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	couponCode := req.GetCouponCode()
	couponSnap, err := u.findCoupon(ctx, nil, couponCode)
	if err != nil {
		return nil, err
	}

	effect, rejection, err := u.evaluate(planSnap, couponSnap)
	if err != nil {
		return nil, err
	}

	if rejection != nil {
		result, err := u.recordRejectedBegin(ctx, req, userID, idempotencyKey, couponCode, rejection)
		if err != nil {
			return nil, err
		}
		u.audit.Record(ctx, userID.String(), "purchase.begin", planSnap.Name, string(rejection.Reason))
		metrics.ObserveRedemption("purchase", string(rejection.Reason))
		return result, nil
	}

	paymentEntity, err := payment.NewPayment(
		idempotencyKey, userID, req.PlanID, couponCode,
		effect.FinalPriceCents, u.gatewayCfg.Currency,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := u.paymentRepo.Create(ctx, paymentEntity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Concurrent begin with the same key won the insert race.
			raced, findErr := u.paymentRepo.FindByKey(ctx, nil, idempotencyKey)
			if findErr != nil {
				return nil, errs.Mark(findErr, ErrDatabaseOperationFailed)
			}
			return u.replayBegin(ctx, raced, userID)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &BeginPurchaseResult{
		IdempotencyKey: idempotencyKey,
		PaymentID:      paymentEntity.ID(),
		AmountCents:    effect.FinalPriceCents,
		Currency:       u.gatewayCfg.Currency,
		Status:         payment.StatusPending,
	}

	if effect.FinalPriceCents > 0 {
		orderID, err := u.openExternalOrder(ctx, paymentEntity.ID(), idempotencyKey, userID, planSnap.Name, effect.FinalPriceCents, 1)
		if err != nil {
			return nil, err
		}
		result.ExternalOrderID = orderID
	}

	u.audit.Record(ctx, userID.String(), "purchase.begin", planSnap.Name, "accepted")
	return result, nil
}

// CaptureOrder settles a pending payment: capture at the gateway (skipped
// for zero amounts), then one transaction that re-validates against fresh
// snapshots and applies the effect under version guards. Version conflicts
// restart the transaction from fresh snapshots with jittered delays; a
// re-validation that now fails marks the payment failed instead.
func (u *purchaseUseCaseImpl) CaptureOrder(
	ctx context.Context,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CapturePurchaseResult, error) {
	snap, err := u.paymentRepo.FindByKey(ctx, nil, idempotencyKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if snap.UserID != userID {
		return nil, ErrPaymentAccessDenied
	}

	switch snap.Status {
	case payment.StatusCaptured:
		return &CapturePurchaseResult{
			Status:     payment.StatusCaptured,
			Effect:     snap.AppliedEffect,
			IsReplayed: true,
		}, nil
	case payment.StatusFailed, payment.StatusCancelled:
		return &CapturePurchaseResult{
			Status:        snap.Status,
			FailureReason: snap.FailureReason,
		}, errs.Mark(errs.New("payment is "+string(snap.Status)), ErrPaymentTerminal)
	}

	if snap.AmountCents > 0 {
		if snap.ExternalOrderID == nil {
			// Order creation never finished on begin; open it now so the
			// same key keeps converging instead of dead-ending.
			orderID, err := u.openExternalOrder(ctx, snap.ID, snap.IdempotencyKey, userID, "", snap.AmountCents, snap.Version)
			if err != nil {
				return nil, err
			}
			snap.ExternalOrderID = orderID
			snap.Version++
		}

		captureCtx, cancel := context.WithTimeout(ctx, u.gatewayCfg.CaptureTimeout)
		captureResult, err := u.gateway.CaptureOrder(captureCtx, *snap.ExternalOrderID)
		cancel()
		if err != nil {
			return u.handleGatewayFailure(ctx, snap, err)
		}
		if !captureResult.Success {
			return u.failPayment(ctx, snap, redemption.Reject(redemption.ReasonGatewayTerminal, captureResult.FailureReason))
		}
	}

	return u.applyCapturedEffect(ctx, snap)
}

// applyCapturedEffect runs the guarded apply transaction, retrying from
// fresh snapshots on version conflicts. Money has already been captured at
// this point; only a rejection discovered on re-validation fails the payment.
func (u *purchaseUseCaseImpl) applyCapturedEffect(ctx context.Context, snap *PaymentSnapshot) (*CapturePurchaseResult, error) {
	var (
		appliedEffect redemption.Effect
		rejection     *redemption.Rejection
	)

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		rejection = nil
		err := u.txManager.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
			fresh, err := u.paymentRepo.FindByKey(ctx, tx, snap.IdempotencyKey)
			if err != nil {
				return err
			}
			if fresh.Status == payment.StatusCaptured {
				appliedEffect = *fresh.AppliedEffect
				return nil
			}
			if fresh.Status.IsTerminal() {
				rejection = redemption.Reject(redemption.ReasonGatewayTerminal, "payment is "+string(fresh.Status))
				return nil
			}

			planSnap, err := u.planRepo.FindByID(ctx, tx, fresh.PlanID)
			if err != nil {
				return err
			}
			couponSnap, err := u.findCouponRepo(ctx, tx, fresh.CouponCode)
			if err != nil {
				return err
			}
			userSnap, err := u.userRepo.FindByID(ctx, tx, fresh.UserID)
			if err != nil {
				return err
			}

			effect, rej, err := u.evaluate(planSnap, couponSnap)
			if err != nil {
				return err
			}
			if rej != nil {
				rejection = rej
				return u.paymentRepo.MarkFailed(ctx, tx, fresh.ID, fresh.Version, rej.Error())
			}

			if couponSnap != nil {
				if err := u.couponRepo.IncrementUsage(ctx, tx, couponSnap.ID, couponSnap.Version); err != nil {
					return err
				}
			}
			if effect.PlanGrant != nil {
				if err := u.userPlanRepo.CreateGrant(ctx, tx, fresh.UserID, *effect.PlanGrant, u.clock.Now()); err != nil {
					return err
				}
			}
			if err := u.userRepo.ApplyEffect(ctx, tx, fresh.UserID, userSnap.Version, effect.CoinsDelta, effect.Resources); err != nil {
				return err
			}
			if err := u.paymentRepo.MarkCaptured(ctx, tx, fresh.ID, fresh.Version, effect); err != nil {
				return err
			}

			appliedEffect = effect
			return nil
		})
		if err == nil {
			break
		}
		if infra.IsKind(err, infra.KindConflict) {
			if attempt == maxApplyAttempts {
				metrics.ObserveConflictRetryExhausted("purchase")
				return nil, ErrConflictExceededRetries
			}
			metrics.ObserveConflictRetry("purchase")
			sleepWithJitter(attempt)
			continue
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if rejection != nil {
		u.audit.Record(ctx, snap.UserID.String(), "purchase.capture", snap.IdempotencyKey.String(), string(rejection.Reason))
		metrics.ObserveRedemption("purchase", string(rejection.Reason))
		reason := rejection.Error()
		return &CapturePurchaseResult{
			Status:        payment.StatusFailed,
			FailureReason: &reason,
			Rejection:     rejection,
		}, nil
	}

	u.audit.Record(ctx, snap.UserID.String(), "purchase.capture", snap.IdempotencyKey.String(), "applied")
	metrics.ObserveRedemption("purchase", "applied")
	u.syncProvisioner(ctx, snap.UserID)

	return &CapturePurchaseResult{
		Status: payment.StatusCaptured,
		Effect: &appliedEffect,
	}, nil
}

func (u *purchaseUseCaseImpl) replayBegin(ctx context.Context, snap *PaymentSnapshot, userID uuid.UUID) (*BeginPurchaseResult, error) {
	if snap.UserID != userID {
		return nil, ErrPaymentAccessDenied
	}

	result := &BeginPurchaseResult{
		IdempotencyKey:  snap.IdempotencyKey,
		PaymentID:       snap.ID,
		AmountCents:     snap.AmountCents,
		Currency:        snap.Currency,
		Status:          snap.Status,
		ExternalOrderID: snap.ExternalOrderID,
		IsReplayed:      true,
	}

	if snap.Status == payment.StatusPending && snap.AmountCents > 0 && snap.ExternalOrderID == nil {
		orderID, err := u.openExternalOrder(ctx, snap.ID, snap.IdempotencyKey, userID, "", snap.AmountCents, snap.Version)
		if err != nil {
			return nil, err
		}
		result.ExternalOrderID = orderID
	}
	return result, nil
}

func (u *purchaseUseCaseImpl) recordRejectedBegin(
	ctx context.Context,
	req reqdto.BeginPurchaseRequest,
	userID, idempotencyKey uuid.UUID,
	couponCode *string,
	rejection *redemption.Rejection,
) (*BeginPurchaseResult, error) {
	paymentEntity, err := payment.NewPayment(idempotencyKey, userID, req.PlanID, couponCode, 0, u.gatewayCfg.Currency)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if err := u.paymentRepo.Create(ctx, paymentEntity); err != nil {
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	} else if err := u.paymentRepo.MarkFailed(ctx, nil, paymentEntity.ID(), 1, rejection.Error()); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &BeginPurchaseResult{
		IdempotencyKey: idempotencyKey,
		PaymentID:      paymentEntity.ID(),
		Currency:       u.gatewayCfg.Currency,
		Status:         payment.StatusFailed,
		Rejection:      rejection,
	}, nil
}

// openExternalOrder creates the provider order outside any transaction and
// attaches the id under the payment's version guard.
func (u *purchaseUseCaseImpl) openExternalOrder(
	ctx context.Context,
	paymentID, idempotencyKey, userID uuid.UUID,
	planName string,
	amountCents int64,
	expectedVersion int64,
) (*string, error) {
	orderID, err := u.gateway.CreateOrder(ctx, amountCents, u.gatewayCfg.Currency, OrderMetadata{
		PaymentID: paymentID,
		UserID:    userID,
		PlanName:  planName,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}

	if err := u.paymentRepo.AttachExternalOrder(ctx, paymentID, expectedVersion, orderID); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// A concurrent call attached first; the stored order id wins.
			fresh, findErr := u.paymentRepo.FindByKey(ctx, nil, idempotencyKey)
			if findErr == nil && fresh.ExternalOrderID != nil {
				return fresh.ExternalOrderID, nil
			}
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &orderID, nil
}

func (u *purchaseUseCaseImpl) handleGatewayFailure(ctx context.Context, snap *PaymentSnapshot, err error) (*CapturePurchaseResult, error) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && !gwErr.Retryable {
		return u.failPayment(ctx, snap, redemption.Reject(redemption.ReasonGatewayTerminal, gwErr.Reason))
	}

	// Retryable after the adapter's own retry budget: the payment stays
	// pending so the client can call capture again.
	u.audit.Record(ctx, snap.UserID.String(), "purchase.capture", snap.IdempotencyKey.String(), string(redemption.ReasonGatewayRetry))
	metrics.ObserveRedemption("purchase", string(redemption.ReasonGatewayRetry))
	return &CapturePurchaseResult{
		Status:    payment.StatusPending,
		Rejection: redemption.Reject(redemption.ReasonGatewayRetry, "payment gateway unavailable, retry capture"),
	}, nil
}

func (u *purchaseUseCaseImpl) failPayment(ctx context.Context, snap *PaymentSnapshot, rejection *redemption.Rejection) (*CapturePurchaseResult, error) {
	if err := u.paymentRepo.MarkFailed(ctx, nil, snap.ID, snap.Version, rejection.Error()); err != nil {
		if !infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// Lost the race to another transition; report the stored state.
		fresh, findErr := u.paymentRepo.FindByKey(ctx, nil, snap.IdempotencyKey)
		if findErr == nil && fresh.Status == payment.StatusCaptured {
			return &CapturePurchaseResult{Status: payment.StatusCaptured, Effect: fresh.AppliedEffect, IsReplayed: true}, nil
		}
	}

	u.audit.Record(ctx, snap.UserID.String(), "purchase.capture", snap.IdempotencyKey.String(), string(rejection.Reason))
	metrics.ObserveRedemption("purchase", string(rejection.Reason))
	reason := rejection.Error()
	return &CapturePurchaseResult{
		Status:        payment.StatusFailed,
		FailureReason: &reason,
		Rejection:     rejection,
	}, nil
}

func (u *purchaseUseCaseImpl) evaluate(planSnap *PlanSnapshot, couponSnap *CouponSnapshot) (redemption.Effect, *redemption.Rejection, error) {
	planEntity := planFromSnapshot(planSnap)

	if couponSnap == nil {
		effect, rej := redemption.EvaluatePurchase(planEntity, nil, u.clock.Now())
		return effect, rej, nil
	}

	couponEntity, err := couponFromSnapshot(couponSnap)
	if err != nil {
		return redemption.Effect{}, nil, errs.Mark(err, ErrDomainValidation)
	}
	effect, rej := redemption.EvaluatePurchase(planEntity, couponEntity, u.clock.Now())
	return effect, rej, nil
}

func (u *purchaseUseCaseImpl) findCoupon(ctx context.Context, tx db.DBTX, code *string) (*CouponSnapshot, error) {
	if code == nil {
		return nil, nil
	}
	snap, err := u.couponRepo.FindByCode(ctx, tx, *code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return snap, nil
}

// findCouponRepo is the in-transaction variant: the repository error passes
// through untouched so conflict kinds survive for the retry loop.
func (u *purchaseUseCaseImpl) findCouponRepo(ctx context.Context, tx db.DBTX, code *string) (*CouponSnapshot, error) {
	if code == nil {
		return nil, nil
	}
	return u.couponRepo.FindByCode(ctx, tx, *code)
}

func (u *purchaseUseCaseImpl) syncProvisioner(ctx context.Context, userID uuid.UUID) {
	if err := u.provisioner.SyncUser(ctx, userID); err != nil {
		slog.WarnContext(ctx, "panel sync failed, reconciliation will pick it up",
			"user_id", userID, "error", err)
	}
}

func sleepWithJitter(attempt int) {
	backoff := applyRetryBase << uint(attempt-1)
	jitter := time.Duration(rand.Int64N(int64(backoff)))
	time.Sleep(backoff + jitter)
}

package commands

import (
	"context"
	"time"

	"hostpanel/internal/domain/giftcode"
	"hostpanel/internal/domain/redemption"
	reqdto "hostpanel/internal/handler/dto/request"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/pkg/clock"
	"hostpanel/internal/pkg/errs"
	"hostpanel/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrGiftCodeNotFound = errs.New("gift code not found")
	ErrInvalidGiftCode  = errs.New("invalid gift code")
)

type RedeemGiftResult struct {
	CoinsGranted int64
	Rejection    *redemption.Rejection
}

type CreateGiftResult struct {
	ID   uuid.UUID
	Code string
}

type GiftCodeCommands interface {
	RedeemGiftCode(ctx context.Context, userID uuid.UUID, code string) (*RedeemGiftResult, error)
	CreateGiftCode(ctx context.Context, actor uuid.UUID, req reqdto.CreateGiftRequest) (*CreateGiftResult, error)
}

type giftCodeUseCaseImpl struct {
	userRepo  UserRepository
	giftRepo  GiftCodeRepository
	txManager TxManager
	audit     AuditRecorder
	clock     clock.Clock
}

func NewGiftCodeUseCase(
	userRepo UserRepository,
	giftRepo GiftCodeRepository,
	txManager TxManager,
	audit AuditRecorder,
	clock clock.Clock,
) GiftCodeCommands {
	return &giftCodeUseCaseImpl{
		userRepo:  userRepo,
		giftRepo:  giftRepo,
		txManager: txManager,
		audit:     audit,
		clock:     clock,
	}
}

// RedeemGiftCode applies a gift code to one user in a single transaction:
// the guarded count increment, the per-user redemption record, and the coin
// credit commit together or not at all. Version conflicts restart from a
// fresh snapshot so the last unit goes to exactly one caller; the retry
// budget exhausting means the cap raced away, reported as ExhaustedCap.
func (u *giftCodeUseCaseImpl) RedeemGiftCode(ctx context.Context, userID uuid.UUID, code string) (*RedeemGiftResult, error) {
	normalized, err := giftcode.NormalizeCode(code)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidGiftCode)
	}

	var (
		coinsGranted int64
		rejection    *redemption.Rejection
	)

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		rejection = nil
		err := u.txManager.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
			snap, err := u.giftRepo.FindByCode(ctx, tx, normalized)
			if err != nil {
				return err
			}

			effect, rej := redemption.EvaluateGift(giftCodeFromSnapshot(snap), userID, u.clock.Now())
			if rej != nil {
				rejection = rej
				return nil
			}

			if err := u.giftRepo.Redeem(ctx, tx, snap.ID, snap.Version, userID, u.clock.Now()); err != nil {
				if infra.IsKind(err, infra.KindDuplicateKey) {
					rejection = redemption.Reject(redemption.ReasonNotEligible, "gift code already redeemed by this user")
					return nil
				}
				return err
			}

			userSnap, err := u.userRepo.FindByID(ctx, tx, userID)
			if err != nil {
				return err
			}
			if err := u.userRepo.ApplyEffect(ctx, tx, userID, userSnap.Version, effect.CoinsDelta, effect.Resources); err != nil {
				return err
			}

			coinsGranted = effect.CoinsDelta
			return nil
		})
		if err == nil {
			break
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrGiftCodeNotFound
		}
		if infra.IsKind(err, infra.KindConflict) {
			if attempt == maxApplyAttempts {
				metrics.ObserveConflictRetryExhausted("gift")
				rejection = redemption.Reject(redemption.ReasonExhaustedCap, "gift code redemption limit reached")
				break
			}
			metrics.ObserveConflictRetry("gift")
			sleepWithJitter(attempt)
			continue
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if rejection != nil {
		u.audit.Record(ctx, userID.String(), "gift.redeem", normalized, string(rejection.Reason))
		metrics.ObserveRedemption("gift", string(rejection.Reason))
		return &RedeemGiftResult{Rejection: rejection}, nil
	}

	u.audit.Record(ctx, userID.String(), "gift.redeem", normalized, "applied")
	metrics.ObserveRedemption("gift", "applied")
	return &RedeemGiftResult{CoinsGranted: coinsGranted}, nil
}

// CreateGiftCode mints a new code. Issuance is a single-writer admin path;
// the unique index on the code column backstops generator collisions.
func (u *giftCodeUseCaseImpl) CreateGiftCode(ctx context.Context, actor uuid.UUID, req reqdto.CreateGiftRequest) (*CreateGiftResult, error) {
	var validUntil *time.Time
	if req.ExpiresInDays != nil {
		t := u.clock.Now().AddDate(0, 0, *req.ExpiresInDays)
		validUntil = &t
	}

	entity, err := giftcode.NewGiftCode(req.Coins, req.MaxRedemptions, validUntil, req.GetDescription())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := u.giftRepo.Create(ctx, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	u.audit.Record(ctx, actor.String(), "gift.create", entity.Code(), "created")
	return &CreateGiftResult{ID: entity.ID(), Code: entity.Code()}, nil
}

//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hostpanel/internal/domain/giftcode"
	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/domain/user"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the database. Each repository
// method takes the store lock individually, so concurrent flows interleave
// between statements the way separate connections would, and the version
// guards carry the same semantics as the guarded UPDATEs.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*commands.UserSnapshot
	plans     map[uuid.UUID]*commands.PlanSnapshot
	coupons   map[string]*commands.CouponSnapshot
	gifts     map[string]*commands.GiftCodeSnapshot
	payments  map[uuid.UUID]*commands.PaymentSnapshot // keyed by idempotency key
	grants    []redemption.PlanGrant
	grantUser []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*commands.UserSnapshot),
		plans:    make(map[uuid.UUID]*commands.PlanSnapshot),
		coupons:  make(map[string]*commands.CouponSnapshot),
		gifts:    make(map[string]*commands.GiftCodeSnapshot),
		payments: make(map[uuid.UUID]*commands.PaymentSnapshot),
	}
}

func (s *fakeStore) addUser(u *commands.UserSnapshot)     { s.users[u.ID] = u }
func (s *fakeStore) addPlan(p *commands.PlanSnapshot)     { s.plans[p.ID] = p }
func (s *fakeStore) addCoupon(c *commands.CouponSnapshot) { s.coupons[c.Code] = c }
func (s *fakeStore) addGift(g *commands.GiftCodeSnapshot) { s.gifts[g.Code] = g }

func notFoundErr(what string) error {
	return infra.WrapRepoErr(what+" not found", nil, infra.KindNotFound)
}

func conflictErr(what string) error {
	return infra.WrapRepoErr(what+" version mismatch", nil, infra.KindConflict)
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.UserSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFoundErr("user")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*commands.UserSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFoundErr("user")
}

func (r *fakeUserRepo) ApplyEffect(_ context.Context, _ db.DBTX, id uuid.UUID, expectedVersion int64, coinsDelta int64, resources user.ResourceLimits) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.Version != expectedVersion {
		return conflictErr("user")
	}
	u.Coins += coinsDelta
	u.Limits = u.Limits.Add(resources)
	u.Version++
	return nil
}

type fakePlanRepo struct{ s *fakeStore }

func (r *fakePlanRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.PlanSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, notFoundErr("plan")
	}
	cp := *p
	return &cp, nil
}

type fakeCouponRepo struct{ s *fakeStore }

func (r *fakeCouponRepo) FindByCode(_ context.Context, _ db.DBTX, code string) (*commands.CouponSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[code]
	if !ok {
		return nil, notFoundErr("coupon")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCouponRepo) IncrementUsage(_ context.Context, _ db.DBTX, id uuid.UUID, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.coupons {
		if c.ID != id {
			continue
		}
		// same predicate as the guarded UPDATE: version AND cap re-check
		if c.Version != expectedVersion || (c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit) {
			return conflictErr("coupon")
		}
		c.UsedCount++
		c.Version++
		return nil
	}
	return conflictErr("coupon")
}

type fakeGiftRepo struct{ s *fakeStore }

func (r *fakeGiftRepo) FindByCode(_ context.Context, _ db.DBTX, code string) (*commands.GiftCodeSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.gifts[code]
	if !ok {
		return nil, notFoundErr("gift code")
	}
	cp := *g
	cp.Redemptions = append([]giftcode.Redemption(nil), g.Redemptions...)
	return &cp, nil
}

func (r *fakeGiftRepo) Create(_ context.Context, g *giftcode.GiftCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.gifts[g.Code()]; exists {
		return infra.WrapRepoErr("duplicate gift code", nil, infra.KindDuplicateKey)
	}
	r.s.gifts[g.Code()] = &commands.GiftCodeSnapshot{
		ID:             g.ID(),
		Code:           g.Code(),
		Coins:          g.Coins(),
		MaxRedemptions: g.MaxRedemptions(),
		Enabled:        g.Enabled(),
		ValidUntil:     g.ValidUntil(),
		Description:    g.Description(),
		Version:        1,
	}
	return nil
}

func (r *fakeGiftRepo) Redeem(_ context.Context, _ db.DBTX, id uuid.UUID, expectedVersion int64, userID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.gifts {
		if g.ID != id {
			continue
		}
		for _, red := range g.Redemptions {
			if red.UserID == userID {
				return infra.WrapRepoErr("duplicate redemption", nil, infra.KindDuplicateKey)
			}
		}
		if g.Version != expectedVersion || (g.MaxRedemptions != nil && g.RedeemedCount >= *g.MaxRedemptions) {
			return conflictErr("gift code")
		}
		g.RedeemedCount++
		g.Version++
		g.Redemptions = append(g.Redemptions, giftcode.Redemption{UserID: userID, RedeemedAt: at})
		return nil
	}
	return notFoundErr("gift code")
}

type fakePaymentRepo struct{ s *fakeStore }

func (r *fakePaymentRepo) FindByKey(_ context.Context, _ db.DBTX, idempotencyKey uuid.UUID) (*commands.PaymentSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[idempotencyKey]
	if !ok {
		return nil, notFoundErr("payment")
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.payments[p.IdempotencyKey()]; exists {
		return infra.WrapRepoErr("duplicate idempotency key", nil, infra.KindDuplicateKey)
	}
	r.s.payments[p.IdempotencyKey()] = &commands.PaymentSnapshot{
		ID:             p.ID(),
		IdempotencyKey: p.IdempotencyKey(),
		UserID:         p.UserID(),
		PlanID:         p.PlanID(),
		CouponCode:     p.CouponCode(),
		AmountCents:    p.AmountCents(),
		Currency:       p.Currency(),
		Status:         p.Status(),
		Version:        1,
	}
	return nil
}

func (r *fakePaymentRepo) byID(id uuid.UUID) *commands.PaymentSnapshot {
	for _, p := range r.s.payments {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *fakePaymentRepo) AttachExternalOrder(_ context.Context, id uuid.UUID, expectedVersion int64, externalOrderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.byID(id)
	if p == nil || p.Version != expectedVersion || p.Status != payment.StatusPending {
		return conflictErr("payment")
	}
	p.ExternalOrderID = &externalOrderID
	p.Version++
	return nil
}

func (r *fakePaymentRepo) MarkCaptured(_ context.Context, _ db.DBTX, id uuid.UUID, expectedVersion int64, effect redemption.Effect) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.byID(id)
	if p == nil || p.Version != expectedVersion || p.Status != payment.StatusPending {
		return conflictErr("payment")
	}
	p.Status = payment.StatusCaptured
	p.AppliedEffect = &effect
	p.Version++
	return nil
}

func (r *fakePaymentRepo) MarkFailed(_ context.Context, _ db.DBTX, id uuid.UUID, expectedVersion int64, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.byID(id)
	if p == nil || p.Version != expectedVersion || p.Status != payment.StatusPending {
		return conflictErr("payment")
	}
	p.Status = payment.StatusFailed
	p.FailureReason = &reason
	p.Version++
	return nil
}

type fakeUserPlanRepo struct{ s *fakeStore }

func (r *fakeUserPlanRepo) CreateGrant(_ context.Context, _ db.DBTX, userID uuid.UUID, grant redemption.PlanGrant, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.grants = append(r.s.grants, grant)
	r.s.grantUser = append(r.s.grantUser, userID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

// fakeGateway counts calls and serves configurable outcomes.
type fakeGateway struct {
	mu            sync.Mutex
	createCalls   int
	captureCalls  int
	createErr     error
	captureErr    error
	captureResult *commands.CaptureResult
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountCents int64, _ string, meta commands.OrderMetadata) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.createErr != nil {
		return "", g.createErr
	}
	return fmt.Sprintf("order-%s-%d", meta.PaymentID, amountCents), nil
}

func (g *fakeGateway) CaptureOrder(_ context.Context, _ string) (commands.CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captureCalls++
	if g.captureErr != nil {
		return commands.CaptureResult{}, g.captureErr
	}
	if g.captureResult != nil {
		return *g.captureResult, nil
	}
	return commands.CaptureResult{Success: true}, nil
}

func (g *fakeGateway) calls() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createCalls, g.captureCalls
}

type auditEntry struct {
	Actor, Action, Subject, Outcome string
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAudit) Record(_ context.Context, actor, action, subject, outcome string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{actor, action, subject, outcome})
}

type fakeProvisioner struct {
	mu    sync.Mutex
	calls int
}

func (p *fakeProvisioner) SyncUser(_ context.Context, _ uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return nil
}

//go:build e2e

package dbtest

import (
	"context"
	"fmt"
	"time"

	"hostpanel/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reference data every e2e suite can rely on. IDs are fixed so tests can
// address rows without querying for them first.
var (
	CustomerID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	AdminID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")

	StarterPlanID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	LifetimePlanID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	DisabledPlanID = uuid.MustParse("55555555-5555-5555-5555-555555555555")

	GiftCodeID = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

const (
	CustomerEmail = "customer@example.com"
	AdminEmail    = "admin@example.com"
	SeedPassword  = "password123"

	CouponCode        = "LAUNCH-200"
	LimitedCouponCode = "LAST-ONE"
	GiftCode          = "GIFT-WELCOME-2024"
)

// SeedReferenceData loads the fixture rows into a freshly migrated database.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hash, err := password.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	statements := []struct {
		sql  string
		args []any
	}{
		{
			sql: `INSERT INTO users (id, email, password_hash, role, coins)
			      VALUES ($1, $2, $3, 'customer', 100), ($4, $5, $3, 'admin', 0)`,
			args: []any{CustomerID, CustomerEmail, hash, AdminID, AdminEmail},
		},
		{
			sql: `INSERT INTO plans (id, name, price_cents, duration_days,
			          res_disk_mb, res_memory_mb, res_cpu_percent, res_backups, res_databases, res_allocations,
			          grant_coins, grant_server_limit, enabled)
			      VALUES
			          ($1, 'Starter', 999, 30, 10240, 2048, 100, 2, 2, 1, 50, 1, TRUE),
			          ($2, 'Legacy', 1999, 30, 20480, 4096, 200, 4, 4, 2, 0, 1, FALSE)`,
			args: []any{StarterPlanID, DisabledPlanID},
		},
		{
			sql: `INSERT INTO plans (id, name, price_cents, lifetime,
			          res_disk_mb, res_memory_mb, res_cpu_percent, grant_coins, grant_server_limit, enabled)
			      VALUES ($1, 'Forever', 4999, TRUE, 51200, 8192, 400, 500, 2, TRUE)`,
			args: []any{LifetimePlanID},
		},
		{
			sql: `INSERT INTO coupons (code, amount_off_cents, usage_limit)
			      VALUES ($1, 200, NULL), ($2, 500, 1)`,
			args: []any{CouponCode, LimitedCouponCode},
		},
		{
			sql: `INSERT INTO gift_codes (id, code, coins, max_redemptions)
			      VALUES ($1, $2, 250, 5)`,
			args: []any{GiftCodeID, GiftCode},
		},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql, stmt.args...); err != nil {
			return fmt.Errorf("failed to seed fixtures: %w", err)
		}
	}
	return nil
}

// ResetDB truncates all mutable tables and reloads the fixtures so each
// subtest starts from the same state.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `TRUNCATE
		audit_logs, payments, gift_code_redemptions, gift_codes,
		user_plans, coupons, plans, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	return SeedReferenceData(pool)
}

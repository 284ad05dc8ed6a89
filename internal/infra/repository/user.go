package repository

import (
	"context"

	"hostpanel/internal/domain/user"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(pool db.DBTX) *UserRepository {
	return &UserRepository{db: pool}
}

const userColumns = `id, email, password_hash, role, coins,
	disk_mb, memory_mb, cpu_percent, backups, databases, allocations, server_limit,
	is_active, version`

func (r *UserRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*commands.UserSnapshot, error) {
	if tx == nil {
		tx = r.db
	}
	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserSnapshot(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*commands.UserSnapshot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active`, email)
	return scanUserSnapshot(row)
}

// ApplyEffect is the only write path for coins and limits. The version guard
// makes concurrent appliers serialize through retries; coins stays
// non-negative via the column constraint.
func (r *UserRepository) ApplyEffect(
	ctx context.Context,
	tx db.DBTX,
	id uuid.UUID,
	expectedVersion int64,
	coinsDelta int64,
	resources user.ResourceLimits,
) error {
	tag, err := tx.Exec(ctx, `
		UPDATE users SET
			coins = coins + $3,
			disk_mb = disk_mb + $4,
			memory_mb = memory_mb + $5,
			cpu_percent = cpu_percent + $6,
			backups = backups + $7,
			databases = databases + $8,
			allocations = allocations + $9,
			server_limit = server_limit + $10,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2`,
		id, expectedVersion, coinsDelta,
		resources.DiskMb, resources.MemoryMb, resources.CpuPercent,
		resources.Backups, resources.Databases, resources.Allocations, resources.ServerLimit,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to apply effect to user", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user version mismatch", nil, infra.KindConflict)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserSnapshot(row rowScanner) (*commands.UserSnapshot, error) {
	var s commands.UserSnapshot
	err := row.Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.Role, &s.Coins,
		&s.Limits.DiskMb, &s.Limits.MemoryMb, &s.Limits.CpuPercent,
		&s.Limits.Backups, &s.Limits.Databases, &s.Limits.Allocations, &s.Limits.ServerLimit,
		&s.IsActive, &s.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan user", err)
	}
	return &s, nil
}
